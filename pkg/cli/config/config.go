package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	Reply *Reply `toml:"reply"`
}

// Reply holds the courtesy reply settings. Unset fields keep their defaults.
type Reply struct {
	Enabled       *bool   `toml:"enabled"`
	Trigger       *string `toml:"trigger"`
	IntroTemplate *string `toml:"intro_template"`
	EchoTemplate  *string `toml:"echo_template"`
}

// Validate checks if the Reply section is valid
func (r *Reply) Validate() error {
	if r.Trigger != nil && strings.TrimSpace(*r.Trigger) == "" {
		return goerr.Wrap(ErrMissingTrigger, "reply.trigger must not be empty")
	}
	if r.IntroTemplate != nil && strings.TrimSpace(*r.IntroTemplate) == "" {
		return goerr.Wrap(ErrMissingTemplate, "reply.intro_template must not be empty", goerr.V(TemplateKey, "intro_template"))
	}
	if r.EchoTemplate != nil && strings.TrimSpace(*r.EchoTemplate) == "" {
		return goerr.Wrap(ErrMissingTemplate, "reply.echo_template must not be empty", goerr.V(TemplateKey, "echo_template"))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.Reply != nil {
		if err := a.Reply.Validate(); err != nil {
			return goerr.Wrap(err, "invalid reply section")
		}
	}
	return nil
}

// ToReplyConfig merges the file settings over the built-in defaults
func (a *AppConfig) ToReplyConfig() *model.ReplyConfig {
	cfg := model.DefaultReplyConfig()
	if a == nil || a.Reply == nil {
		return cfg
	}

	if a.Reply.Enabled != nil {
		cfg.Enabled = *a.Reply.Enabled
	}
	if a.Reply.Trigger != nil {
		cfg.Trigger = strings.TrimSpace(*a.Reply.Trigger)
	}
	if a.Reply.IntroTemplate != nil {
		cfg.IntroTemplate = *a.Reply.IntroTemplate
	}
	if a.Reply.EchoTemplate != nil {
		cfg.EchoTemplate = *a.Reply.EchoTemplate
	}
	return cfg
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// App holds the --config and --no-reply flags
type App struct {
	path    string
	noReply bool
}

func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to TOML configuration file (reply settings)",
			Sources:     cli.EnvVars("INTROBRIDGE_CONFIG"),
			Destination: &x.path,
		},
		&cli.BoolFlag{
			Name:        "no-reply",
			Usage:       "Disable the courtesy reply",
			Sources:     cli.EnvVars("INTROBRIDGE_NO_REPLY"),
			Destination: &x.noReply,
		},
	}
}

func (x App) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", x.path),
		slog.Bool("no-reply", x.noReply),
	)
}

// Configure loads the configuration file, if any, and returns the
// effective reply settings.
func (x *App) Configure() (*model.ReplyConfig, error) {
	app := &AppConfig{}
	if x.path != "" {
		loaded, err := LoadAppConfiguration(x.path)
		if err != nil {
			return nil, err
		}
		app = loaded
	}

	cfg := app.ToReplyConfig()
	if x.noReply {
		cfg.Enabled = false
	}
	return cfg, nil
}
