package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken        string
	signingSecret   string
	profileCacheTTL time.Duration
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("INTROBRIDGE_SLACK_BOT_TOKEN", "SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for webhook verification)",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("INTROBRIDGE_SLACK_SIGNING_SECRET", "SLACK_SIGNING_SECRET"),
		},
		&cli.DurationFlag{
			Name:        "slack-profile-cache-ttl",
			Usage:       "Cache users.info results for this long (0 disables the cache)",
			Category:    "Slack",
			Destination: &x.profileCacheTTL,
			Sources:     cli.EnvVars("INTROBRIDGE_SLACK_PROFILE_CACHE_TTL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.Duration("profile-cache-ttl", x.profileCacheTTL),
	)
}

// Configure creates the Slack Web API client
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" {
		return nil, goerr.Wrap(ErrMissingBotToken, "set --slack-bot-token or SLACK_BOT_TOKEN")
	}

	svc, err := slack.New(x.botToken, slack.WithProfileCacheTTL(x.profileCacheTTL))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}

// ValidateWebhook checks the settings required to serve the events endpoint
func (x *Slack) ValidateWebhook() error {
	if x.signingSecret == "" {
		return goerr.Wrap(ErrMissingSecret, "set --slack-signing-secret or SLACK_SIGNING_SECRET")
	}
	return nil
}

// BotToken returns the Slack bot token
func (x *Slack) BotToken() string {
	return x.botToken
}

// SigningSecret returns the Slack signing secret
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}
