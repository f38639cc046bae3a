package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/introbridge/pkg/cli/config"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		want    *model.ReplyConfig
	}{
		{
			name: "full reply section",
			content: `
[reply]
enabled = true
trigger = "hello everyone"
intro_template = "Welcome {user}!"
echo_template = "{user}: {text}"
`,
			want: &model.ReplyConfig{
				Enabled:       true,
				Trigger:       "hello everyone",
				IntroTemplate: "Welcome {user}!",
				EchoTemplate:  "{user}: {text}",
			},
		},
		{
			name: "partial section keeps defaults",
			content: `
[reply]
trigger = "  intro  "
`,
			want: &model.ReplyConfig{
				Enabled:       true,
				Trigger:       "intro",
				IntroTemplate: model.DefaultReplyIntroTemplate,
				EchoTemplate:  model.DefaultReplyEchoTemplate,
			},
		},
		{
			name: "reply disabled",
			content: `
[reply]
enabled = false
`,
			want: &model.ReplyConfig{
				Enabled:       false,
				Trigger:       model.DefaultReplyTrigger,
				IntroTemplate: model.DefaultReplyIntroTemplate,
				EchoTemplate:  model.DefaultReplyEchoTemplate,
			},
		},
		{
			name:    "empty file uses defaults",
			content: ``,
			want:    model.DefaultReplyConfig(),
		},
		{
			name: "empty trigger",
			content: `
[reply]
trigger = "   "
`,
			wantErr: config.ErrMissingTrigger,
		},
		{
			name: "empty template",
			content: `
[reply]
echo_template = ""
`,
			wantErr: config.ErrMissingTemplate,
		},
		{
			name:    "broken TOML",
			content: `[reply`,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadAppConfiguration(writeConfig(t, tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, cfg.ToReplyConfig()).Equal(tt.want)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err)
	})
}

func TestApp_Configure(t *testing.T) {
	t.Run("no file returns defaults", func(t *testing.T) {
		cfg, err := config.NewAppForTest("", false).Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, cfg).Equal(model.DefaultReplyConfig())
	})

	t.Run("no-reply wins over file", func(t *testing.T) {
		path := writeConfig(t, "[reply]\nenabled = true\n")
		cfg, err := config.NewAppForTest(path, true).Configure()
		gt.NoError(t, err).Required()
		gt.Bool(t, cfg.Enabled).False()
	})

	t.Run("invalid file fails", func(t *testing.T) {
		path := writeConfig(t, "[reply]\ntrigger = \"\"\n")
		_, err := config.NewAppForTest(path, false).Configure()
		gt.Error(t, err).Is(config.ErrMissingTrigger)
	})
}
