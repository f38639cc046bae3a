package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
)

func TestReplyConfig_Compose(t *testing.T) {
	cfg := model.DefaultReplyConfig()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "trigger phrase selects intro variant",
			text: "Hi, I'd like to introduce myself",
			want: "Hi <@U1>! Thanks for introducing yourself. I'll suggest some connections soon!",
		},
		{
			name: "trigger match ignores case",
			text: "Let me INTRODUCE myself",
			want: "Hi <@U1>! Thanks for introducing yourself. I'll suggest some connections soon!",
		},
		{
			name: "otherwise echo the text verbatim",
			text: "I work on {infra} & data",
			want: `Hi <@U1>! I saw your intro: "I work on {infra} & data". I'll suggest some connections soon!`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, cfg.Compose("U1", tt.text)).Equal(tt.want)
		})
	}
}

func TestReplyConfig_Matches(t *testing.T) {
	cfg := &model.ReplyConfig{Trigger: ""}
	gt.Value(t, cfg.Matches("introduce")).Equal(false)
}
