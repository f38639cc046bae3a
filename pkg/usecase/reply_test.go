package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/introbridge/pkg/domain/mock"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
	"github.com/secmon-lab/introbridge/pkg/domain/types"
	"github.com/secmon-lab/introbridge/pkg/repository/memory"
	"github.com/secmon-lab/introbridge/pkg/usecase"
)

func TestReplyUseCase_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("trigger phrase selects intro variant", func(t *testing.T) {
		svc := &mock.SlackServiceMock{}
		uc := usecase.New(memory.New(), usecase.WithSlackService(svc))

		status := uc.Reply.Send(ctx, newMessage("U1", "Let me INTRODUCE myself", "1111.1"))
		gt.Value(t, status).Equal(types.ReplyStatusSent)

		replies := svc.ReplyCalls()
		gt.Array(t, replies).Length(1)
		gt.Value(t, replies[0].ChannelID).Equal("C001")
		gt.Value(t, replies[0].ThreadTS).Equal("1111.1")
		gt.String(t, replies[0].Text).Contains("<@U1>")
		gt.String(t, replies[0].Text).Contains("Thanks for introducing yourself")
	})

	t.Run("other text is quoted verbatim", func(t *testing.T) {
		svc := &mock.SlackServiceMock{}
		uc := usecase.New(memory.New(), usecase.WithSlackService(svc))

		status := uc.Reply.Send(ctx, newMessage("U2", "I like *Go* & tea", "2222.2"))
		gt.Value(t, status).Equal(types.ReplyStatusSent)

		replies := svc.ReplyCalls()
		gt.Array(t, replies).Length(1)
		gt.String(t, replies[0].Text).Contains(`"I like *Go* & tea"`)
		gt.String(t, replies[0].Text).Contains("<@U2>")
	})

	t.Run("post failure is swallowed", func(t *testing.T) {
		svc := &mock.SlackServiceMock{
			PostThreadReplyFunc: func(ctx context.Context, channelID, threadTS, text string) (string, error) {
				return "", goerr.New("not_in_channel")
			},
		}
		uc := usecase.New(memory.New(), usecase.WithSlackService(svc))

		status := uc.Reply.Send(ctx, newMessage("U1", "hi", "1111.1"))
		gt.Value(t, status).Equal(types.ReplyStatusFailed)
	})

	t.Run("disabled config posts nothing", func(t *testing.T) {
		svc := &mock.SlackServiceMock{}
		cfg := model.DefaultReplyConfig()
		cfg.Enabled = false
		uc := usecase.New(memory.New(), usecase.WithSlackService(svc), usecase.WithReplyConfig(cfg))

		gt.Value(t, uc.Reply.Send(ctx, newMessage("U1", "hi", "1111.1"))).Equal(types.ReplyStatusDisabled)
		gt.Array(t, svc.ReplyCalls()).Length(0)
	})

	t.Run("custom trigger and templates", func(t *testing.T) {
		svc := &mock.SlackServiceMock{}
		cfg := &model.ReplyConfig{
			Enabled:       true,
			Trigger:       "hello team",
			IntroTemplate: "welcome {user}",
			EchoTemplate:  "{user} said {text}",
		}
		uc := usecase.New(memory.New(), usecase.WithSlackService(svc), usecase.WithReplyConfig(cfg))

		uc.Reply.Send(ctx, newMessage("U1", "Hello Team!", "1.1"))
		uc.Reply.Send(ctx, newMessage("U2", "yo", "2.2"))

		replies := svc.ReplyCalls()
		gt.Array(t, replies).Length(2)
		gt.Value(t, replies[0].Text).Equal("welcome <@U1>")
		gt.Value(t, replies[1].Text).Equal("<@U2> said yo")
	})
}
