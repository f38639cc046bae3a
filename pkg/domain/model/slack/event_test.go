package slack_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/introbridge/pkg/domain/model/slack"
	"github.com/secmon-lab/introbridge/pkg/domain/types"
	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

func callback(msg *slackevents.MessageEvent) *slackevents.EventsAPIEvent {
	return &slackevents.EventsAPIEvent{
		Type: slackevents.CallbackEvent,
		InnerEvent: slackevents.EventsAPIInnerEvent{
			Type: string(slackevents.Message),
			Data: msg,
		},
	}
}

func TestNewEvent(t *testing.T) {
	t.Run("plain user message qualifies", func(t *testing.T) {
		ev := slack.NewEvent(callback(&slackevents.MessageEvent{
			Type:        "message",
			User:        "U1",
			Channel:     "C1",
			ChannelType: "public_channel",
			Text:        "Hi, I'd like to introduce myself",
			TimeStamp:   "1111.1",
		}))

		gt.Value(t, ev.Kind()).Equal(slack.EventKindMessage)
		gt.Value(t, ev.Qualifies()).Equal(true)
		gt.Value(t, ev.UserID()).Equal("U1")
		gt.Value(t, ev.ChannelID()).Equal("C1")
		gt.Value(t, ev.ChannelType()).Equal(types.ChannelTypePublic)
		gt.Value(t, ev.Timestamp()).Equal("1111.1")
	})

	t.Run("message with subtype does not qualify", func(t *testing.T) {
		ev := slack.NewEvent(callback(&slackevents.MessageEvent{
			Type:    "message",
			SubType: "channel_join",
			User:    "U1",
			Channel: "C1",
		}))
		gt.Value(t, ev.Qualifies()).Equal(false)
	})

	t.Run("bot authored message does not qualify", func(t *testing.T) {
		ev := slack.NewEvent(callback(&slackevents.MessageEvent{
			Type:    "message",
			User:    "U1",
			BotID:   "B1",
			Channel: "C1",
		}))
		gt.Value(t, ev.IsBotAuthored()).Equal(true)
		gt.Value(t, ev.Qualifies()).Equal(false)
	})

	t.Run("non-message inner event is other", func(t *testing.T) {
		ev := slack.NewEvent(&slackevents.EventsAPIEvent{
			Type: slackevents.CallbackEvent,
			InnerEvent: slackevents.EventsAPIInnerEvent{
				Type: string(slackevents.AppMention),
				Data: &slackevents.AppMentionEvent{User: "U1", Channel: "C1"},
			},
		})
		gt.Value(t, ev.Kind()).Equal(slack.EventKindOther)
		gt.Value(t, ev.Qualifies()).Equal(false)
	})

	t.Run("url verification", func(t *testing.T) {
		ev := slack.NewEvent(&slackevents.EventsAPIEvent{Type: slackevents.URLVerification})
		gt.Value(t, ev.Kind()).Equal(slack.EventKindURLVerification)
		gt.Value(t, ev.Qualifies()).Equal(false)
	})

	t.Run("nil envelope", func(t *testing.T) {
		gt.Value(t, slack.NewEvent(nil).Kind()).Equal(slack.EventKindOther)
	})
}

func TestNewEventFromHistory(t *testing.T) {
	msg := slackgo.Message{}
	msg.Type = "message"
	msg.User = "U2"
	msg.Text = "hello"
	msg.Timestamp = "2222.2"

	ev := slack.NewEventFromHistory("C9", msg)
	gt.Value(t, ev.Qualifies()).Equal(true)
	gt.Value(t, ev.ChannelID()).Equal("C9")
	gt.Value(t, ev.Text()).Equal("hello")

	msg.SubType = "channel_join"
	gt.Value(t, slack.NewEventFromHistory("C9", msg).Qualifies()).Equal(false)

	msg.SubType = ""
	msg.User = ""
	gt.Value(t, slack.NewEventFromHistory("C9", msg).Qualifies()).Equal(false)
}

func TestEvent_WithRetryNum(t *testing.T) {
	ev := slack.NewEventFromData(slack.EventKindMessage, "", "U1", "C1", types.ChannelTypePublic, "hello", "1111.1", false)
	gt.Bool(t, ev.IsRetry()).False()

	retried := ev.WithRetryNum(2)
	gt.Bool(t, retried.IsRetry()).True()
	gt.Value(t, retried.RetryNum()).Equal(2)
	gt.Value(t, retried.UserID()).Equal("U1")
	gt.Value(t, retried.Timestamp()).Equal("1111.1")

	// original is left untouched
	gt.Bool(t, ev.IsRetry()).False()
	gt.Bool(t, ev.WithRetryNum(-1).IsRetry()).False()
}
