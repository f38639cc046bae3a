package slack

import (
	"github.com/secmon-lab/introbridge/pkg/domain/types"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// EventKind classifies an inbound notification
type EventKind string

const (
	EventKindMessage         EventKind = "message"
	EventKindURLVerification EventKind = "url_verification"
	EventKindOther           EventKind = "other"
)

// Event is a normalized, immutable view of one Slack message notification.
// It is built once at the boundary, either from an Events API callback or
// from a conversations.history message.
type Event struct {
	kind          EventKind
	subtype       string
	userID        string
	channelID     string
	channelType   types.ChannelType
	text          string
	timestamp     string
	isBotAuthored bool
	retryNum      int
}

// NewEvent converts a parsed Events API envelope into an Event. Envelopes
// that carry no message (or an unknown inner event) yield EventKindOther.
func NewEvent(ev *slackevents.EventsAPIEvent) *Event {
	if ev == nil {
		return &Event{kind: EventKindOther}
	}

	switch ev.Type {
	case slackevents.URLVerification:
		return &Event{kind: EventKindURLVerification}
	case slackevents.CallbackEvent:
	default:
		return &Event{kind: EventKindOther}
	}

	msg, ok := ev.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok || msg == nil || msg.Type != string(slackevents.Message) {
		return &Event{kind: EventKindOther}
	}

	return &Event{
		kind:          EventKindMessage,
		subtype:       msg.SubType,
		userID:        msg.User,
		channelID:     msg.Channel,
		channelType:   types.NormalizeChannelType(msg.ChannelType),
		text:          msg.Text,
		timestamp:     msg.TimeStamp,
		isBotAuthored: msg.BotID != "",
	}
}

// NewEventFromHistory converts a conversations.history message. History
// messages carry no channel type, so the caller provides the channel.
func NewEventFromHistory(channelID string, msg slack.Message) *Event {
	kind := EventKindMessage
	if msg.Type != "" && msg.Type != string(slackevents.Message) {
		kind = EventKindOther
	}

	return &Event{
		kind:          kind,
		subtype:       msg.SubType,
		userID:        msg.User,
		channelID:     channelID,
		text:          msg.Text,
		timestamp:     msg.Timestamp,
		isBotAuthored: msg.BotID != "",
	}
}

// NewEventFromData builds an Event from raw values. Used by tests and
// callers that already hold decoded fields.
func NewEventFromData(kind EventKind, subtype, userID, channelID string, channelType types.ChannelType, text, timestamp string, isBotAuthored bool) *Event {
	return &Event{
		kind:          kind,
		subtype:       subtype,
		userID:        userID,
		channelID:     channelID,
		channelType:   channelType,
		text:          text,
		timestamp:     timestamp,
		isBotAuthored: isBotAuthored,
	}
}

// Qualifies reports whether the event is a plain user-authored message:
// kind is message, there is no subtype (edits, joins, deletions) and no bot
// marker (our own replies). A user ID is also required.
func (e *Event) Qualifies() bool {
	return e.kind == EventKindMessage &&
		e.subtype == "" &&
		!e.isBotAuthored &&
		e.userID != ""
}

func (e *Event) Kind() EventKind {
	return e.kind
}

func (e *Event) Subtype() string {
	return e.subtype
}

func (e *Event) UserID() string {
	return e.userID
}

func (e *Event) ChannelID() string {
	return e.channelID
}

func (e *Event) ChannelType() types.ChannelType {
	return e.channelType
}

func (e *Event) Text() string {
	return e.text
}

// Timestamp is the message ts, used as the thread anchor for replies
func (e *Event) Timestamp() string {
	return e.timestamp
}

func (e *Event) IsBotAuthored() bool {
	return e.isBotAuthored
}

// WithRetryNum returns a copy of e marked as the n-th redelivery of the same
// callback (X-Slack-Retry-Num). Zero means first delivery.
func (e *Event) WithRetryNum(n int) *Event {
	c := *e
	if n < 0 {
		n = 0
	}
	c.retryNum = n
	return &c
}

func (e *Event) RetryNum() int {
	return e.retryNum
}

// IsRetry reports whether Slack delivered this callback before
func (e *Event) IsRetry() bool {
	return e.retryNum > 0
}
