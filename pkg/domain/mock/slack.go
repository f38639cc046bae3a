package mock

import (
	"context"
	"sync"

	"github.com/secmon-lab/introbridge/pkg/domain/model"
	slackmodel "github.com/secmon-lab/introbridge/pkg/domain/model/slack"
	slacksvc "github.com/secmon-lab/introbridge/pkg/service/slack"
)

// SlackServiceMock is a function-field test double for slack.Service. Calls
// are recorded; unset functions succeed with zero values.
type SlackServiceMock struct {
	GetUserProfileFunc  func(ctx context.Context, userID string) (*model.UserProfile, error)
	JoinChannelFunc     func(ctx context.Context, channelID string) error
	PostThreadReplyFunc func(ctx context.Context, channelID, threadTS, text string) (string, error)
	ListChannelsFunc    func(ctx context.Context) ([]slacksvc.Channel, error)
	ListHistoryFunc     func(ctx context.Context, channelID string, pageSize int) ([]*slackmodel.Event, error)

	mu       sync.Mutex
	profiles []string
	joins    []string
	replies  []PostedReply
}

// PostedReply records one PostThreadReply call
type PostedReply struct {
	ChannelID string
	ThreadTS  string
	Text      string
}

var _ slacksvc.Service = &SlackServiceMock{}

func (m *SlackServiceMock) GetUserProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	m.mu.Lock()
	m.profiles = append(m.profiles, userID)
	m.mu.Unlock()

	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return &model.UserProfile{UserID: userID, DisplayName: "User " + userID}, nil
}

func (m *SlackServiceMock) JoinChannel(ctx context.Context, channelID string) error {
	m.mu.Lock()
	m.joins = append(m.joins, channelID)
	m.mu.Unlock()

	if m.JoinChannelFunc != nil {
		return m.JoinChannelFunc(ctx, channelID)
	}
	return nil
}

func (m *SlackServiceMock) PostThreadReply(ctx context.Context, channelID, threadTS, text string) (string, error) {
	m.mu.Lock()
	m.replies = append(m.replies, PostedReply{ChannelID: channelID, ThreadTS: threadTS, Text: text})
	m.mu.Unlock()

	if m.PostThreadReplyFunc != nil {
		return m.PostThreadReplyFunc(ctx, channelID, threadTS, text)
	}
	return "9999.9", nil
}

func (m *SlackServiceMock) ListChannels(ctx context.Context) ([]slacksvc.Channel, error) {
	if m.ListChannelsFunc != nil {
		return m.ListChannelsFunc(ctx)
	}
	return []slacksvc.Channel{}, nil
}

func (m *SlackServiceMock) ListHistory(ctx context.Context, channelID string, pageSize int) ([]*slackmodel.Event, error) {
	if m.ListHistoryFunc != nil {
		return m.ListHistoryFunc(ctx, channelID, pageSize)
	}
	return nil, nil
}

// ProfileCalls returns the user IDs passed to GetUserProfile
func (m *SlackServiceMock) ProfileCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.profiles...)
}

// JoinCalls returns the channel IDs passed to JoinChannel
func (m *SlackServiceMock) JoinCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.joins...)
}

// ReplyCalls returns every posted reply
func (m *SlackServiceMock) ReplyCalls() []PostedReply {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PostedReply(nil), m.replies...)
}
