package slack

import (
	"context"

	"github.com/secmon-lab/introbridge/pkg/domain/model"
	slackmodel "github.com/secmon-lab/introbridge/pkg/domain/model/slack"
)

// Service provides the Slack Web API operations used by the intro bridge
type Service interface {
	// GetUserProfile resolves a user ID to display name and email
	GetUserProfile(ctx context.Context, userID string) (*model.UserProfile, error)

	// JoinChannel adds the bot to a public channel. Joining a channel the bot
	// is already in succeeds.
	JoinChannel(ctx context.Context, channelID string) error

	// PostThreadReply posts text as a threaded reply to threadTS and returns
	// the timestamp of the posted message
	PostThreadReply(ctx context.Context, channelID, threadTS, text string) (string, error)

	// ListChannels lists conversations visible to the bot
	ListChannels(ctx context.Context) ([]Channel, error)

	// ListHistory returns every message of a channel, newest first as the
	// API returns them, fetching pageSize messages per request
	ListHistory(ctx context.Context, channelID string, pageSize int) ([]*slackmodel.Event, error)
}

// Channel represents a Slack channel
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
