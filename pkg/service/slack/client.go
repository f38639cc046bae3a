package slack

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
	slackmodel "github.com/secmon-lab/introbridge/pkg/domain/model/slack"
	"github.com/slack-go/slack"
)

const (
	// DefaultHistoryPageSize is the conversations.history page size used by backfill
	DefaultHistoryPageSize = 500

	maxHistoryPageSize = 999
)

// cacheEntry holds a cached profile with expiration
type cacheEntry struct {
	profile   model.UserProfile
	expiresAt time.Time
}

// client implements Service interface
type client struct {
	api      *slack.Client
	apiURL   string
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// Option is a functional option for client configuration
type Option func(*client)

// WithProfileCacheTTL caches resolved profiles for ttl. Zero disables the cache.
func WithProfileCacheTTL(ttl time.Duration) Option {
	return func(c *client) {
		c.cacheTTL = ttl
	}
}

// WithAPIURL points the client at a different Slack API base URL. The URL
// must end with a slash.
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiURL = url
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &client{
		cache: make(map[string]cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

// GetUserProfile retrieves the display name and email of a user
func (c *client) GetUserProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if p, ok := c.cached(userID); ok {
		return p, nil
	}

	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user info", goerr.V("user_id", userID))
	}

	profile := &model.UserProfile{
		UserID:      user.ID,
		DisplayName: displayName(user),
		Email:       user.Profile.Email,
	}
	if profile.UserID == "" {
		profile.UserID = userID
	}

	if c.cacheTTL > 0 {
		c.mu.Lock()
		c.cache[userID] = cacheEntry{
			profile:   *profile,
			expiresAt: time.Now().Add(c.cacheTTL),
		}
		c.mu.Unlock()
	}

	return profile, nil
}

func (c *client) cached(userID string) (*model.UserProfile, bool) {
	if c.cacheTTL <= 0 {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[userID]
	if !ok || !entry.expiresAt.After(time.Now()) {
		return nil, false
	}
	p := entry.profile
	return &p, true
}

// displayName prefers the real name, then the profile display name, then the handle
func displayName(user *slack.User) string {
	switch {
	case user.RealName != "":
		return user.RealName
	case user.Profile.RealName != "":
		return user.Profile.RealName
	case user.Profile.DisplayName != "":
		return user.Profile.DisplayName
	default:
		return user.Name
	}
}

// JoinChannel joins a public conversation
func (c *client) JoinChannel(ctx context.Context, channelID string) error {
	if _, _, _, err := c.api.JoinConversationContext(ctx, channelID); err != nil {
		return goerr.Wrap(err, "failed to join channel", goerr.V("channel_id", channelID))
	}
	return nil
}

// PostThreadReply posts a plain text reply in the thread of threadTS
func (c *client) PostThreadReply(ctx context.Context, channelID, threadTS, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post reply",
			goerr.V("channel_id", channelID),
			goerr.V("thread_ts", threadTS),
		)
	}
	return ts, nil
}

// ListChannels retrieves all non-archived public channels visible to the bot
func (c *client) ListChannels(ctx context.Context) ([]Channel, error) {
	channels := []Channel{}
	var cursor string

	for {
		params := &slack.GetConversationsParameters{
			// TODO: Add "private_channel" once the app requests the groups:read scope
			Types:           []string{"public_channel"},
			ExcludeArchived: true,
			Limit:           200,
			Cursor:          cursor,
		}

		convs, nextCursor, err := c.api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get conversations")
		}

		for _, conv := range convs {
			channels = append(channels, Channel{
				ID:   conv.ID,
				Name: conv.Name,
			})
		}

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	return channels, nil
}

// ListHistory pages through conversations.history until exhausted
func (c *client) ListHistory(ctx context.Context, channelID string, pageSize int) ([]*slackmodel.Event, error) {
	if pageSize <= 0 {
		pageSize = DefaultHistoryPageSize
	}
	if pageSize > maxHistoryPageSize {
		pageSize = maxHistoryPageSize
	}

	var events []*slackmodel.Event
	var cursor string

	for {
		resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
			ChannelID: channelID,
			Cursor:    cursor,
			Limit:     pageSize,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get conversation history",
				goerr.V("channel_id", channelID),
				goerr.V("cursor", cursor),
			)
		}

		for _, msg := range resp.Messages {
			events = append(events, slackmodel.NewEventFromHistory(channelID, msg))
		}

		if !resp.HasMore || resp.ResponseMetaData.NextCursor == "" {
			break
		}
		cursor = resp.ResponseMetaData.NextCursor
	}

	return events, nil
}
