package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrSlackNotConfigured = errors.New("slack service is not configured")
	ErrChannelRequired    = errors.New("channel ID is required")
)

// Context keys for error values
const (
	UserIDKey    = "user_id"
	ChannelIDKey = "channel_id"
)
