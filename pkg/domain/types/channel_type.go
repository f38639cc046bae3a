package types

// ChannelType is the conversation kind carried by Slack message events
// ("channel_type" field).
type ChannelType string

const (
	ChannelTypePublic  ChannelType = "channel"
	ChannelTypePrivate ChannelType = "group"
	ChannelTypeIM      ChannelType = "im"
	ChannelTypeMPIM    ChannelType = "mpim"
)

// NormalizeChannelType maps the conversation type names used by the
// conversations API ("public_channel", "private_channel") onto event names.
func NormalizeChannelType(s string) ChannelType {
	switch s {
	case "public_channel":
		return ChannelTypePublic
	case "private_channel":
		return ChannelTypePrivate
	default:
		return ChannelType(s)
	}
}

// CanSelfJoin reports whether the bot may add itself to a conversation of
// this type. Private channels and direct messages require an invitation.
// An unknown (empty) type is treated as public.
func (c ChannelType) CanSelfJoin() bool {
	switch c {
	case ChannelTypePrivate, ChannelTypeIM, ChannelTypeMPIM:
		return false
	default:
		return true
	}
}

// String returns the string representation of the channel type
func (c ChannelType) String() string {
	return string(c)
}
