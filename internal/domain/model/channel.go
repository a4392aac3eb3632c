package model

const (
	ChatTypeChannel    = "channel"
	ChatTypeSupergroup = "supergroup"
)

// ChannelRegistration is the channel the bot gates access to.
// A nil ChannelID means the bot has not been made an administrator anywhere yet.
type ChannelRegistration struct {
	ChannelID *int64 `json:"channel_id"`
}

func NewChannelRegistration(channelID int64) ChannelRegistration {
	return ChannelRegistration{ChannelID: &channelID}
}

func (r ChannelRegistration) Configured() bool {
	return r.ChannelID != nil
}

// ID returns the channel id, or zero when not configured.
func (r ChannelRegistration) ID() int64 {
	if r.ChannelID == nil {
		return 0
	}
	return *r.ChannelID
}

// IsGateableChat reports whether a chat of this type can be registered.
func IsGateableChat(chatType string) bool {
	return chatType == ChatTypeChannel || chatType == ChatTypeSupergroup
}
