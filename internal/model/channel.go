package model

// ChannelStatus is the state of a channel.
type ChannelStatus string

const (
	ChannelStatusActive   ChannelStatus = "active"
	ChannelStatusInactive ChannelStatus = "inactive"
	ChannelStatusDeleted  ChannelStatus = "deleted"
)

// Channel is a messaging-platform connection attached to a bot.
type Channel struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	URL    string        `json:"url"`
	Status ChannelStatus `json:"status"`
	AppID  string        `json:"app_id"`
	Key    string        `json:"key"`
}

// IsActive reports whether the channel is switched on.
func (c Channel) IsActive() bool {
	return c.Status == ChannelStatusActive
}

// ChannelContent is the body of the add/update channel endpoints.
type ChannelContent struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	URL   string `json:"url"`
	AppID string `json:"app_id"`
	Key   string `json:"key"`

	// Status is only sent by the legacy add form, which creates channels inactive
	Status ChannelStatus `json:"status,omitempty"`
}

// StatusResponse is the {"status": "..."} envelope returned by mutations.
type StatusResponse struct {
	Status string `json:"status"`
}

// OK reports whether the server answered "success".
func (r StatusResponse) OK() bool {
	return r.Status == "success"
}

// SetChannelStatus returns a copy of bots where only the given channel of
// the given bot carries the new status. Everything else is shared unchanged.
func SetChannelStatus(bots []Bot, botID, channelID string, status ChannelStatus) []Bot {
	out := make([]Bot, len(bots))
	copy(out, bots)

	for i := range out {
		if out[i].ID != botID {
			continue
		}

		channels := make([]Channel, len(out[i].Channels))
		copy(channels, out[i].Channels)

		for j := range channels {
			if channels[j].ID == channelID {
				channels[j].Status = status
			}
		}

		out[i].Channels = channels
	}

	return out
}
