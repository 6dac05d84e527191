package push

import (
	"encoding/json"
)

const (
	EventJoinRoom     = "joinRoom"
	EventJoinAdmin    = "joinAdmin"
	EventOrderUpdated = "orderUpdated"
)

// Frame is one message on the channel.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Channel selects which order updates a subscriber receives.
type Channel struct {
	Admin  bool
	UserID string
}

func UserChannel(userID string) Channel { return Channel{UserID: userID} }

func AdminChannel() Channel { return Channel{Admin: true} }

func (c Channel) String() string {
	if c.Admin {
		return "admin"
	}
	return "user:" + c.UserID
}

// joinFrame is the announcement sent right after the handshake.
func (c Channel) joinFrame() (Frame, error) {
	if c.Admin {
		return Frame{Event: EventJoinAdmin}, nil
	}
	data, err := json.Marshal(c.UserID)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: EventJoinRoom, Data: data}, nil
}
