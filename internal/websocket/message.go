package websocket

import "encoding/json"

// Actions pushed to viewers.
const (
	ActionFeedRefresh = "feed.refresh"
	ActionError       = "error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload,omitempty"`
}

// Encode marshals a message for the wire.
func Encode(action string, payload interface{}) []byte {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		data, _ = json.Marshal(Message{Action: ActionError, Payload: err.Error()})
	}
	return data
}
