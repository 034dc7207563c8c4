// Package events fans search lifecycle notifications out to SSE clients:
// search_started, search_progress, search_finished, ping.
package events

import (
	"encoding/json"
	"time"
)

// Event is the wire envelope. Data carries the type-specific payload
// (stage counters for progress, search id and ad count for finished).
type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

const envelopeVersion = 1

// MakeEvent renders a ready-to-send envelope. Marshal failures degrade to
// an event without data rather than breaking the stream.
func MakeEvent(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = b
		}
	}
	b, _ := json.Marshal(Event{
		Type:      typ,
		Version:   envelopeVersion,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	})
	return string(b)
}
