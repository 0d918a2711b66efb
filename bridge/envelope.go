package bridge

import (
	"encoding/json"
	"fmt"
)

// Request is a page-to-host invoke call. ID correlates the eventual
// Response; Payload is passed through opaque.
type Request struct {
	ID      uint64          `json:"id"`
	Command string          `json:"command"`
	Payload json.RawMessage `json:"payload"`
}

// Event is a page-to-host fire-and-forget emit.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Response answers a Request. Exactly one of Payload or Error is
// meaningful; a non-empty Error rejects the page-side promise.
type Response struct {
	ResponseID uint64          `json:"responseId"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Push is a host-to-page event for registered listeners.
type Push struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Decode classifies a raw message from the page as a Request or an
// Event. Messages that are neither come back as an error, letting the
// host fall through to its plain-string handling.
func Decode(raw string) (*Request, *Event, error) {
	var probe struct {
		ID      *uint64 `json:"id"`
		Command string  `json:"command"`
		Event   string  `json:"event"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, nil, fmt.Errorf("bridge: not an envelope: %w", err)
	}
	switch {
	case probe.ID != nil && probe.Command != "":
		var req Request
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, nil, fmt.Errorf("bridge: malformed request: %w", err)
		}
		return &req, nil, nil
	case probe.Event != "":
		var ev Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, nil, fmt.Errorf("bridge: malformed event: %w", err)
		}
		return nil, &ev, nil
	default:
		return nil, nil, fmt.Errorf("bridge: message is neither request nor event")
	}
}

// Respond encodes the reply to a request as a receive script ready for
// evaluation in the page.
func Respond(id uint64, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("bridge: encode response payload: %w", err)
	}
	return encodeReceive(Response{ResponseID: id, Payload: raw})
}

// Reject encodes an error reply, rejecting the page-side promise.
func Reject(id uint64, message string) (string, error) {
	return encodeReceive(Response{ResponseID: id, Error: message})
}

// Emit encodes a host-to-page event for the page's listeners.
func Emit(event string, payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("bridge: encode event payload: %w", err)
	}
	return encodeReceive(Push{Event: event, Payload: raw})
}

func encodeReceive(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("bridge: encode envelope: %w", err)
	}
	return ReceiveScript(string(data)), nil
}
