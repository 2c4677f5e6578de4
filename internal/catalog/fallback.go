package catalog

import "encoding/json"

// Fallback generates the degraded payloads served when the provider is
// unreachable. The shapes mirror real provider responses so clients keep
// working through an outage.
type Fallback struct {
	Events    func() json.RawMessage
	Event     func(id string) json.RawMessage
	Attendees func(id string) json.RawMessage
}

// withDefaults fills any nil generator from DefaultFallback, so every
// degraded path has a payload to serve.
func (f Fallback) withDefaults() Fallback {
	defaults := DefaultFallback()
	if f.Events == nil {
		f.Events = defaults.Events
	}
	if f.Event == nil {
		f.Event = defaults.Event
	}
	if f.Attendees == nil {
		f.Attendees = defaults.Attendees
	}
	return f
}

// DefaultFallback returns the standard placeholder payloads.
func DefaultFallback() Fallback {
	return Fallback{
		Events: func() json.RawMessage {
			return json.RawMessage(`{"events":[{"id":"sample","name":"Sample Event"}]}`)
		},
		Event: func(id string) json.RawMessage {
			payload, _ := json.Marshal(map[string]string{
				"id":   id,
				"name": "Sample Event Detail",
			})
			return payload
		},
		Attendees: func(string) json.RawMessage {
			return json.RawMessage(`{"attendees":[]}`)
		},
	}
}
