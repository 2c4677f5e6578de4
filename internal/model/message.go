package model

// ChatMessage is a single relayed chat line, immutable once stored.
// To is empty for event-wide messages. Duplicates are legal; ordering is
// insertion order.
type ChatMessage struct {
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	EventID string `json:"eventId"`
	Text    string `json:"text"`
}
