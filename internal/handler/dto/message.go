package dto

// CreateMessageRequest is the body for POST /messages. Unlike the realtime
// path, the HTTP path requires a recipient.
type CreateMessageRequest struct {
	From    string `json:"from" validate:"required"`
	To      string `json:"to" validate:"required"`
	EventID string `json:"eventId" validate:"required"`
	Text    string `json:"text" validate:"required"`
}
