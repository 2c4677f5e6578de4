// Package dto defines request and response shapes for the HTTP API.
package dto

// CreateUserRequest is the body for POST /users.
type CreateUserRequest struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Role      string   `json:"role"`
	Interests []string `json:"interests"`
}

// UpdateUserRequest is the partial patch body for PUT /users/{id}.
// Nil fields are left untouched; the id in the path is immutable.
type UpdateUserRequest struct {
	Name      *string   `json:"name"`
	Role      *string   `json:"role"`
	Interests *[]string `json:"interests"`
}

// MatchRequest is the body for POST /match. EventID is part of the request
// shape but matching filters by interest only.
type MatchRequest struct {
	EventID  string `json:"eventId" validate:"required"`
	Interest string `json:"interest" validate:"required"`
}

// ErrorResponse is the error body shape.
type ErrorResponse struct {
	Error string `json:"error"`
}

// OKResponse acknowledges a successful mutation.
type OKResponse struct {
	OK bool `json:"ok"`
}
