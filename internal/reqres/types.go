// Package reqres is a typed client for the reqres.in demo REST API: single
// user lookup, registration, login and user update.
package reqres

import "time"

// Error messages the service returns in ErrorResponse.Error.
const (
	MsgMissingPassword        = "Missing password"
	MsgMissingEmailOrUsername = "Missing email or username"
	MsgUserNotFound           = "user not found"
)

type User struct {
	ID        int    `json:"id" yaml:"id"`
	Email     string `json:"email" yaml:"email"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Avatar    string `json:"avatar" yaml:"avatar"`
}

type Support struct {
	URL  string `json:"url" yaml:"url"`
	Text string `json:"text" yaml:"text"`
}

// SingleUserResponse is the body of GET /users/{id}.
type SingleUserResponse struct {
	Data    User    `json:"data"`
	Support Support `json:"support"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries the same fields as LoginRequest.
type RegisterRequest LoginRequest

type RegisterResponse struct {
	ID    int    `json:"id"`
	Token string `json:"token"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateUserRequest is a partial update; absent fields are not sent.
type UpdateUserRequest struct {
	Name Optional[string] `json:"name,omitzero"`
	Job  Optional[string] `json:"job,omitzero"`
}

// UpdateUserResponse echoes the fields that were sent, plus the update time.
type UpdateUserResponse struct {
	Name      Optional[string] `json:"name,omitzero"`
	Job       Optional[string] `json:"job,omitzero"`
	UpdatedAt string           `json:"updatedAt"`
}

// UpdatedTime parses UpdatedAt as an RFC 3339 timestamp.
func (r UpdateUserResponse) UpdatedTime() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, r.UpdatedAt)
}
