// Package dto holds the JSON request and response shapes of the HTTP API.
package dto

import (
	"github.com/userhub/userhub/internal/model"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidID        = "INVALID_ID"
	CodeInvalidDate      = "INVALID_DATE"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// UserRequest is the body of POST, PUT and PATCH /users.
// Every field is a pointer: nil means absent or JSON null. Any "id" in the
// body is ignored.
type UserRequest struct {
	Email       *string     `json:"email"`
	FirstName   *string     `json:"firstName"`
	LastName    *string     `json:"lastName"`
	Birthday    *model.Date `json:"birthday"`
	Address     *string     `json:"address"`
	PhoneNumber *string     `json:"phoneNumber"`
}

// ToUser converts a full-record request into a candidate. Absent mandatory
// fields become empty values so validation reports them.
func (r *UserRequest) ToUser() model.User {
	u := model.User{
		Address:     copyString(r.Address),
		PhoneNumber: copyString(r.PhoneNumber),
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Birthday != nil {
		b := *r.Birthday
		u.Birthday = &b
	}
	return u
}

// ToPatch converts a partial request into a patch of the supplied fields.
func (r *UserRequest) ToPatch() model.UserPatch {
	p := model.UserPatch{
		Email:       copyString(r.Email),
		FirstName:   copyString(r.FirstName),
		LastName:    copyString(r.LastName),
		Address:     copyString(r.Address),
		PhoneNumber: copyString(r.PhoneNumber),
	}
	if r.Birthday != nil {
		b := *r.Birthday
		p.Birthday = &b
	}
	return p
}

// UserResponse is a stored record as returned by the API.
type UserResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Birthday    *model.Date `json:"birthday,omitempty"`
	Address     *string     `json:"address,omitempty"`
	PhoneNumber *string     `json:"phoneNumber,omitempty"`
}

// FieldError is one violated rule. Field is empty for record-level rules.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Birthday:    u.Birthday,
		Address:     u.Address,
		PhoneNumber: u.PhoneNumber,
	}
}

// ToUserListResponse converts users to responses. The result is never nil so
// an empty list encodes as [].
func ToUserListResponse(users []model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
