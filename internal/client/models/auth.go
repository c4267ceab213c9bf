package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by /api/auth/login.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ID           int64  `json:"id"`
	Email        string `json:"email"`
}

// User returns the cacheable snapshot carried by the response.
func (r AuthResponse) User() CurrentUser {
	return CurrentUser{ID: r.ID, Email: r.Email}
}

// Session is what the client keeps between runs.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *CurrentUser
}

type LostPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type PasswordUpdateRequest struct {
	Password string `json:"password"`
}

// PasswordUpdateStatus is the outcome of POST /user/update-password.
type PasswordUpdateStatus int

const (
	PasswordUpdateDone PasswordUpdateStatus = iota + 1
	// PasswordUpdateIncorrect: the server rejected the new password.
	PasswordUpdateIncorrect
	// PasswordUpdateAlreadyUsed: the new password equals a previous one.
	PasswordUpdateAlreadyUsed
)

var ErrUnknownPasswordStatus = errors.New("unknown password update status")

func ParsePasswordUpdateStatus(s string) (PasswordUpdateStatus, error) {
	switch s {
	case "DONE":
		return PasswordUpdateDone, nil
	case "INCORRECT":
		return PasswordUpdateIncorrect, nil
	case "ALREADY":
		return PasswordUpdateAlreadyUsed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPasswordStatus, s)
	}
}

func (s PasswordUpdateStatus) String() string {
	switch s {
	case PasswordUpdateDone:
		return "DONE"
	case PasswordUpdateIncorrect:
		return "INCORRECT"
	case PasswordUpdateAlreadyUsed:
		return "ALREADY"
	default:
		return "UNKNOWN"
	}
}

func (s PasswordUpdateStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PasswordUpdateStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParsePasswordUpdateStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PasswordUpdateResponse is the body of /user/update-password, on success and
// on structured failures alike.
type PasswordUpdateResponse struct {
	Status  PasswordUpdateStatus `json:"status"`
	Message string               `json:"message,omitempty"`
}
