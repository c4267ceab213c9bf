// Package models defines the DTOs exchanged with the Calistrack backend and
// the aggregate arithmetic for trainings.
package models

// User is the account record. ID stays nil until the server assigns one.
// Password is write-only: it is sent on register/update and never read back.
type User struct {
	ID        *int64 `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password,omitempty"`
}

// UserRef points at an owning user.
type UserRef struct {
	ID int64 `json:"id"`
}

// CurrentUser is the snapshot cached under the currentUser key after login.
type CurrentUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Ref returns a reference to u for owner fields.
func (u CurrentUser) Ref() *UserRef {
	return &UserRef{ID: u.ID}
}

// ProfileUpdate is the payload of POST /user/update.
type ProfileUpdate struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}

// ProfileUpdateResult may carry a fresh access token when the email, which
// is the token subject, changed.
type ProfileUpdateResult struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken,omitempty"`
}
