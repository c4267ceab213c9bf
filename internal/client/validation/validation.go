// Package validation holds the client-side form checks. Nothing that fails
// here is ever sent to the server.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength       = 10
	MinLegacyPasswordLength = 8
	MinPhoneDigits          = 10

	// PasswordSpecials are the characters accepted as the special class.
	PasswordSpecials = "@$!.,;+:§£¤%*=|`\\#?&(){}[]~/^_-"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Error is a failed check, shaped for a notice: a short title and a
// message naming what to fix.
type Error struct {
	Field   string
	Title   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Field is a named form value.
type Field struct {
	Name  string
	Value string
}

// Required fails on the first blank field.
func Required(fields ...Field) *Error {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			return &Error{Field: f.Name, Title: "Missing field", Message: fmt.Sprintf("please fill in %s", f.Name)}
		}
	}
	return nil
}

func Email(value string) *Error {
	if !emailRe.MatchString(value) {
		return &Error{Field: "email", Title: "Invalid format", Message: "please enter a valid email address"}
	}
	return nil
}

// Phone accepts any formatting as long as at least MinPhoneDigits digits
// remain once everything else is stripped.
func Phone(value string) *Error {
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < MinPhoneDigits {
		return &Error{Field: "phone", Title: "Invalid format", Message: fmt.Sprintf("please enter a valid phone number (at least %d digits)", MinPhoneDigits)}
	}
	return nil
}

// PasswordComplexity requires MinPasswordLength characters on one line with
// at least one upper-case letter, one lower-case letter, one digit and one
// character from PasswordSpecials.
func PasswordComplexity(value string) *Error {
	var upper, lower, digit, special bool
	for _, r := range value {
		switch {
		case r == '\n' || r == '\r':
			return complexityError()
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}

	if utf8.RuneCountInString(value) < MinPasswordLength || !upper || !lower || !digit || !special {
		return complexityError()
	}
	return nil
}

func complexityError() *Error {
	return &Error{
		Field: "password",
		Title: "Incorrect format",
		Message: fmt.Sprintf("the password must be at least %d characters long and contain an upper-case letter, "+
			"a lower-case letter, a digit and a special character (%s)", MinPasswordLength, PasswordSpecials),
	}
}

func MinLength(name, value string, n int) *Error {
	if utf8.RuneCountInString(value) < n {
		return &Error{Field: name, Title: "Too short", Message: fmt.Sprintf("%s must be at least %d characters long", name, n)}
	}
	return nil
}

// Confirm checks that a confirmation matches its original.
func Confirm(value, confirmation string) *Error {
	if value != confirmation {
		return &Error{Field: "confirmation", Title: "Passwords differ", Message: "the passwords do not match"}
	}
	return nil
}

// PositiveInt parses raw as an integer greater than zero.
func PositiveInt(name, raw string) (int, *Error) {
	return parseInt(name, raw, 1)
}

// NonNegativeInt parses raw as an integer of zero or more.
func NonNegativeInt(name, raw string) (int, *Error) {
	return parseInt(name, raw, 0)
}

func parseInt(name, raw string, min int) (int, *Error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < min {
		return 0, &Error{Field: name, Title: "Invalid number", Message: fmt.Sprintf("%s must be a whole number of at least %d", name, min)}
	}
	return n, nil
}

// first returns the first failed check as an error, or a nil error.
func first(checks ...func() *Error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
