package cli

import (
	"context"

	"github.com/calistrack/calistrack/internal/client/models"
	"github.com/calistrack/calistrack/internal/client/validation"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields, validates them locally and
// creates the account. The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	var f validation.RegisterForm
	var err error

	if f.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if f.LastName, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if f.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if f.Phone, err = getSimpleText(a.reader, "Phone", a.out); err != nil {
		return err
	}
	if f.Password, err = getPassword(a.reader, "Password", a.out); err != nil {
		return err
	}
	if f.Confirmation, err = getPassword(a.reader, "Confirm password", a.out); err != nil {
		return err
	}

	if err := validation.ValidateRegister(f); err != nil {
		return a.fail("Registration", err, messages{})
	}

	_, err = a.authService.Register(ctx, models.User{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Password:  f.Password,
	})
	if err != nil {
		return a.fail("Registration failed", err, messages{Conflict: "email already used"})
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Account created", Message: "you can now log in"})
	return nil
}

// Login prompts for credentials and opens a session. Wrong credentials
// leave the current state untouched.
func (a *App) Login(ctx context.Context) error {
	var f validation.LoginForm
	var err error

	if f.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if f.Password, err = getPassword(a.reader, "Password", a.out); err != nil {
		return err
	}

	if err := validation.ValidateLogin(f); err != nil {
		return a.fail("Login", err, messages{})
	}

	user, err := a.session.Login(ctx, f.Email, f.Password)
	if err != nil {
		return a.fail("Login failed", err, messages{Unauthorized: "wrong email or password"})
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Logged in", Message: user.Email})
	return nil
}

// LostPassword asks the backend to mail a reset link.
func (a *App) LostPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	if err := validation.ValidateLostPassword(email); err != nil {
		return a.fail("Lost password", err, messages{})
	}

	if err := a.authService.LostPassword(ctx, email); err != nil {
		return a.fail("Lost password", err, messages{
			NotFound: "no account uses this email",
			TooMany:  "too many reset requests, wait before asking again",
		})
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Email sent", Message: "follow the link you received to reset your password"})
	return nil
}

// ResetPassword redeems the token from a reset link.
func (a *App) ResetPassword(ctx context.Context, token string) error {
	ok, err := a.authService.IsValidLostPassword(ctx, token)
	if err != nil {
		return a.fail("Reset password", err, messages{})
	}
	if !ok {
		a.notify(Notice{Kind: NoticeError, Title: "Reset password", Message: "this reset link is invalid or has expired"})
		return nil
	}

	password, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	confirmation, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}

	if err := validation.ValidateResetPassword(password, confirmation); err != nil {
		return a.fail("Reset password", err, messages{})
	}

	if err := a.authService.ResetPassword(ctx, token, password); err != nil {
		return a.fail("Reset password", err, messages{NotFound: "this reset link is invalid or has expired"})
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Password reset", Message: "you can now log in with your new password"})
	return nil
}

// Logout ends the session; it never fails from the user's point of view.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout", "error", err)
	}
	a.notify(Notice{Kind: NoticeInfo, Title: "Logged out"})
	return nil
}
