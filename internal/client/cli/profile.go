package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/calistrack/calistrack/internal/client/models"
	"github.com/calistrack/calistrack/internal/client/tokeninfo"
	"github.com/calistrack/calistrack/internal/client/validation"
)

var profileMessages = messages{
	NotFound: "account not found",
	Conflict: "email already used",
}

func (a *App) Profile(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	u, err := a.userService.FindByID(ctx, user.ID)
	if err != nil {
		return a.fail("Profile", err, profileMessages)
	}

	a.println(fmt.Sprintf("Name:  %s %s", u.FirstName, u.LastName))
	a.println(fmt.Sprintf("Email: %s", u.Email))
	a.println(fmt.Sprintf("Phone: %s", u.Phone))
	return nil
}

// EditProfile updates contact details and, optionally, the password. When
// the email changes the server issues a new token, which replaces the
// cached one.
func (a *App) EditProfile(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	current, err := a.userService.FindByID(ctx, user.ID)
	if err != nil {
		return a.fail("Profile", err, profileMessages)
	}

	var f validation.ProfileForm
	if f.FirstName, err = GetWithDefault(a.reader, "First name", current.FirstName, a.out); err != nil {
		return err
	}
	if f.LastName, err = GetWithDefault(a.reader, "Last name", current.LastName, a.out); err != nil {
		return err
	}
	if f.Email, err = GetWithDefault(a.reader, "Email", current.Email, a.out); err != nil {
		return err
	}
	if f.Phone, err = GetWithDefault(a.reader, "Phone", current.Phone, a.out); err != nil {
		return err
	}
	if f.Password, err = getPassword(a.reader, "New password (blank to keep)", a.out); err != nil {
		return err
	}
	if f.Password != "" {
		if f.Confirmation, err = getPassword(a.reader, "Confirm password", a.out); err != nil {
			return err
		}
	}

	if err := validation.ValidateProfile(f); err != nil {
		return a.fail("Profile", err, messages{})
	}

	res, err := a.userService.UpdateProfile(ctx, models.ProfileUpdate{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Phone:     f.Phone,
		Email:     f.Email,
		Password:  f.Password,
	})
	if err != nil {
		return a.fail("Cannot update profile", err, profileMessages)
	}
	if !res.Success {
		a.notify(Notice{Kind: NoticeError, Title: "Cannot update profile", Message: "the server refused the update"})
		return nil
	}

	if res.AccessToken != "" {
		if err := a.session.ReplaceToken(ctx, res.AccessToken); err != nil {
			return a.fail("Cannot update profile", err, messages{})
		}
	}
	if f.Email != user.Email {
		user.Email = f.Email
		if err := a.session.UpdateUser(ctx, user); err != nil {
			return a.fail("Cannot update profile", err, messages{})
		}
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Profile updated"})
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}

	password, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	confirmation, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}

	if err := validation.ValidatePasswordChange(password, confirmation); err != nil {
		return a.fail("Password", err, messages{})
	}

	status, err := a.userService.UpdatePassword(ctx, password)
	if err != nil {
		return a.fail("Cannot change password", err, messages{})
	}

	switch status {
	case models.PasswordUpdateDone:
		a.notify(Notice{Kind: NoticeSuccess, Title: "Password changed"})
	case models.PasswordUpdateAlreadyUsed:
		a.notify(Notice{Kind: NoticeError, Title: "Cannot change password", Message: "this password was already used, choose another one"})
	case models.PasswordUpdateIncorrect:
		a.notify(Notice{Kind: NoticeError, Title: "Cannot change password", Message: "the server rejected this password"})
	}
	return nil
}

// DeleteAccount removes the account after confirmation and logs out.
func (a *App) DeleteAccount(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	ok, err := Confirm(a.reader, "Delete your account? This cannot be undone.", a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.userService.Delete(ctx, user.ID); err != nil {
		return a.fail("Cannot delete account", err, profileMessages)
	}

	if err := a.session.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout after account deletion", "error", err)
	}
	a.notify(Notice{Kind: NoticeSuccess, Title: "Account deleted"})
	return nil
}

// WhoAmI prints the signed-in user and what the access token says about
// itself.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	a.println(fmt.Sprintf("Logged in as %s (id %d)", user.Email, user.ID))

	snap, err := a.session.Snapshot(ctx)
	if err != nil {
		return a.fail("Who am I", err, messages{})
	}
	info, err := tokeninfo.Inspect(snap.AccessToken)
	if err != nil {
		a.println("Token details unavailable")
		return nil
	}

	if info.Subject != "" {
		a.println("Token subject: " + info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		now := time.Now()
		if info.Expired(now) {
			a.println("Token expired at " + info.ExpiresAt.Format(time.RFC3339))
		} else {
			a.println(fmt.Sprintf("Token expires at %s (in %s)", info.ExpiresAt.Format(time.RFC3339), info.Remaining(now).Round(time.Second)))
		}
	}
	return nil
}
