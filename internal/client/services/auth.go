package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/calistrack/calistrack/internal/client/api"
	"github.com/calistrack/calistrack/internal/client/models"
)

const authPath = "/api/auth"

var ErrEmptyToken = errors.New("server returned an empty access token")

// AuthService covers the /api/auth endpoints.
//
// Login, ValidateToken and Signout are sent with api.SkipAuthExpired: a
// rejection there is an answer about the credentials, not a sign that the
// running session has expired.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)
	Register(ctx context.Context, user models.User) (models.User, error)
	ValidateToken(ctx context.Context) error
	LostPassword(ctx context.Context, email string) error
	IsValidLostPassword(ctx context.Context, token string) (bool, error)
	ResetPassword(ctx context.Context, token, password string) error
	Signout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.CurrentUser, error)
}

type authService struct {
	transport Transport
}

func NewAuthService(t Transport) AuthService {
	return &authService{transport: t}
}

func (a *authService) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}

	if err := a.transport.Post(api.SkipAuthExpired(ctx), authPath+"/login", req, &resp); err != nil {
		return models.AuthResponse{}, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return models.AuthResponse{}, fmt.Errorf("login: %w", ErrEmptyToken)
	}
	return resp, nil
}

func (a *authService) Register(ctx context.Context, user models.User) (models.User, error) {
	var created models.User
	if err := a.transport.Post(ctx, authPath+"/register", user, &created); err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}
	created.Password = ""
	return created, nil
}

func (a *authService) ValidateToken(ctx context.Context) error {
	if err := a.transport.Get(api.SkipAuthExpired(ctx), authPath+"/validate-token", nil); err != nil {
		return fmt.Errorf("validate token: %w", err)
	}
	return nil
}

func (a *authService) LostPassword(ctx context.Context, email string) error {
	if err := a.transport.Post(ctx, authPath+"/lost-password", models.LostPasswordRequest{Email: email}, nil); err != nil {
		return fmt.Errorf("lost password: %w", err)
	}
	return nil
}

// IsValidLostPassword reports whether a reset token is still redeemable. An
// unknown token is a false result, not an error.
func (a *authService) IsValidLostPassword(ctx context.Context, token string) (bool, error) {
	path := authPath + "/is-valid-lost-password?token=" + url.QueryEscape(token)

	err := a.transport.Get(ctx, path, nil)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, api.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check reset token: %w", err)
	}
}

func (a *authService) ResetPassword(ctx context.Context, token, password string) error {
	req := models.ResetPasswordRequest{Token: token, Password: password}
	if err := a.transport.Post(ctx, authPath+"/reset-password", req, nil); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (a *authService) Signout(ctx context.Context) error {
	if err := a.transport.Post(api.SkipAuthExpired(ctx), authPath+"/signout", nil, nil); err != nil {
		return fmt.Errorf("signout: %w", err)
	}
	return nil
}

func (a *authService) CurrentUser(ctx context.Context) (models.CurrentUser, error) {
	var u models.CurrentUser
	if err := a.transport.Get(ctx, authPath+"/user", &u); err != nil {
		return models.CurrentUser{}, fmt.Errorf("current user: %w", err)
	}
	return u, nil
}
