package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/calistrack/calistrack/internal/client/api"
	"github.com/calistrack/calistrack/internal/client/models"
)

const userPath = "/user"

// UserService manages accounts and the signed-in user's profile.
type UserService interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	Update(ctx context.Context, id int64, user models.User) (models.User, error)
	Delete(ctx context.Context, id int64) error
	// UpdateProfile may return a fresh access token; storing it is up to
	// the caller.
	UpdateProfile(ctx context.Context, p models.ProfileUpdate) (models.ProfileUpdateResult, error)
	// UpdatePassword returns the server verdict. Rejections that carry a
	// status are results, not errors.
	UpdatePassword(ctx context.Context, password string) (models.PasswordUpdateStatus, error)
}

type userService struct {
	transport Transport
}

func NewUserService(t Transport) UserService {
	return &userService{transport: t}
}

func (s *userService) Create(ctx context.Context, user models.User) (models.User, error) {
	var created models.User
	if err := s.transport.Post(ctx, userPath+"/", user, &created); err != nil {
		return models.User{}, fmt.Errorf("user create: %w", err)
	}
	return created, nil
}

func (s *userService) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.transport.Get(ctx, userPath+"/", &users); err != nil {
		return nil, fmt.Errorf("user list: %w", err)
	}
	return users, nil
}

func (s *userService) FindByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	if err := s.transport.Get(ctx, idPath(userPath, id), &u); err != nil {
		return models.User{}, fmt.Errorf("user %d: %w", id, err)
	}
	return u, nil
}

func (s *userService) Update(ctx context.Context, id int64, user models.User) (models.User, error) {
	var updated models.User
	if err := s.transport.Put(ctx, idPath(userPath, id), user, &updated); err != nil {
		return models.User{}, fmt.Errorf("user update %d: %w", id, err)
	}
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.transport.Delete(ctx, idPath(userPath, id), nil, nil); err != nil {
		return fmt.Errorf("user delete %d: %w", id, err)
	}
	return nil
}

func (s *userService) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (models.ProfileUpdateResult, error) {
	var res models.ProfileUpdateResult
	if err := s.transport.Post(ctx, userPath+"/update", p, &res); err != nil {
		return models.ProfileUpdateResult{}, fmt.Errorf("profile update: %w", err)
	}
	return res, nil
}

func (s *userService) UpdatePassword(ctx context.Context, password string) (models.PasswordUpdateStatus, error) {
	var res models.PasswordUpdateResponse
	err := s.transport.Post(ctx, userPath+"/update-password", models.PasswordUpdateRequest{Password: password}, &res)
	if err == nil {
		return res.Status, nil
	}

	if status, ok := statusFromError(err); ok {
		return status, nil
	}
	return 0, fmt.Errorf("password update: %w", err)
}

// statusFromError extracts a password status from a rejected response body.
func statusFromError(err error) (models.PasswordUpdateStatus, bool) {
	var he *api.HTTPError
	if !errors.As(err, &he) || errors.Is(err, api.ErrUnauthorized) {
		return 0, false
	}

	var res models.PasswordUpdateResponse
	if json.Unmarshal(he.Body, &res) != nil || res.Status == 0 {
		return 0, false
	}
	return res.Status, true
}
