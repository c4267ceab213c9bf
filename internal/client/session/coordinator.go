// Package session owns the signed-in state of the client: the cached
// credentials, the current user and the observers interested in changes.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/calistrack/calistrack/internal/client/api"
	"github.com/calistrack/calistrack/internal/client/models"
	"github.com/calistrack/calistrack/internal/client/repositories/kvstore"
	"github.com/calistrack/calistrack/internal/client/tokeninfo"
	"github.com/calistrack/calistrack/internal/logging"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Auth is the part of the auth service the coordinator drives.
type Auth interface {
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)
	ValidateToken(ctx context.Context) error
	Signout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.CurrentUser, error)
}

// ExpiryNotifier reports authentication failures seen by the transport.
type ExpiryNotifier interface {
	OnAuthExpired(fn func())
}

type Option func(*Coordinator)

func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// WithExpiryNotifier makes every auth failure reported by n end the session.
func WithExpiryNotifier(n ExpiryNotifier) Option {
	return func(c *Coordinator) {
		c.notifier = n
	}
}

// Coordinator is safe for concurrent use. Observers run on the goroutine
// that caused the transition, never under the internal lock.
type Coordinator struct {
	cache    kvstore.Repository
	auth     Auth
	notifier ExpiryNotifier
	log      logging.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     State
	user      *models.CurrentUser
	observers map[int]func(Event)
	nextObs   int
}

func New(cache kvstore.Repository, auth Auth, opts ...Option) *Coordinator {
	c := &Coordinator{
		cache:     cache,
		auth:      auth,
		log:       logging.Nop(),
		now:       time.Now,
		observers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier != nil {
		c.notifier.OnAuthExpired(c.expire)
	}
	return c
}

// Close detaches the coordinator from the transport.
func (c *Coordinator) Close() {
	if c.notifier != nil {
		c.notifier.OnAuthExpired(nil)
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentUser returns the signed-in user, if any.
func (c *Coordinator) CurrentUser() (models.CurrentUser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return models.CurrentUser{}, false
	}
	return *c.user, true
}

// Subscribe registers fn for every future transition and returns a function
// that removes it.
func (c *Coordinator) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Start restores a cached session. A token the server no longer accepts is
// wiped together with the rest of the session keys.
func (c *Coordinator) Start(ctx context.Context) error {
	token, ok, err := c.cache.Get(ctx, kvstore.KeyToken)
	if err != nil {
		return fmt.Errorf("read cached token: %w", err)
	}
	if !ok || token == "" {
		c.transition(Unauthenticated, nil, ReasonNoSession)
		return nil
	}

	if err := c.auth.ValidateToken(ctx); err != nil {
		c.log.Info(ctx, "cached session rejected", "error", err)
		return c.drop(ctx, ReasonRevoked)
	}

	user, err := c.restoreUser(ctx)
	if err != nil {
		c.log.Warn(ctx, "cannot resolve current user", "error", err)
		return c.drop(ctx, ReasonRevoked)
	}

	c.logExpiry(ctx, token)
	c.transition(Authenticated, &user, ReasonRestored)
	return nil
}

func (c *Coordinator) restoreUser(ctx context.Context) (models.CurrentUser, error) {
	raw, ok, err := c.cache.Get(ctx, kvstore.KeyCurrentUser)
	if err != nil {
		return models.CurrentUser{}, fmt.Errorf("read cached user: %w", err)
	}

	var user models.CurrentUser
	if ok && json.Unmarshal([]byte(raw), &user) == nil && user.Email != "" {
		return user, nil
	}

	// A rejection here means the cached token is unusable, not that a live
	// session expired.
	user, err = c.auth.CurrentUser(api.SkipAuthExpired(ctx))
	if err != nil {
		return models.CurrentUser{}, err
	}
	if err := c.storeUser(ctx, user); err != nil {
		return models.CurrentUser{}, err
	}
	return user, nil
}

// Login authenticates and persists the session. On failure nothing changes.
func (c *Coordinator) Login(ctx context.Context, email, password string) (models.CurrentUser, error) {
	resp, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return models.CurrentUser{}, err
	}

	user := resp.User()
	b, err := json.Marshal(user)
	if err != nil {
		return models.CurrentUser{}, fmt.Errorf("encode current user: %w", err)
	}

	values := map[string]string{
		kvstore.KeyToken:       resp.AccessToken,
		kvstore.KeyCurrentUser: string(b),
	}
	if resp.RefreshToken != "" {
		values[kvstore.KeyRefreshToken] = resp.RefreshToken
	}
	if err := c.cache.SetMany(ctx, values); err != nil {
		return models.CurrentUser{}, fmt.Errorf("store session: %w", err)
	}
	if resp.RefreshToken == "" {
		if err := c.cache.Remove(ctx, kvstore.KeyRefreshToken); err != nil {
			return models.CurrentUser{}, fmt.Errorf("store session: %w", err)
		}
	}

	c.logExpiry(ctx, resp.AccessToken)
	c.transition(Authenticated, &user, ReasonLogin)
	return user, nil
}

// Logout ends the session at the user's request. The server is told on a
// best-effort basis; local state is always cleared.
func (c *Coordinator) Logout(ctx context.Context) error {
	token, ok, err := c.cache.Get(ctx, kvstore.KeyToken)
	if err == nil && ok && token != "" {
		if err := c.auth.Signout(ctx); err != nil {
			c.log.Warn(ctx, "signout failed", "error", err)
		}
	}
	return c.drop(ctx, ReasonLogoutRequested)
}

func (c *Coordinator) expire() {
	ctx := context.Background()
	if err := c.drop(ctx, ReasonSessionExpired); err != nil {
		c.log.Error(ctx, "clear expired session", "error", err)
	}
}

func (c *Coordinator) drop(ctx context.Context, reason Reason) error {
	err := c.cache.RemoveMany(ctx, kvstore.SessionKeys...)
	if err != nil {
		err = fmt.Errorf("clear session: %w", err)
	}
	c.transition(Unauthenticated, nil, reason)
	return err
}

// ReplaceToken swaps the stored access token, e.g. after the server issued
// a new one on a profile change.
func (c *Coordinator) ReplaceToken(ctx context.Context, token string) error {
	if c.State() != Authenticated {
		return ErrNotAuthenticated
	}
	if err := c.cache.Set(ctx, kvstore.KeyToken, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// UpdateUser replaces the cached user snapshot.
func (c *Coordinator) UpdateUser(ctx context.Context, user models.CurrentUser) error {
	if c.State() != Authenticated {
		return ErrNotAuthenticated
	}
	if err := c.storeUser(ctx, user); err != nil {
		return err
	}

	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	return nil
}

// Snapshot reads the persisted session.
func (c *Coordinator) Snapshot(ctx context.Context) (models.Session, error) {
	all, err := c.cache.List(ctx)
	if err != nil {
		return models.Session{}, err
	}

	s := models.Session{
		AccessToken:  all[kvstore.KeyToken],
		RefreshToken: all[kvstore.KeyRefreshToken],
	}
	if raw, ok := all[kvstore.KeyCurrentUser]; ok {
		var u models.CurrentUser
		if json.Unmarshal([]byte(raw), &u) == nil {
			s.User = &u
		}
	}
	return s, nil
}

func (c *Coordinator) storeUser(ctx context.Context, user models.CurrentUser) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode current user: %w", err)
	}
	if err := c.cache.Set(ctx, kvstore.KeyCurrentUser, string(b)); err != nil {
		return fmt.Errorf("store current user: %w", err)
	}
	return nil
}

func (c *Coordinator) logExpiry(ctx context.Context, token string) {
	info, err := tokeninfo.Inspect(token)
	if err != nil {
		c.log.Debug(ctx, "access token is not a JWT")
		return
	}
	if !info.ExpiresAt.IsZero() {
		c.log.Debug(ctx, "access token expiry", "expires_at", info.ExpiresAt, "remaining", info.Remaining(c.now()))
	}
}

// transition applies the new state and notifies observers when it changed
// or when a login replaced the user.
func (c *Coordinator) transition(state State, user *models.CurrentUser, reason Reason) {
	c.mu.Lock()
	changed := c.state != state || reason == ReasonLogin
	c.state = state
	c.user = user

	var observers []func(Event)
	if changed {
		observers = make([]func(Event), 0, len(c.observers))
		for _, fn := range c.observers {
			observers = append(observers, fn)
		}
	}
	c.mu.Unlock()

	if !changed {
		return
	}

	c.log.Info(context.Background(), "session state changed", "state", state.String(), "reason", reason.String())
	ev := Event{State: state, Reason: reason}
	for _, fn := range observers {
		fn(ev)
	}
}
