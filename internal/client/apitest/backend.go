package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/calistrack/calistrack/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultValidity   = time.Hour
	lostPasswordLimit = 3
)

type account struct {
	user     models.User
	password string
}

// Backend is a fake REST backend. All exported methods are safe to call
// while the client under test is running.
type Backend struct {
	server *httptest.Server
	router chi.Router
	secret []byte

	// LoginFailureStatus is returned for bad credentials, 403 by default.
	LoginFailureStatus int

	mu          sync.Mutex
	nextID      int64
	users       map[int64]*account
	exercises   map[int64]models.Exercise
	trainings   map[int64]models.Training
	revoked     map[string]bool
	resetTokens map[string]int64
	lostCalls   map[string]int
	failures    []int
	routeFails  map[string][]int
	requests    map[string]int
}

// New starts a backend that is closed when t finishes.
func New(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		router:             chi.NewRouter(),
		secret:             []byte(uuid.NewString()),
		LoginFailureStatus: http.StatusForbidden,
		users:              make(map[int64]*account),
		exercises:          make(map[int64]models.Exercise),
		trainings:          make(map[int64]models.Training),
		revoked:            make(map[string]bool),
		resetTokens:        make(map[string]int64),
		lostCalls:          make(map[string]int),
		requests:           make(map[string]int),
		routeFails:         make(map[string][]int),
	}
	b.routes()

	b.server = httptest.NewServer(b.router)
	t.Cleanup(b.server.Close)
	return b
}

// URL is the backend base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

func (b *Backend) routes() {
	b.router.Use(b.countRequests)
	b.router.Use(b.injectFailures)

	b.router.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", b.handleLogin)
		r.Post("/register", b.handleRegister)
		r.Post("/lost-password", b.handleLostPassword)
		r.Get("/is-valid-lost-password", b.handleIsValidLostPassword)
		r.Post("/reset-password", b.handleResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(b.requireToken)
			r.Get("/validate-token", b.handleValidateToken)
			r.Post("/signout", b.handleSignout)
			r.Get("/user", b.handleAuthUser)
		})
	})

	b.router.Route("/user", func(r chi.Router) {
		r.Use(b.requireToken)
		r.Post("/", b.handleCreateUser)
		r.Get("/", b.handleListUsers)
		r.Post("/update", b.handleUpdateProfile)
		r.Post("/update-password", b.handleUpdatePassword)
		r.Get("/{id}", b.handleGetUser)
		r.Put("/{id}", b.handleUpdateUser)
		r.Delete("/{id}", b.handleDeleteUser)
	})

	b.router.Route("/exercise", func(r chi.Router) {
		r.Use(b.requireToken)
		r.Post("/", b.handleCreateExercise)
		r.Get("/", b.handleListExercises)
		r.Get("/user/{id}", b.handleListUserExercises)
		r.Get("/{id}", b.handleGetExercise)
		r.Put("/{id}", b.handleUpdateExercise)
		r.Delete("/{id}", b.handleDeleteExercise)
	})

	b.router.Route("/training", func(r chi.Router) {
		r.Use(b.requireToken)
		r.Post("/", b.handleCreateTraining)
		r.Get("/", b.handleListTrainings)
		r.Get("/user/{id}", b.handleListUserTrainings)
		r.Get("/{id}", b.handleGetTraining)
		r.Put("/{id}", b.handleUpdateTraining)
		r.Delete("/{id}", b.handleDeleteTraining)
	})
}

// Requests returns how many times method+path was hit, e.g.
// Requests("GET", "/exercise/user/1").
func (b *Backend) Requests(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[method+" "+path]
}

// FailNext makes the next request fail with status, whatever its route.
func (b *Backend) FailNext(status int) {
	b.mu.Lock()
	b.failures = append(b.failures, status)
	b.mu.Unlock()
}

// FailRoute makes the next request to method+path fail with status. Other
// routes are unaffected.
func (b *Backend) FailRoute(method, path string, status int) {
	key := method + " " + path
	b.mu.Lock()
	b.routeFails[key] = append(b.routeFails[key], status)
	b.mu.Unlock()
}

// AddUser registers an account directly and returns it without password.
func (b *Backend) AddUser(email, password string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.newID()
	u := models.User{ID: &id, Email: email, FirstName: "Test", LastName: "User", Phone: "0102030405"}
	b.users[id] = &account{user: u, password: password}
	return u
}

// IssueToken returns a valid access token for email, or "" if unknown.
func (b *Backend) IssueToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.findByEmail(email)
	if acc == nil {
		return ""
	}
	token, err := generateToken(*acc.user.ID, email, b.secret, defaultValidity, time.Now())
	if err != nil {
		return ""
	}
	return token
}

// Revoke invalidates token server-side.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	b.revoked[token] = true
	b.mu.Unlock()
}

// Rotate changes the signing key so every issued token stops validating.
func (b *Backend) Rotate() {
	b.mu.Lock()
	b.secret = []byte(uuid.NewString())
	b.mu.Unlock()
}

func (b *Backend) CheckPassword(email, password string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.findByEmail(email)
	return acc != nil && acc.password == password
}

// ResetToken returns the outstanding lost-password token for email.
func (b *Backend) ResetToken(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.findByEmail(email)
	if acc == nil {
		return ""
	}
	for token, id := range b.resetTokens {
		if id == *acc.user.ID {
			return token
		}
	}
	return ""
}

func (b *Backend) AddExercise(ownerID int64, e models.Exercise) models.Exercise {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.newID()
	e.ID = &id
	e.User = &models.UserRef{ID: ownerID}
	b.exercises[id] = e
	return e
}

func (b *Backend) AddTraining(ownerID int64, t models.Training) models.Training {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.newID()
	t.ID = &id
	t.TrainingUser = &models.UserRef{ID: ownerID}
	b.trainings[id] = t
	return t
}

// Exercises returns the exercises owned by userID ordered by id.
func (b *Backend) Exercises(userID int64) []models.Exercise {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exercisesOf(userID)
}

func (b *Backend) Trainings(userID int64) []models.Training {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trainingsOf(userID)
}

func (b *Backend) HasUser(email string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findByEmail(email) != nil
}

func (b *Backend) newID() int64 {
	b.nextID++
	return b.nextID
}

func (b *Backend) findByEmail(email string) *account {
	for _, acc := range b.users {
		if strings.EqualFold(acc.user.Email, email) {
			return acc
		}
	}
	return nil
}

func (b *Backend) exercisesOf(userID int64) []models.Exercise {
	out := make([]models.Exercise, 0)
	for _, e := range b.exercises {
		if e.User != nil && e.User.ID == userID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, c models.Exercise) int { return compareIDs(a.ID, c.ID) })
	return out
}

func (b *Backend) trainingsOf(userID int64) []models.Training {
	out := make([]models.Training, 0)
	for _, t := range b.trainings {
		if t.TrainingUser != nil && t.TrainingUser.ID == userID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, c models.Training) int { return compareIDs(a.ID, c.ID) })
	return out
}

func compareIDs(a, b *int64) int {
	switch {
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

func (b *Backend) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		status := 0
		key := r.Method + " " + r.URL.Path
		if len(b.failures) > 0 {
			status, b.failures = b.failures[0], b.failures[1:]
		} else if fails := b.routeFails[key]; len(fails) > 0 {
			status, b.routeFails[key] = fails[0], fails[1:]
		}
		b.mu.Unlock()

		if status != 0 {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type principalKey struct{}

type principal struct {
	userID int64
	token  string
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		b.mu.Lock()
		secret := b.secret
		revoked := b.revoked[token]
		b.mu.Unlock()

		c, err := parseToken(token, secret)
		if err != nil || revoked {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		b.mu.Lock()
		_, exists := b.users[c.UserID]
		b.mu.Unlock()
		if !exists {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey{}, principal{userID: c.UserID, token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFrom(r *http.Request) principal {
	p, _ := r.Context().Value(principalKey{}).(principal)
	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeText(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(msg))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
