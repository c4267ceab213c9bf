package apitest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/calistrack/calistrack/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.findByEmail(req.Email)
	if acc == nil || acc.password != req.Password {
		writeError(w, b.LoginFailureStatus, "bad credentials")
		return
	}

	token, err := generateToken(*acc.user.ID, acc.user.Email, b.secret, defaultValidity, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{
		AccessToken:  token,
		RefreshToken: uuid.NewString(),
		ID:           *acc.user.ID,
		Email:        acc.user.Email,
	})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if !decode(w, r, &u) {
		return
	}
	if u.Email == "" || u.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.findByEmail(u.Email) != nil {
		writeError(w, http.StatusConflict, "email already used")
		return
	}

	id := b.newID()
	u.ID = &id
	password := u.Password
	u.Password = ""
	b.users[id] = &account{user: u, password: password}

	writeJSON(w, http.StatusCreated, u)
}

func (b *Backend) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (b *Backend) handleSignout(w http.ResponseWriter, r *http.Request) {
	b.Revoke(principalFrom(r).token)
	writeText(w, "signed out")
}

func (b *Backend) handleAuthUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	acc := b.users[principalFrom(r).userID]
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, models.CurrentUser{ID: *acc.user.ID, Email: acc.user.Email})
}

func (b *Backend) handleLostPassword(w http.ResponseWriter, r *http.Request) {
	var req models.LostPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.findByEmail(req.Email)
	if acc == nil {
		writeError(w, http.StatusNotFound, "unknown email")
		return
	}

	key := strings.ToLower(req.Email)
	b.lostCalls[key]++
	if b.lostCalls[key] > lostPasswordLimit {
		writeError(w, http.StatusTooManyRequests, "too many reset requests")
		return
	}

	b.resetTokens[uuid.NewString()] = *acc.user.ID
	writeText(w, "reset link sent")
}

func (b *Backend) handleIsValidLostPassword(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	b.mu.Lock()
	_, ok := b.resetTokens[token]
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown reset token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (b *Backend) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.resetTokens[req.Token]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown reset token")
		return
	}
	delete(b.resetTokens, req.Token)
	b.users[id].password = req.Password

	writeText(w, "password reset")
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
