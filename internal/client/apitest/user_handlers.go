package apitest

import (
	"net/http"
	"slices"
	"time"

	"github.com/calistrack/calistrack/internal/client/models"
)

const minServerPasswordLength = 10

func (b *Backend) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	b.handleRegister(w, r)
}

func (b *Backend) handleListUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.User, 0, len(b.users))
	for _, acc := range b.users {
		out = append(out, acc.user)
	}
	slices.SortFunc(out, func(a, c models.User) int { return compareIDs(a.ID, c.ID) })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (b *Backend) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var u models.User
	if !decode(w, r, &u) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.users[id]
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if other := b.findByEmail(u.Email); other != nil && *other.user.ID != id {
		writeError(w, http.StatusConflict, "email already used")
		return
	}

	if u.Password != "" {
		acc.password = u.Password
	}
	u.ID = &id
	u.Password = ""
	acc.user = u
	writeJSON(w, http.StatusOK, u)
}

func (b *Backend) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.users[id]; !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if principalFrom(r).userID != id {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	delete(b.users, id)
	for eid, e := range b.exercises {
		if e.User != nil && e.User.ID == id {
			delete(b.exercises, eid)
		}
	}
	for tid, t := range b.trainings {
		if t.TrainingUser != nil && t.TrainingUser.ID == id {
			delete(b.trainings, tid)
		}
	}

	writeText(w, "user deleted")
}

func (b *Backend) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	p := principalFrom(r)

	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.users[p.userID]
	if other := b.findByEmail(req.Email); other != nil && other != acc {
		writeError(w, http.StatusConflict, "email already used")
		return
	}

	emailChanged := req.Email != acc.user.Email
	acc.user.FirstName = req.FirstName
	acc.user.LastName = req.LastName
	acc.user.Phone = req.Phone
	acc.user.Email = req.Email
	if req.Password != "" {
		acc.password = req.Password
	}

	res := models.ProfileUpdateResult{Success: true}
	if emailChanged {
		token, err := generateToken(p.userID, req.Email, b.secret, defaultValidity, time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		b.revoked[p.token] = true
		res.AccessToken = token
	}
	writeJSON(w, http.StatusOK, res)
}

func (b *Backend) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordUpdateRequest
	if !decode(w, r, &req) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.users[principalFrom(r).userID]
	switch {
	case req.Password == acc.password:
		writeJSON(w, http.StatusBadRequest, models.PasswordUpdateResponse{
			Status:  models.PasswordUpdateAlreadyUsed,
			Message: "password already used",
		})
	case len(req.Password) < minServerPasswordLength:
		writeJSON(w, http.StatusBadRequest, models.PasswordUpdateResponse{
			Status:  models.PasswordUpdateIncorrect,
			Message: "password too weak",
		})
	default:
		acc.password = req.Password
		writeJSON(w, http.StatusOK, models.PasswordUpdateResponse{Status: models.PasswordUpdateDone})
	}
}
