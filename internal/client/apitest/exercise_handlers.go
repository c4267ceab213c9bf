package apitest

import (
	"net/http"
	"slices"

	"github.com/calistrack/calistrack/internal/client/models"
)

func (b *Backend) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var e models.Exercise
	if !decode(w, r, &e) {
		return
	}
	if e.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.newID()
	e.ID = &id
	if e.User == nil {
		e.User = &models.UserRef{ID: principalFrom(r).userID}
	}
	b.exercises[id] = e
	writeJSON(w, http.StatusCreated, e)
}

func (b *Backend) handleListExercises(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.Exercise, 0, len(b.exercises))
	for _, e := range b.exercises {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, c models.Exercise) int { return compareIDs(a.ID, c.ID) })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleListUserExercises(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.exercisesOf(id))
}

func (b *Backend) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.exercises[id]
	if !ok {
		writeError(w, http.StatusNotFound, "exercise not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (b *Backend) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var e models.Exercise
	if !decode(w, r, &e) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.exercises[id]
	if !ok || cur.User.ID != principalFrom(r).userID {
		writeError(w, http.StatusNotFound, "exercise not found")
		return
	}

	e.ID = &id
	e.User = cur.User
	b.exercises[id] = e
	writeJSON(w, http.StatusOK, e)
}

func (b *Backend) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.exercises[id]
	if !ok || cur.User.ID != principalFrom(r).userID {
		writeError(w, http.StatusNotFound, "exercise not found")
		return
	}

	for _, t := range b.trainings {
		for _, ref := range t.Exercises {
			if ref.ID == id {
				writeError(w, http.StatusConflict, "exercise is used by a training")
				return
			}
		}
	}

	delete(b.exercises, id)
	writeText(w, "exercise deleted")
}
