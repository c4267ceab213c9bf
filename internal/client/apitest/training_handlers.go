package apitest

import (
	"net/http"
	"slices"

	"github.com/calistrack/calistrack/internal/client/models"
)

func (b *Backend) handleCreateTraining(w http.ResponseWriter, r *http.Request) {
	var t models.Training
	if !decode(w, r, &t) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.knownExercises(t.Exercises) {
		writeError(w, http.StatusBadRequest, "unknown exercise")
		return
	}

	id := b.newID()
	t.ID = &id
	if t.TrainingUser == nil {
		t.TrainingUser = &models.UserRef{ID: principalFrom(r).userID}
	}
	b.trainings[id] = t
	writeJSON(w, http.StatusCreated, t)
}

func (b *Backend) handleListTrainings(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.Training, 0, len(b.trainings))
	for _, t := range b.trainings {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, c models.Training) int { return compareIDs(a.ID, c.ID) })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleListUserTrainings(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.trainingsOf(id))
}

func (b *Backend) handleGetTraining(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.trainings[id]
	if !ok {
		writeError(w, http.StatusNotFound, "training not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) handleUpdateTraining(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var t models.Training
	if !decode(w, r, &t) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.trainings[id]
	if !ok || cur.TrainingUser.ID != principalFrom(r).userID {
		writeError(w, http.StatusNotFound, "training not found")
		return
	}
	if !b.knownExercises(t.Exercises) {
		writeError(w, http.StatusBadRequest, "unknown exercise")
		return
	}

	t.ID = &id
	t.TrainingUser = cur.TrainingUser
	b.trainings[id] = t
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) handleDeleteTraining(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.trainings[id]
	if !ok || cur.TrainingUser.ID != principalFrom(r).userID {
		writeError(w, http.StatusNotFound, "training not found")
		return
	}

	delete(b.trainings, id)
	writeText(w, "training deleted")
}

func (b *Backend) knownExercises(refs []models.ExerciseRef) bool {
	for _, ref := range refs {
		if _, ok := b.exercises[ref.ID]; !ok {
			return false
		}
	}
	return true
}
