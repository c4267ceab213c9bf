package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calistrack/calistrack/internal/client/api"
	"github.com/calistrack/calistrack/internal/client/models"
)

func TestApp_EditExercise(t *testing.T) {
	h := newHarness(t, "Weighted dips", "", "12", "")
	h.login(t)
	e := h.backend.AddExercise(h.userID(), models.Exercise{Name: "Dips", Sets: models.Ptr(3), Reps: models.Ptr(10), RestTimeInMinutes: models.Ptr(1)})

	require.NoError(t, h.app.EditExercise(context.Background(), *e.ID))

	list := h.backend.Exercises(h.userID())
	require.Len(t, list, 1)
	require.Equal(t, "Weighted dips", list[0].Name)
	require.Equal(t, 3, list[0].SetCount())
	require.Equal(t, 12, list[0].RepCount())
	require.Equal(t, 1, list[0].RestMinutes())

	out := h.out.String()
	require.Contains(t, out, "[success] Exercise updated: Weighted dips")
	require.Contains(t, out, "Weighted dips: 3 sets x 12 reps, 1 min rest")
}

func TestApp_EditExerciseNotFound(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	require.ErrorIs(t, h.app.EditExercise(context.Background(), 999), api.ErrNotFound)
	require.Contains(t, h.out.String(), "[error] Cannot edit exercise: exercise not found")
}

func TestApp_DeleteExercise(t *testing.T) {
	h := newHarness(t, "y")
	h.login(t)
	e := h.backend.AddExercise(h.userID(), models.Exercise{Name: "Dips", Sets: models.Ptr(3), Reps: models.Ptr(10)})

	require.NoError(t, h.app.DeleteExercise(context.Background(), *e.ID))
	require.Empty(t, h.backend.Exercises(h.userID()))
	require.Contains(t, h.out.String(), "No exercise yet")
}
