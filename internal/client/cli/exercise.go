package cli

import (
	"context"
	"strconv"

	"github.com/calistrack/calistrack/internal/client/models"
	"github.com/calistrack/calistrack/internal/client/validation"
)

var exerciseMessages = messages{
	NotFound: "exercise not found",
	Conflict: "exercise is used by a training and cannot be deleted",
}

// Exercises lists the exercises of the signed-in user.
func (a *App) Exercises(ctx context.Context) error {
	list, err := a.myExercises(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		a.println("No exercise yet, use addexercise to create one.")
		return nil
	}
	for _, e := range list {
		a.println(e.String())
	}
	return nil
}

func (a *App) myExercises(ctx context.Context) ([]models.Exercise, error) {
	user, err := a.currentUser()
	if err != nil {
		return nil, err
	}

	list, err := a.exerciseService.FindAllByUser(ctx, user.ID)
	if err != nil {
		return nil, a.fail("Exercises", err, messages{})
	}
	return list, nil
}

func (a *App) AddExercise(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	e, err := a.promptExercise(models.Exercise{})
	if err != nil {
		return err
	}
	e.User = user.Ref()

	created, err := a.exerciseService.Create(ctx, e)
	if err != nil {
		return a.fail("Cannot create exercise", err, exerciseMessages)
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Exercise created", Message: created.Name})
	return a.Exercises(ctx)
}

func (a *App) EditExercise(ctx context.Context, id int64) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}

	current, err := a.exerciseService.FindByID(ctx, id)
	if err != nil {
		return a.fail("Cannot edit exercise", err, exerciseMessages)
	}

	e, err := a.promptExercise(current)
	if err != nil {
		return err
	}
	e.ID = current.ID
	e.User = current.User

	if _, err := a.exerciseService.Update(ctx, id, e); err != nil {
		return a.fail("Cannot update exercise", err, exerciseMessages)
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Exercise updated", Message: e.Name})
	return a.Exercises(ctx)
}

func (a *App) DeleteExercise(ctx context.Context, id int64) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}

	ok, err := Confirm(a.reader, "Delete exercise #"+strconv.FormatInt(id, 10)+"?", a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.exerciseService.Delete(ctx, id); err != nil {
		return a.fail("Cannot delete exercise", err, exerciseMessages)
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Exercise deleted"})
	return a.Exercises(ctx)
}

// promptExercise collects the exercise fields, offering current values as
// defaults.
func (a *App) promptExercise(current models.Exercise) (models.Exercise, error) {
	var f validation.ExerciseForm
	var err error

	if f.Name, err = GetWithDefault(a.reader, "Name", current.Name, a.out); err != nil {
		return models.Exercise{}, err
	}
	if f.Sets, err = GetWithDefault(a.reader, "Sets", intDefault(current.Sets), a.out); err != nil {
		return models.Exercise{}, err
	}
	if f.Reps, err = GetWithDefault(a.reader, "Reps", intDefault(current.Reps), a.out); err != nil {
		return models.Exercise{}, err
	}
	if f.Rest, err = GetWithDefault(a.reader, "Rest between sets (minutes)", intDefault(current.RestTimeInMinutes), a.out); err != nil {
		return models.Exercise{}, err
	}

	e, err := validation.ValidateExercise(f)
	if err != nil {
		return models.Exercise{}, a.fail("Exercise", err, messages{})
	}
	return e, nil
}

func intDefault(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
