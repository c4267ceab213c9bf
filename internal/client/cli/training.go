package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/calistrack/calistrack/internal/client/models"
	"github.com/calistrack/calistrack/internal/client/validation"
)

var ErrNoExercise = errors.New("no exercise available")

var trainingMessages = messages{
	NotFound: "training not found",
}

func (a *App) Trainings(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	list, err := a.trainingService.FindAllByUser(ctx, user.ID)
	if err != nil {
		return a.fail("Trainings", err, messages{})
	}

	if len(list) == 0 {
		a.println("No training yet, use addtraining to compose one.")
		return nil
	}
	for _, t := range list {
		a.println(t.String())
	}
	return nil
}

// ShowTraining prints a training with the exercises it references.
func (a *App) ShowTraining(ctx context.Context, id int64) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}

	t, err := a.trainingService.FindByID(ctx, id)
	if err != nil {
		return a.fail("Training", err, trainingMessages)
	}
	exercises, err := a.myExercises(ctx)
	if err != nil {
		return err
	}

	byID := indexByID(exercises)

	a.println(t.String())
	for _, ref := range t.Exercises {
		if e, ok := byID[ref.ID]; ok {
			a.println("  " + e.String())
		} else {
			a.println(fmt.Sprintf("  #%d (unavailable)", ref.ID))
		}
	}
	return nil
}

func (a *App) AddTraining(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	draft, err := a.promptTraining(ctx, models.Training{Date: models.Today()})
	if err != nil {
		return err
	}
	draft.TrainingUser = user.Ref()

	created, err := a.trainingService.Create(ctx, draft)
	if err != nil {
		return a.fail("Cannot create training", err, trainingMessages)
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Training created", Message: created.String()})
	return a.Trainings(ctx)
}

func (a *App) EditTraining(ctx context.Context, id int64) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}

	current, err := a.trainingService.FindByID(ctx, id)
	if err != nil {
		return a.fail("Cannot edit training", err, trainingMessages)
	}

	t, err := a.promptTraining(ctx, current)
	if err != nil {
		return err
	}
	t.ID = current.ID
	t.TrainingUser = current.TrainingUser

	updated, err := a.trainingService.Update(ctx, id, t)
	if err != nil {
		return a.fail("Cannot update training", err, trainingMessages)
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Training updated", Message: updated.String()})
	return a.Trainings(ctx)
}

func (a *App) DeleteTraining(ctx context.Context, id int64) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}

	ok, err := Confirm(a.reader, "Delete training #"+strconv.FormatInt(id, 10)+"?", a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.trainingService.Delete(ctx, id); err != nil {
		return a.fail("Cannot delete training", err, trainingMessages)
	}

	a.notify(Notice{Kind: NoticeSuccess, Title: "Training deleted"})
	return a.Trainings(ctx)
}

// promptTraining collects name, date, exercise selection and an optional
// duration, then composes the aggregates.
func (a *App) promptTraining(ctx context.Context, current models.Training) (models.Training, error) {
	available, err := a.myExercises(ctx)
	if err != nil {
		return models.Training{}, err
	}
	if len(available) == 0 {
		a.notify(Notice{Kind: NoticeInfo, Title: "No exercise", Message: "create an exercise before composing a training"})
		return models.Training{}, ErrNoExercise
	}

	a.println("Your exercises:")
	for _, e := range available {
		a.println("  " + e.String())
	}

	var f validation.TrainingForm
	date := ""
	if !current.Date.IsZero() {
		date = current.Date.String()
	}

	if f.Name, err = GetWithDefault(a.reader, "Name", current.Name, a.out); err != nil {
		return models.Training{}, err
	}
	if f.Date, err = GetWithDefault(a.reader, "Date (YYYY-MM-DD)", date, a.out); err != nil {
		return models.Training{}, err
	}
	rawIDs, err := GetWithDefault(a.reader, "Exercise ids (comma separated)", refsDefault(current.Exercises), a.out)
	if err != nil {
		return models.Training{}, err
	}
	if f.Duration, err = getSimpleText(a.reader, "Duration in minutes (blank to estimate)", a.out); err != nil {
		return models.Training{}, err
	}

	selected, err := selectExercises(available, rawIDs)
	if err != nil {
		return models.Training{}, a.fail("Training", err, messages{})
	}
	f.Exercises = len(selected)

	in, err := validation.ValidateTraining(f)
	if err != nil {
		return models.Training{}, a.fail("Training", err, messages{})
	}

	draft := models.Training{Name: in.Name, Date: in.Date}
	return a.trainingService.Compose(draft, selected, in.ManualDuration), nil
}

// selectExercises resolves raw ids against the user's exercises, keeping
// the typed order.
func selectExercises(available []models.Exercise, raw string) ([]models.Exercise, error) {
	byID := indexByID(available)

	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
	selected := make([]models.Exercise, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(strings.TrimPrefix(f, "#"), 10, 64)
		e, ok := byID[id]
		if err != nil || !ok {
			return nil, &validation.Error{Field: "exercises", Title: "Unknown exercise", Message: fmt.Sprintf("%q is not one of your exercises", f)}
		}
		selected = append(selected, e)
	}
	return selected, nil
}

// indexByID maps exercises by id. Exercises without an id cannot be
// referenced and are left out.
func indexByID(exercises []models.Exercise) map[int64]models.Exercise {
	byID := make(map[int64]models.Exercise, len(exercises))
	for _, e := range exercises {
		if e.ID != nil {
			byID[*e.ID] = e
		}
	}
	return byID
}

func refsDefault(refs []models.ExerciseRef) string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, strconv.FormatInt(r.ID, 10))
	}
	return strings.Join(ids, ",")
}
