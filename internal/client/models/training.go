package models

import "fmt"

// Training is a named, dated selection of exercises with derived statistics.
type Training struct {
	ID                     *int64        `json:"id"`
	Name                   string        `json:"name"`
	Date                   Date          `json:"date"`
	NumberOfExercise       *int          `json:"numberOfExercise"`
	TotalMinutesOfRest     *int          `json:"totalMinutesOfRest"`
	TotalMinutesOfTraining *int          `json:"totalMinutesOfTraining"`
	TrainingUser           *UserRef      `json:"trainingUser,omitempty"`
	Exercises              []ExerciseRef `json:"exercises"`
}

func (t Training) String() string {
	id := "-"
	if t.ID != nil {
		id = fmt.Sprint(*t.ID)
	}
	return fmt.Sprintf("#%s %s (%s): %d exercises, %d min rest, %d min total",
		id, t.Name, t.Date, deref(t.NumberOfExercise), deref(t.TotalMinutesOfRest), deref(t.TotalMinutesOfTraining))
}

// Aggregates are the statistics derived from a training's exercise selection.
type Aggregates struct {
	NumberOfExercise       int
	TotalMinutesOfRest     int
	TotalMinutesOfTraining int
}

// ComputeAggregates derives training statistics from exercises.
//
// Rest is Σ rest × (sets − 1): there is no rest after the last set. The
// total is manualDuration when it is positive, otherwise Σ sets + rest, which
// counts one minute per set.
func ComputeAggregates(exercises []Exercise, manualDuration int) Aggregates {
	var sets, rest int
	for _, e := range exercises {
		n := e.SetCount()
		sets += n
		if n > 1 {
			rest += e.RestMinutes() * (n - 1)
		}
	}

	total := sets + rest
	if manualDuration > 0 {
		total = manualDuration
	}

	return Aggregates{
		NumberOfExercise:       len(exercises),
		TotalMinutesOfRest:     rest,
		TotalMinutesOfTraining: total,
	}
}

// Apply copies the aggregates and exercise references onto t.
func (a Aggregates) Apply(t *Training, exercises []Exercise) {
	t.NumberOfExercise = Ptr(a.NumberOfExercise)
	t.TotalMinutesOfRest = Ptr(a.TotalMinutesOfRest)
	t.TotalMinutesOfTraining = Ptr(a.TotalMinutesOfTraining)

	t.Exercises = make([]ExerciseRef, 0, len(exercises))
	for _, e := range exercises {
		if e.ID != nil {
			t.Exercises = append(t.Exercises, ExerciseRef{ID: *e.ID})
		}
	}
}
