package models

import "fmt"

// Exercise is owned by a user and referenced, not owned, by trainings.
type Exercise struct {
	ID                *int64   `json:"id"`
	Name              string   `json:"name"`
	Sets              *int     `json:"set"`
	Reps              *int     `json:"rep"`
	RestTimeInMinutes *int     `json:"restTimeInMinutes"`
	User              *UserRef `json:"user,omitempty"`
}

// SetCount returns the number of sets, 0 when unset.
func (e Exercise) SetCount() int {
	return deref(e.Sets)
}

func (e Exercise) RepCount() int {
	return deref(e.Reps)
}

// RestMinutes returns the rest between sets, 0 when unset.
func (e Exercise) RestMinutes() int {
	return deref(e.RestTimeInMinutes)
}

func (e Exercise) String() string {
	id := "-"
	if e.ID != nil {
		id = fmt.Sprint(*e.ID)
	}
	return fmt.Sprintf("#%s %s: %d sets x %d reps, %d min rest", id, e.Name, e.SetCount(), e.RepCount(), e.RestMinutes())
}

// ExerciseRef points at an exercise inside a training.
type ExerciseRef struct {
	ID int64 `json:"id"`
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
