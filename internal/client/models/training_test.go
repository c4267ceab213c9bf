package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAggregates(t *testing.T) {
	tests := []struct {
		name      string
		exercises []Exercise
		manual    int
		want      Aggregates
	}{
		{
			name: "rest between sets",
			exercises: []Exercise{
				{Sets: Ptr(3), RestTimeInMinutes: Ptr(2)},
				{Sets: Ptr(4), RestTimeInMinutes: Ptr(1)},
			},
			want: Aggregates{NumberOfExercise: 2, TotalMinutesOfRest: 7, TotalMinutesOfTraining: 14},
		},
		{
			name: "manual duration wins",
			exercises: []Exercise{
				{Sets: Ptr(3), RestTimeInMinutes: Ptr(2)},
			},
			manual: 45,
			want:   Aggregates{NumberOfExercise: 1, TotalMinutesOfRest: 4, TotalMinutesOfTraining: 45},
		},
		{
			name: "nil fields count as zero",
			exercises: []Exercise{
				{Sets: nil, RestTimeInMinutes: Ptr(5)},
				{Sets: Ptr(2), RestTimeInMinutes: nil},
			},
			want: Aggregates{NumberOfExercise: 2, TotalMinutesOfRest: 0, TotalMinutesOfTraining: 2},
		},
		{
			name: "zero sets never subtract rest",
			exercises: []Exercise{
				{Sets: Ptr(0), RestTimeInMinutes: Ptr(3)},
			},
			want: Aggregates{NumberOfExercise: 1, TotalMinutesOfRest: 0, TotalMinutesOfTraining: 0},
		},
		{
			name: "empty selection",
			want: Aggregates{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAggregates(tt.exercises, tt.manual)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeAggregates() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, got, ComputeAggregates(tt.exercises, tt.manual))
		})
	}
}

func TestAggregates_Apply(t *testing.T) {
	exercises := []Exercise{
		{ID: Ptr[int64](4), Sets: Ptr(3), RestTimeInMinutes: Ptr(2)},
		{ID: Ptr[int64](9), Sets: Ptr(4), RestTimeInMinutes: Ptr(1)},
	}
	var tr Training
	ComputeAggregates(exercises, 0).Apply(&tr, exercises)

	require.NotNil(t, tr.NumberOfExercise)
	assert.Equal(t, 2, *tr.NumberOfExercise)
	assert.Equal(t, 7, *tr.TotalMinutesOfRest)
	assert.Equal(t, 14, *tr.TotalMinutesOfTraining)
	assert.Equal(t, []ExerciseRef{{ID: 4}, {ID: 9}}, tr.Exercises)
}

func TestTraining_JSON(t *testing.T) {
	tr := Training{
		ID:           Ptr[int64](1),
		Name:         "push day",
		Date:         NewDate(2024, time.March, 5),
		TrainingUser: &UserRef{ID: 2},
		Exercises:    []ExerciseRef{{ID: 3}},
	}

	b, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"date":"2024-03-05"`)
	assert.Contains(t, string(b), `"trainingUser":{"id":2}`)

	var back Training
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "2024-03-05", back.Date.String())
}

func TestDate_UnmarshalTimestamp(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05T10:00:00Z"`), &d))
	assert.Equal(t, "2024-03-05", d.String())

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}

func TestExercise_WireNames(t *testing.T) {
	var e Exercise
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"name":"pull-ups","set":3,"rep":8,"restTimeInMinutes":2,"user":{"id":1}}`), &e))

	assert.Equal(t, int64(5), *e.ID)
	assert.Equal(t, 3, e.SetCount())
	assert.Equal(t, 8, e.RepCount())
	assert.Equal(t, 2, e.RestMinutes())
	assert.Equal(t, "#5 pull-ups: 3 sets x 8 reps, 2 min rest", e.String())
}
