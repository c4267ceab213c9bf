package services

import (
	"context"
	"fmt"

	"github.com/calistrack/calistrack/internal/client/models"
)

const exercisePath = "/exercise"

type ExerciseService interface {
	Create(ctx context.Context, e models.Exercise) (models.Exercise, error)
	FindAll(ctx context.Context) ([]models.Exercise, error)
	FindAllByUser(ctx context.Context, userID int64) ([]models.Exercise, error)
	FindByID(ctx context.Context, id int64) (models.Exercise, error)
	Update(ctx context.Context, id int64, e models.Exercise) (models.Exercise, error)
	Delete(ctx context.Context, id int64) error
}

type exerciseService struct {
	transport Transport
}

func NewExerciseService(t Transport) ExerciseService {
	return &exerciseService{transport: t}
}

func (s *exerciseService) Create(ctx context.Context, e models.Exercise) (models.Exercise, error) {
	var created models.Exercise
	if err := s.transport.Post(ctx, exercisePath+"/", e, &created); err != nil {
		return models.Exercise{}, fmt.Errorf("exercise create: %w", err)
	}
	return created, nil
}

func (s *exerciseService) FindAll(ctx context.Context) ([]models.Exercise, error) {
	var list []models.Exercise
	if err := s.transport.Get(ctx, exercisePath+"/", &list); err != nil {
		return nil, fmt.Errorf("exercise list: %w", err)
	}
	return list, nil
}

func (s *exerciseService) FindAllByUser(ctx context.Context, userID int64) ([]models.Exercise, error) {
	var list []models.Exercise
	if err := s.transport.Get(ctx, idPath(exercisePath+"/user", userID), &list); err != nil {
		return nil, fmt.Errorf("exercise list for user %d: %w", userID, err)
	}
	return list, nil
}

func (s *exerciseService) FindByID(ctx context.Context, id int64) (models.Exercise, error) {
	var e models.Exercise
	if err := s.transport.Get(ctx, idPath(exercisePath, id), &e); err != nil {
		return models.Exercise{}, fmt.Errorf("exercise %d: %w", id, err)
	}
	return e, nil
}

func (s *exerciseService) Update(ctx context.Context, id int64, e models.Exercise) (models.Exercise, error) {
	var updated models.Exercise
	if err := s.transport.Put(ctx, idPath(exercisePath, id), e, &updated); err != nil {
		return models.Exercise{}, fmt.Errorf("exercise update %d: %w", id, err)
	}
	return updated, nil
}

func (s *exerciseService) Delete(ctx context.Context, id int64) error {
	if err := s.transport.Delete(ctx, idPath(exercisePath, id), nil, nil); err != nil {
		return fmt.Errorf("exercise delete %d: %w", id, err)
	}
	return nil
}
