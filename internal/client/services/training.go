package services

import (
	"context"
	"fmt"

	"github.com/calistrack/calistrack/internal/client/models"
)

const trainingPath = "/training"

type TrainingService interface {
	Create(ctx context.Context, t models.Training) (models.Training, error)
	FindAll(ctx context.Context) ([]models.Training, error)
	FindAllByUser(ctx context.Context, userID int64) ([]models.Training, error)
	FindByID(ctx context.Context, id int64) (models.Training, error)
	Update(ctx context.Context, id int64, t models.Training) (models.Training, error)
	Delete(ctx context.Context, id int64) error
	// Compose fills the aggregates and exercise references of draft from
	// the selected exercises. manualDuration overrides the estimated total
	// when positive.
	Compose(draft models.Training, exercises []models.Exercise, manualDuration int) models.Training
}

type trainingService struct {
	transport Transport
}

func NewTrainingService(t Transport) TrainingService {
	return &trainingService{transport: t}
}

func (s *trainingService) Compose(draft models.Training, exercises []models.Exercise, manualDuration int) models.Training {
	models.ComputeAggregates(exercises, manualDuration).Apply(&draft, exercises)
	return draft
}

func (s *trainingService) Create(ctx context.Context, t models.Training) (models.Training, error) {
	var created models.Training
	if err := s.transport.Post(ctx, trainingPath+"/", t, &created); err != nil {
		return models.Training{}, fmt.Errorf("training create: %w", err)
	}
	return created, nil
}

func (s *trainingService) FindAll(ctx context.Context) ([]models.Training, error) {
	var list []models.Training
	if err := s.transport.Get(ctx, trainingPath+"/", &list); err != nil {
		return nil, fmt.Errorf("training list: %w", err)
	}
	return list, nil
}

func (s *trainingService) FindAllByUser(ctx context.Context, userID int64) ([]models.Training, error) {
	var list []models.Training
	if err := s.transport.Get(ctx, idPath(trainingPath+"/user", userID), &list); err != nil {
		return nil, fmt.Errorf("training list for user %d: %w", userID, err)
	}
	return list, nil
}

func (s *trainingService) FindByID(ctx context.Context, id int64) (models.Training, error) {
	var t models.Training
	if err := s.transport.Get(ctx, idPath(trainingPath, id), &t); err != nil {
		return models.Training{}, fmt.Errorf("training %d: %w", id, err)
	}
	return t, nil
}

func (s *trainingService) Update(ctx context.Context, id int64, t models.Training) (models.Training, error) {
	var updated models.Training
	if err := s.transport.Put(ctx, idPath(trainingPath, id), t, &updated); err != nil {
		return models.Training{}, fmt.Errorf("training update %d: %w", id, err)
	}
	return updated, nil
}

func (s *trainingService) Delete(ctx context.Context, id int64) error {
	if err := s.transport.Delete(ctx, idPath(trainingPath, id), nil, nil); err != nil {
		return fmt.Errorf("training delete %d: %w", id, err)
	}
	return nil
}
