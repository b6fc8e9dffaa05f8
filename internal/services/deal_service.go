package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"crmdash/internal/models"
	"crmdash/internal/repositories"
)

type DealService struct {
	Repo   DealRepository
	events EventPublisher
	moves  stageMoves
	log    *zap.Logger
}

func NewDealService(repo DealRepository, events EventPublisher, notifier Notifier, log *zap.Logger) *DealService {
	moves := newStageMoves(events, notifier, log)
	return &DealService{Repo: repo, events: moves.events, moves: moves, log: moves.log}
}

func (s *DealService) List(ctx context.Context, opts ListOptions) ([]models.Deal, int, error) {
	all, _, err := s.Repo.List(ctx, repositories.ListParams{})
	if err != nil {
		return nil, 0, err
	}
	matched := FilterDeals(all, models.DealFilter{Query: opts.Search})
	return page(matched, opts.Limit, opts.Offset), len(matched), nil
}

func (s *DealService) GetByID(ctx context.Context, id string) (*models.Deal, error) {
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *DealService) Create(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	if d.Stage == "" {
		d.Stage = models.StageLead
	}
	if err := validateDeal(d); err != nil {
		return nil, err
	}
	created, err := s.Repo.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	s.log.Info("[deal][create][ok]", zap.String("id", created.ID), zap.String("stage", string(created.Stage)))
	s.events.Publish(models.PipelineEvent{Type: models.EventDealCreated, DealID: created.ID, Deal: created, To: created.Stage, At: created.CreatedAt})
	return created, nil
}

// Update is a full-record replace; last write wins.
func (s *DealService) Update(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	if d.Stage == "" {
		d.Stage = models.StageLead
	}
	if err := validateDeal(d); err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.CreatedAt = existing.CreatedAt
	updated, err := s.Repo.Update(ctx, d)
	if err != nil {
		return nil, err
	}
	// смена этапа через редактирование = перенос
	if existing.Stage != updated.Stage {
		s.moves.moved(ctx, existing.Stage, updated)
		return updated, nil
	}
	s.events.Publish(models.PipelineEvent{Type: models.EventDealUpdated, DealID: updated.ID, Deal: updated, To: updated.Stage, At: updated.UpdatedAt})
	return updated, nil
}

func (s *DealService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("[deal][delete][ok]", zap.String("id", id))
	s.events.Publish(models.PipelineEvent{Type: models.EventDealDeleted, DealID: id, At: time.Now()})
	return nil
}

func validateDeal(d *models.Deal) error {
	d.Title = strings.TrimSpace(d.Title)
	switch {
	case d.Title == "":
		return validationError("title is required")
	case d.Value < 0:
		return validationError("value must not be negative")
	case d.Probability < 0 || d.Probability > 100:
		return validationError("probability must be between 0 and 100")
	case !d.Stage.Valid():
		return ErrInvalidStage
	}
	return nil
}
