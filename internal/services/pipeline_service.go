package services

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"crmdash/internal/models"
	"crmdash/internal/repositories"
)

// PipelineService drives the stage board.
type PipelineService struct {
	Repo  DealRepository
	moves stageMoves
	log   *zap.Logger
}

func NewPipelineService(repo DealRepository, events EventPublisher, notifier Notifier, log *zap.Logger) *PipelineService {
	moves := newStageMoves(events, notifier, log)
	return &PipelineService{Repo: repo, moves: moves, log: moves.log}
}

func (s *PipelineService) Board(ctx context.Context, filter models.DealFilter) ([]models.StageColumn, error) {
	deals, _, err := s.Repo.List(ctx, repositories.ListParams{})
	if err != nil {
		return nil, err
	}
	return BuildBoard(deals, filter), nil
}

func (s *PipelineService) Summary(ctx context.Context) (models.PipelineSummary, error) {
	deals, _, err := s.Repo.List(ctx, repositories.ListParams{})
	if err != nil {
		return models.PipelineSummary{}, err
	}
	return Summarize(deals), nil
}

// Move puts the deal into stage to. moved is false when the deal already
// sits there; nothing is written in that case.
func (s *PipelineService) Move(ctx context.Context, dealID string, to models.Stage) (*models.Deal, bool, error) {
	if !to.Valid() {
		return nil, false, ErrInvalidStage
	}
	deal, err := s.Repo.GetByID(ctx, dealID)
	if err != nil {
		return nil, false, err
	}
	if deal == nil {
		return nil, false, ErrNotFound
	}
	if deal.Stage == to {
		return deal, false, nil
	}

	from := deal.Stage
	next := *deal
	next.Stage = to
	// updatedAt ставит store
	updated, err := s.Repo.Update(ctx, &next)
	if err != nil {
		s.log.Error("[pipeline][move] update failed", zap.String("deal", dealID), zap.Error(err))
		return nil, false, err
	}
	s.moves.moved(ctx, from, updated)
	return updated, true, nil
}

// FilterDeals applies the board filter: exact contact id and a
// case-insensitive title substring.
func FilterDeals(deals []models.Deal, f models.DealFilter) []models.Deal {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" && f.ContactID == "" {
		return deals
	}
	out := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if f.ContactID != "" && d.ContactID != f.ContactID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(d.Title), q) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// BuildBoard groups the visible deals into one column per stage, in board
// order. Deals with an unknown stage are left off the board.
func BuildBoard(deals []models.Deal, f models.DealFilter) []models.StageColumn {
	visible := FilterDeals(deals, f)
	cols := make([]models.StageColumn, len(models.Stages))
	index := make(map[models.Stage]int, len(models.Stages))
	for i, st := range models.Stages {
		cols[i] = models.StageColumn{Stage: st.ID, Name: st.Name, Deals: []models.Deal{}}
		index[st.ID] = i
	}
	for _, d := range visible {
		i, ok := index[d.Stage]
		if !ok {
			continue
		}
		cols[i].Deals = append(cols[i].Deals, d)
		cols[i].Count++
		cols[i].TotalValue += d.Value
	}
	return cols
}

func Summarize(deals []models.Deal) models.PipelineSummary {
	var sum models.PipelineSummary
	if len(deals) == 0 {
		return sum
	}
	probability := 0
	for _, d := range deals {
		sum.TotalValue += d.Value
		sum.WeightedValue += d.Value * float64(d.Probability) / 100
		probability += d.Probability
	}
	sum.DealCount = len(deals)
	sum.AverageProbability = int(math.Round(float64(probability) / float64(len(deals))))
	return sum
}
