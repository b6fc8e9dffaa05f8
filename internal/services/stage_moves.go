package services

import (
	"context"

	"go.uber.org/zap"

	"crmdash/internal/metrics"
	"crmdash/internal/models"
)

// stageMoves runs the side effects of a stored stage change. Both the board
// move and a full deal edit go through it.
type stageMoves struct {
	events   EventPublisher
	notifier Notifier
	log      *zap.Logger
}

func newStageMoves(events EventPublisher, notifier Notifier, log *zap.Logger) stageMoves {
	if events == nil {
		events = nopPublisher{}
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return stageMoves{events: events, notifier: notifier, log: log}
}

// moved is called after d was written with a stage different from from.
func (m stageMoves) moved(ctx context.Context, from models.Stage, d *models.Deal) {
	m.log.Info("[pipeline][move][ok]",
		zap.String("deal", d.ID),
		zap.String("from", string(from)),
		zap.String("to", string(d.Stage)),
	)
	metrics.StageMoves.WithLabelValues(string(from), string(d.Stage)).Inc()
	m.events.Publish(models.PipelineEvent{
		Type:   models.EventDealMoved,
		DealID: d.ID,
		Deal:   d,
		From:   from,
		To:     d.Stage,
		At:     d.UpdatedAt,
	})
	if d.Stage == models.StageClosedWon {
		// уведомление не валит перенос
		if err := m.notifier.DealWon(ctx, d); err != nil {
			m.log.Warn("[pipeline][move] notify failed", zap.String("deal", d.ID), zap.Error(err))
		}
	}
}
