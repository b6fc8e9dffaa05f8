package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdash/internal/metrics"
	"crmdash/internal/models"
)

func TestDealService_CreateDefaultsAndValidation(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewDealService(newFixture().deals, pub, nil, nil)
	ctx := context.Background()

	d, err := s.Create(ctx, &models.Deal{Title: "Website Redesign", Value: 25000, Probability: 20})
	require.NoError(t, err)
	assert.Equal(t, models.StageLead, d.Stage)

	bad := []*models.Deal{
		{Title: "", Value: 1},
		{Title: "x", Value: -1},
		{Title: "x", Probability: 101},
		{Title: "x", Probability: -5},
	}
	for _, b := range bad {
		_, err := s.Create(ctx, b)
		assert.ErrorIs(t, err, ErrValidation, "%+v", b)
	}
	_, err = s.Create(ctx, &models.Deal{Title: "x", Stage: "won"})
	assert.ErrorIs(t, err, ErrInvalidStage)

	evs := pub.all()
	require.Len(t, evs, 1)
	assert.Equal(t, models.EventDealCreated, evs[0].Type)
	assert.Equal(t, d.ID, evs[0].DealID)
}

func TestDealService_UpdateStageChangeIsMove(t *testing.T) {
	f := newFixture()
	d := f.deal(t, "ERP", 120000, models.StageProposal, 50, "")
	pub := &recordingPublisher{}
	s := NewDealService(f.deals, pub, nil, nil)

	d.Stage = models.StageNegotiation
	_, err := s.Update(context.Background(), d)
	require.NoError(t, err)

	d.Value = 130000
	_, err = s.Update(context.Background(), d)
	require.NoError(t, err)

	evs := pub.all()
	require.Len(t, evs, 2)
	assert.Equal(t, models.EventDealMoved, evs[0].Type)
	assert.Equal(t, models.StageProposal, evs[0].From)
	assert.Equal(t, models.EventDealUpdated, evs[1].Type)
}

func TestDealService_UpdateToWonCountsAndNotifies(t *testing.T) {
	f := newFixture()
	d := f.deal(t, "TechFlow - Premium Solution", 120000, models.StageNegotiation, 90, "")
	pub := &recordingPublisher{}
	notifier := &recordingNotifier{}
	s := NewDealService(f.deals, pub, notifier, nil)

	before := testutil.ToFloat64(metrics.StageMoves.WithLabelValues("negotiation", "closed-won"))
	d.Stage = models.StageClosedWon
	updated, err := s.Update(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StageMoves.WithLabelValues("negotiation", "closed-won")))
	require.Len(t, notifier.won, 1)
	assert.Equal(t, updated.ID, notifier.won[0].ID)

	evs := pub.all()
	require.Len(t, evs, 1)
	assert.Equal(t, models.EventDealMoved, evs[0].Type)
	assert.Equal(t, models.StageNegotiation, evs[0].From)
	assert.Equal(t, models.StageClosedWon, evs[0].To)
	assert.Equal(t, updated.UpdatedAt, evs[0].At)

	// повторное сохранение без смены этапа: без уведомления
	updated.Value = 125000
	_, err = s.Update(context.Background(), updated)
	require.NoError(t, err)
	assert.Len(t, notifier.won, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.StageMoves.WithLabelValues("negotiation", "closed-won")))
}

func TestDealService_DeleteMissing(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewDealService(newFixture().deals, pub, nil, nil)
	assert.ErrorIs(t, s.Delete(context.Background(), "42"), ErrNotFound)
	assert.Empty(t, pub.all())
}
