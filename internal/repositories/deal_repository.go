package repositories

import (
	"context"
	"time"

	"go.uber.org/zap"

	"crmdash/internal/models"
	"crmdash/internal/recordstore"
)

const DealTable = "deal"

var dealFields = []string{"title", "value", "stage", "probability", "expected_close_date", "contact"}

type DealRepository struct {
	t table
}

func NewDealRepository(store recordstore.Client, log *zap.Logger) *DealRepository {
	return &DealRepository{t: newTable(DealTable, "[deal]", dealFields, store, log)}
}

func (r *DealRepository) List(ctx context.Context, p ListParams) ([]models.Deal, int, error) {
	recs, total, err := r.t.list(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.Deal, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dealFromRecord(rec))
	}
	return out, total, nil
}

// GetByID returns nil, nil when the deal does not exist.
func (r *DealRepository) GetByID(ctx context.Context, id string) (*models.Deal, error) {
	rec, err := r.t.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	d := dealFromRecord(rec)
	return &d, nil
}

func (r *DealRepository) Create(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	rec, err := r.t.create(ctx, dealToRecord(d))
	if err != nil {
		return nil, err
	}
	out := dealFromRecord(rec)
	return &out, nil
}

// Update replaces every mapped field of the stored deal.
func (r *DealRepository) Update(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	rec := dealToRecord(d)
	rec[recordstore.FieldID] = d.ID
	updated, err := r.t.update(ctx, rec)
	if err != nil {
		return nil, err
	}
	out := dealFromRecord(updated)
	return &out, nil
}

func (r *DealRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

func dealFromRecord(rec recordstore.Record) models.Deal {
	d := models.Deal{
		ID:          rec.ID(),
		Title:       rec.String("title"),
		Value:       rec.Float("value"),
		Stage:       models.Stage(rec.String("stage")),
		Probability: rec.Int("probability"),
		ContactID:   rec.String("contact"),
	}
	if d.Stage == "" {
		d.Stage = models.StageLead
	}
	d.ExpectedCloseDate = timeOrNow(rec, "expected_close_date")
	d.CreatedAt = timeOrNow(rec, recordstore.FieldCreatedOn)
	d.UpdatedAt = timeOrNow(rec, recordstore.FieldModifiedOn)
	return d
}

func dealToRecord(d *models.Deal) recordstore.Record {
	stage := d.Stage
	if stage == "" {
		stage = models.StageLead
	}
	closeDate := d.ExpectedCloseDate
	if closeDate.IsZero() {
		closeDate = time.Now()
	}
	return recordstore.Record{
		recordstore.FieldName: d.Title,
		"title":               d.Title,
		"value":               d.Value,
		"stage":               string(stage),
		"probability":         d.Probability,
		"expected_close_date": closeDate.Format("2006-01-02"),
		"contact":             nullable(d.ContactID),
	}
}
