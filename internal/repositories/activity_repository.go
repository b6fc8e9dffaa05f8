package repositories

import (
	"context"
	"time"

	"go.uber.org/zap"

	"crmdash/internal/models"
	"crmdash/internal/recordstore"
)

// ActivityTable is the backend name of the activities table.
const ActivityTable = "Activity1"

var activityFields = []string{"type", "title", "description", "due_date", "completed", "contact", "deal"}

type ActivityRepository struct {
	t table
}

func NewActivityRepository(store recordstore.Client, log *zap.Logger) *ActivityRepository {
	return &ActivityRepository{t: newTable(ActivityTable, "[activity]", activityFields, store, log)}
}

func (r *ActivityRepository) List(ctx context.Context, p ListParams) ([]models.Activity, int, error) {
	recs, total, err := r.t.list(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.Activity, 0, len(recs))
	for _, rec := range recs {
		out = append(out, activityFromRecord(rec))
	}
	return out, total, nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	rec, err := r.t.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	a := activityFromRecord(rec)
	return &a, nil
}

func (r *ActivityRepository) Create(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	rec, err := r.t.create(ctx, activityToRecord(a))
	if err != nil {
		return nil, err
	}
	out := activityFromRecord(rec)
	return &out, nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	rec := activityToRecord(a)
	rec[recordstore.FieldID] = a.ID
	updated, err := r.t.update(ctx, rec)
	if err != nil {
		return nil, err
	}
	out := activityFromRecord(updated)
	return &out, nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

func activityFromRecord(rec recordstore.Record) models.Activity {
	a := models.Activity{
		ID:          rec.ID(),
		Type:        models.ActivityType(rec.String("type")),
		Title:       rec.String("title"),
		Description: rec.String("description"),
		ContactID:   rec.String("contact"),
		DealID:      rec.String("deal"),
		Completed:   rec.Bool("completed"),
	}
	if a.Type == "" {
		a.Type = models.ActivityTask
	}
	a.DueDate = timeOrNow(rec, "due_date")
	a.CreatedAt = timeOrNow(rec, recordstore.FieldCreatedOn)
	return a
}

func activityToRecord(a *models.Activity) recordstore.Record {
	typ := a.Type
	if typ == "" {
		typ = models.ActivityTask
	}
	due := a.DueDate
	if due.IsZero() {
		due = time.Now()
	}
	return recordstore.Record{
		recordstore.FieldName: a.Title,
		"type":                string(typ),
		"title":               a.Title,
		"description":         a.Description,
		"due_date":            recordstore.FormatTime(due),
		"completed":           a.Completed,
		"contact":             nullable(a.ContactID),
		"deal":                nullable(a.DealID),
	}
}
