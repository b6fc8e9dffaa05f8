package repositories

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"crmdash/internal/models"
	"crmdash/internal/recordstore"
)

const ContactTable = "contact"

var contactFields = []string{"first_name", "last_name", "email", "phone", "company", "position", "source"}

type ContactRepository struct {
	t table
}

func NewContactRepository(store recordstore.Client, log *zap.Logger) *ContactRepository {
	return &ContactRepository{t: newTable(ContactTable, "[contact]", contactFields, store, log)}
}

func (r *ContactRepository) List(ctx context.Context, p ListParams) ([]models.Contact, int, error) {
	recs, total, err := r.t.list(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.Contact, 0, len(recs))
	for _, rec := range recs {
		out = append(out, contactFromRecord(rec))
	}
	return out, total, nil
}

// GetByID returns nil, nil when the contact does not exist.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	rec, err := r.t.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	c := contactFromRecord(rec)
	return &c, nil
}

func (r *ContactRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	rec, err := r.t.create(ctx, contactToRecord(c))
	if err != nil {
		return nil, err
	}
	out := contactFromRecord(rec)
	return &out, nil
}

func (r *ContactRepository) Update(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	rec := contactToRecord(c)
	rec[recordstore.FieldID] = c.ID
	updated, err := r.t.update(ctx, rec)
	if err != nil {
		return nil, err
	}
	out := contactFromRecord(updated)
	return &out, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

func contactFromRecord(rec recordstore.Record) models.Contact {
	c := models.Contact{
		ID:        rec.ID(),
		FirstName: rec.String("first_name"),
		LastName:  rec.String("last_name"),
		Email:     rec.String("email"),
		Phone:     rec.String("phone"),
		Company:   rec.String("company"),
		Position:  rec.String("position"),
		Source:    rec.String("source"),
		Tags:      SplitTags(rec.String(recordstore.FieldTags)),
	}
	c.CreatedAt = timeOrNow(rec, recordstore.FieldCreatedOn)
	c.UpdatedAt = timeOrNow(rec, recordstore.FieldModifiedOn)
	return c
}

func contactToRecord(c *models.Contact) recordstore.Record {
	return recordstore.Record{
		recordstore.FieldName: c.FirstName + " " + c.LastName,
		"first_name":          c.FirstName,
		"last_name":           c.LastName,
		"email":               c.Email,
		"phone":               c.Phone,
		"company":             c.Company,
		"position":            c.Position,
		"source":              c.Source,
		recordstore.FieldTags: JoinTags(c.Tags),
	}
}

// SplitTags turns the backend comma string into a list; blanks are dropped.
func SplitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func JoinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}

func timeOrNow(rec recordstore.Record, field string) time.Time {
	if t, ok := rec.Time(field); ok {
		return t
	}
	return time.Now()
}
