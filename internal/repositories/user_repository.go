package repositories

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"crmdash/internal/models"
	"crmdash/internal/recordstore"
)

const UserTable = "user"

var userFields = []string{"email", "password_hash", "role"}

type UserRepository struct {
	t table
}

func NewUserRepository(store recordstore.Client, log *zap.Logger) *UserRepository {
	return &UserRepository{t: newTable(UserTable, "[user]", userFields, store, log)}
}

// GetByEmail matches case-insensitively; nil, nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	recs, _, err := r.t.list(ctx, ListParams{
		Where: []recordstore.Condition{{Field: "email", Operator: recordstore.OpEqualTo, Values: []any{email}}},
		Limit: 1,
	})
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	u := userFromRecord(recs[0])
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	rec, err := r.t.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	u := userFromRecord(rec)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	rec, err := r.t.create(ctx, recordstore.Record{
		recordstore.FieldName: u.Email,
		"email":               strings.ToLower(strings.TrimSpace(u.Email)),
		"password_hash":       u.PasswordHash,
		"role":                u.RoleID,
	})
	if err != nil {
		return nil, err
	}
	out := userFromRecord(rec)
	return &out, nil
}

func userFromRecord(rec recordstore.Record) models.User {
	return models.User{
		ID:           rec.ID(),
		Email:        rec.String("email"),
		PasswordHash: rec.String("password_hash"),
		RoleID:       rec.Int("role"),
	}
}
