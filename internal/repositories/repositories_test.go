package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdash/internal/models"
	"crmdash/internal/recordstore"
)

func TestContactRepository_NameTranslation(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewMemory()
	repo := NewContactRepository(store, nil)

	created, err := repo.Create(ctx, &models.Contact{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Company:   "Acme Corp",
		Tags:      []string{"prospect", " enterprise ", ""},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"prospect", "enterprise"}, created.Tags)

	raw, err := store.GetRecordByID(ctx, ContactTable, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", raw.String(recordstore.FieldName))
	assert.Equal(t, "John", raw.String("first_name"))
	assert.Equal(t, "prospect,enterprise", raw.String(recordstore.FieldTags))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Acme Corp", got.Company)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestContactRepository_ReadDefaults(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewMemory()
	resp, err := store.CreateRecords(ctx, ContactTable, []recordstore.Record{{"first_name": "Solo"}})
	require.NoError(t, err)

	repo := NewContactRepository(store, nil)
	c, err := repo.GetByID(ctx, resp.Results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Solo", c.FirstName)
	assert.Equal(t, "", c.Email)
	assert.Equal(t, []string{}, c.Tags)
}

func TestContactRepository_MissingAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(recordstore.NewMemory(), nil)

	c, err := repo.GetByID(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = repo.Update(ctx, &models.Contact{ID: "42", FirstName: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "42"), ErrNotFound)
}

func TestDealRepository_Mapping(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewMemory()
	repo := NewDealRepository(store, nil)

	closeAt := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	d, err := repo.Create(ctx, &models.Deal{
		Title:             "Acme Corp - Enterprise Package",
		Value:             85000,
		Probability:       75,
		ContactID:         "1",
		ExpectedCloseDate: closeAt,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StageLead, d.Stage)
	assert.Equal(t, closeAt, d.ExpectedCloseDate)

	raw, err := store.GetRecordByID(ctx, DealTable, d.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", raw.String("expected_close_date"))
	assert.Equal(t, "1", raw.String("contact"))
	assert.Equal(t, "Acme Corp - Enterprise Package", raw.String(recordstore.FieldName))

	// строковые значения из внешнего API
	resp, err := store.CreateRecords(ctx, DealTable, []recordstore.Record{
		{"title": "Loose", "value": "abc", "probability": "60", "contact": nil},
	})
	require.NoError(t, err)
	loose, err := repo.GetByID(ctx, resp.Results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, loose.Value)
	assert.Equal(t, 60, loose.Probability)
	assert.Equal(t, models.StageLead, loose.Stage)
	assert.Equal(t, "", loose.ContactID)
}

func TestActivityRepository_Mapping(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewMemory()
	repo := NewActivityRepository(store, nil)

	a, err := repo.Create(ctx, &models.Activity{Title: "Follow-up", ContactID: "3"})
	require.NoError(t, err)
	assert.Equal(t, models.ActivityTask, a.Type)
	assert.False(t, a.Completed)
	assert.Equal(t, "", a.DealID)
	assert.False(t, a.DueDate.IsZero())

	a.Completed = true
	updated, err := repo.Update(ctx, a)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	list, total, err := repo.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, list, 1)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(recordstore.NewMemory(), nil)

	_, err := repo.Create(ctx, &models.User{Email: "Admin@Example.com", PasswordHash: "h", RoleID: 50})
	require.NoError(t, err)

	u, err := repo.GetByEmail(ctx, " admin@example.com ")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, 50, u.RoleID)
	assert.Equal(t, "h", u.PasswordHash)

	none, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{"a", "b"}, SplitTags("a, b,,"))
	assert.Equal(t, "a,b", JoinTags([]string{" a", "", "b "}))
}
