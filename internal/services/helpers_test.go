package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crmdash/internal/models"
	"crmdash/internal/recordstore"
	"crmdash/internal/repositories"
)

type fixture struct {
	store      *recordstore.Memory
	contacts   *repositories.ContactRepository
	deals      *repositories.DealRepository
	activities *repositories.ActivityRepository
	users      *repositories.UserRepository
}

func newFixture() *fixture {
	store := recordstore.NewMemory()
	return &fixture{
		store:      store,
		contacts:   repositories.NewContactRepository(store, nil),
		deals:      repositories.NewDealRepository(store, nil),
		activities: repositories.NewActivityRepository(store, nil),
		users:      repositories.NewUserRepository(store, nil),
	}
}

func (f *fixture) contact(t *testing.T, first, last, email, company string) *models.Contact {
	t.Helper()
	c, err := f.contacts.Create(context.Background(), &models.Contact{FirstName: first, LastName: last, Email: email, Company: company})
	require.NoError(t, err)
	return c
}

func (f *fixture) deal(t *testing.T, title string, value float64, stage models.Stage, prob int, contactID string) *models.Deal {
	t.Helper()
	d, err := f.deals.Create(context.Background(), &models.Deal{
		Title: title, Value: value, Stage: stage, Probability: prob, ContactID: contactID,
		ExpectedCloseDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) activity(t *testing.T, title string, due time.Time, completed bool, contactID string) *models.Activity {
	t.Helper()
	a, err := f.activities.Create(context.Background(), &models.Activity{
		Type: models.ActivityCall, Title: title, DueDate: due, Completed: completed, ContactID: contactID,
	})
	require.NoError(t, err)
	return a
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.PipelineEvent
}

func (p *recordingPublisher) Publish(ev models.PipelineEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) all() []models.PipelineEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.PipelineEvent(nil), p.events...)
}

type recordingNotifier struct {
	won []*models.Deal
	err error
}

func (n *recordingNotifier) DealWon(_ context.Context, d *models.Deal) error {
	n.won = append(n.won, d)
	return n.err
}

// countingDeals counts Update calls on top of a real repository.
type countingDeals struct {
	DealRepository
	updates int
}

func (c *countingDeals) Update(ctx context.Context, d *models.Deal) (*models.Deal, error) {
	c.updates++
	return c.DealRepository.Update(ctx, d)
}

var errBoom = errors.New("boom")

type failingContacts struct{ ContactRepository }

func (failingContacts) List(context.Context, repositories.ListParams) ([]models.Contact, int, error) {
	return nil, 0, errBoom
}

type fakeMailer struct {
	to, subject, body string
	err               error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

type staticTokens struct{}

func (staticTokens) Issue(userID string, roleID int) (string, time.Time, error) {
	return "token-" + userID, time.Unix(0, 0), nil
}
