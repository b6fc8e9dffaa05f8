package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdash/internal/models"
)

func TestBuildDashboard(t *testing.T) {
	contacts := []models.Contact{{ID: "1", FirstName: "John", LastName: "Doe"}}
	deals := []models.Deal{
		{ID: "1", Value: 85000, CreatedAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Value: 25000, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "3", Value: 150000, CreatedAt: time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)},
	}
	var activities []models.Activity
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		activities = append(activities, models.Activity{
			ID:        fmt.Sprint(i + 1),
			ContactID: map[bool]string{true: "1", false: "99"}[i%2 == 0],
			Completed: i < 2,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	m := BuildDashboard(contacts, deals, activities)
	assert.Equal(t, 1, m.TotalContacts)
	assert.Equal(t, 3, m.ActiveDeals)
	assert.Equal(t, 260000.0, m.PipelineValue)
	assert.Equal(t, 5, m.PendingActivities)
	assert.Equal(t, 2, m.CompletedActivities)

	require.Len(t, m.RecentActivities, 5)
	assert.Equal(t, "7", m.RecentActivities[0].ID)
	assert.Equal(t, "John Doe", m.RecentActivities[0].ContactName)
	assert.Equal(t, "6", m.RecentActivities[1].ID)
	assert.Equal(t, UnknownContact, m.RecentActivities[1].ContactName)
	assert.Equal(t, "3", m.RecentActivities[4].ID)

	require.Len(t, m.Sales, 2)
	assert.Equal(t, "Dec 2023", m.Sales[0].Month)
	assert.Equal(t, 150000.0, m.Sales[0].Value)
	assert.Equal(t, "Jan 2024", m.Sales[1].Month)
	assert.Equal(t, 110000.0, m.Sales[1].Value)
	assert.Equal(t, 2, m.Sales[1].Deals)
}

func TestBuildDashboard_Empty(t *testing.T) {
	m := BuildDashboard(nil, nil, nil)
	assert.Equal(t, 0, m.TotalContacts)
	assert.NotNil(t, m.RecentActivities)
	assert.NotNil(t, m.Sales)
}

func TestDashboardService_Load(t *testing.T) {
	f := newFixture()
	c := f.contact(t, "John", "Doe", "john@acme.com", "Acme")
	f.deal(t, "A", 1000, models.StageLead, 10, c.ID)
	f.activity(t, "call", time.Now(), false, c.ID)
	s := NewDashboardService(f.contacts, f.deals, f.activities, nil)

	m, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalContacts)
	assert.Equal(t, 1, m.ActiveDeals)
	assert.Equal(t, 1000.0, m.PipelineValue)
	require.Len(t, m.RecentActivities, 1)
	assert.Equal(t, "John Doe", m.RecentActivities[0].ContactName)
}

func TestDashboardService_LoadFailsAsWhole(t *testing.T) {
	f := newFixture()
	f.deal(t, "A", 1000, models.StageLead, 10, "")
	s := NewDashboardService(failingContacts{}, f.deals, f.activities, nil)

	m, err := s.Load(context.Background())
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrDashboardUnavailable)
	assert.ErrorIs(t, err, errBoom)
}
