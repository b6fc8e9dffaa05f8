package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"crmdash/internal/models"
	"crmdash/internal/repositories"
)

const (
	UnknownContact   = "Unknown Contact"
	recentActivities = 5
)

// ErrDashboardUnavailable is returned when any of the dashboard fetches fails.
var ErrDashboardUnavailable = errors.New("dashboard data unavailable")

type DashboardService struct {
	Contacts   ContactRepository
	Deals      DealRepository
	Activities ActivityRepository
	log        *zap.Logger
}

func NewDashboardService(contacts ContactRepository, deals DealRepository, activities ActivityRepository, log *zap.Logger) *DashboardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{Contacts: contacts, Deals: deals, Activities: activities, log: log}
}

// Load fetches the three tables concurrently. The first failure cancels the
// others and the whole load fails.
func (s *DashboardService) Load(ctx context.Context) (*models.DashboardMetrics, error) {
	var (
		contacts   []models.Contact
		deals      []models.Deal
		activities []models.Activity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, _, err = s.Contacts.List(gctx, repositories.ListParams{})
		return err
	})
	g.Go(func() error {
		var err error
		deals, _, err = s.Deals.List(gctx, repositories.ListParams{})
		return err
	})
	g.Go(func() error {
		var err error
		activities, _, err = s.Activities.List(gctx, repositories.ListParams{})
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("[dashboard][load] fetch failed", zap.Error(err))
		return nil, errors.Join(ErrDashboardUnavailable, err)
	}
	m := BuildDashboard(contacts, deals, activities)
	return &m, nil
}

// BuildDashboard derives the dashboard metrics from full table snapshots.
func BuildDashboard(contacts []models.Contact, deals []models.Deal, activities []models.Activity) models.DashboardMetrics {
	m := models.DashboardMetrics{
		TotalContacts:    len(contacts),
		ActiveDeals:      len(deals),
		RecentActivities: []models.RecentActivity{},
		Sales:            MonthlySales(deals),
	}
	for _, d := range deals {
		m.PipelineValue += d.Value
	}
	for _, a := range activities {
		if a.Completed {
			m.CompletedActivities++
		} else {
			m.PendingActivities++
		}
	}

	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		names[c.ID] = c.FullName()
	}
	recent := make([]models.Activity, len(activities))
	copy(recent, activities)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentActivities {
		recent = recent[:recentActivities]
	}
	for _, a := range recent {
		name, ok := names[a.ContactID]
		if !ok {
			name = UnknownContact
		}
		m.RecentActivities = append(m.RecentActivities, models.RecentActivity{Activity: a, ContactName: name})
	}
	return m
}

// MonthlySales sums deal value and count per calendar month of createdAt, oldest first.
func MonthlySales(deals []models.Deal) []models.MonthlySales {
	byMonth := map[time.Time]*models.MonthlySales{}
	for _, d := range deals {
		if d.CreatedAt.IsZero() {
			continue
		}
		t := d.CreatedAt.UTC()
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		ms, ok := byMonth[start]
		if !ok {
			ms = &models.MonthlySales{Month: start.Format("Jan 2006"), Start: start}
			byMonth[start] = ms
		}
		ms.Value += d.Value
		ms.Deals++
	}
	out := make([]models.MonthlySales, 0, len(byMonth))
	for _, ms := range byMonth {
		out = append(out, *ms)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
