package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"crmdash/internal/models"
	"crmdash/internal/repositories"
)

type ActivityService struct {
	Repo     ActivityRepository
	Contacts ContactRepository
	mailer   Mailer
	log      *zap.Logger
	now      func() time.Time
}

func NewActivityService(repo ActivityRepository, contacts ContactRepository, mailer Mailer, log *zap.Logger) *ActivityService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityService{Repo: repo, Contacts: contacts, mailer: mailer, log: log, now: time.Now}
}

// List returns one page of a tracker tab, earliest due first, and the
// number of activities in the tab.
func (s *ActivityService) List(ctx context.Context, filter models.ActivityFilter, opts ListOptions) ([]models.Activity, int, error) {
	if filter == "" {
		filter = models.FilterAll
	}
	if !filter.Valid() {
		return nil, 0, validationError("unknown filter %q", filter)
	}
	all, _, err := s.Repo.List(ctx, repositories.ListParams{})
	if err != nil {
		return nil, 0, err
	}
	matched := FilterActivities(all, filter, s.now())
	return page(matched, opts.Limit, opts.Offset), len(matched), nil
}

func (s *ActivityService) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *ActivityService) Create(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	if err := validateActivity(a); err != nil {
		return nil, err
	}
	created, err := s.Repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	s.log.Info("[activity][create][ok]", zap.String("id", created.ID), zap.String("type", string(created.Type)))
	return created, nil
}

func (s *ActivityService) Update(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	if err := validateActivity(a); err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = existing.CreatedAt
	return s.Repo.Update(ctx, a)
}

func (s *ActivityService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

// ToggleComplete flips the completed flag and writes the record back as is.
func (s *ActivityService) ToggleComplete(ctx context.Context, id string) (*models.Activity, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Completed = !a.Completed
	updated, err := s.Repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	s.log.Info("[activity][toggle][ok]", zap.String("id", id), zap.Bool("completed", updated.Completed))
	return updated, nil
}

func (s *ActivityService) Stats(ctx context.Context) (models.ActivityStats, error) {
	all, _, err := s.Repo.List(ctx, repositories.ListParams{})
	if err != nil {
		return models.ActivityStats{}, err
	}
	return CountActivities(all, s.now()), nil
}

// Digest mails the open activities (pending, overdue first) to one address.
// Returns the number of activities included.
func (s *ActivityService) Digest(ctx context.Context, to string) (int, error) {
	to = strings.TrimSpace(to)
	if to == "" || !strings.Contains(to, "@") {
		return 0, validationError("recipient email is required")
	}
	if s.mailer == nil {
		return 0, ErrMailDisabled
	}
	all, _, err := s.Repo.List(ctx, repositories.ListParams{})
	if err != nil {
		return 0, err
	}
	now := s.now()
	overdue := FilterActivities(all, models.FilterOverdue, now)
	var upcoming []models.Activity
	for _, a := range FilterActivities(all, models.FilterPending, now) {
		if !a.Overdue(now) {
			upcoming = append(upcoming, a)
		}
	}

	names := map[string]string{}
	if s.Contacts != nil {
		contacts, _, err := s.Contacts.List(ctx, repositories.ListParams{})
		if err != nil {
			return 0, err
		}
		for _, c := range contacts {
			names[c.ID] = c.FullName()
		}
	}

	subject, body := RenderDigest(overdue, upcoming, names, now)
	if err := s.mailer.Send(to, subject, body); err != nil {
		s.log.Error("[activity][digest] send failed", zap.String("to", to), zap.Error(err))
		return 0, fmt.Errorf("send digest: %w", err)
	}
	n := len(overdue) + len(upcoming)
	s.log.Info("[activity][digest][ok]", zap.String("to", to), zap.Int("activities", n))
	return n, nil
}

// FilterActivities selects one tab and sorts by due date ascending.
func FilterActivities(list []models.Activity, filter models.ActivityFilter, now time.Time) []models.Activity {
	out := make([]models.Activity, 0, len(list))
	for _, a := range list {
		switch filter {
		case models.FilterPending:
			if a.Completed {
				continue
			}
		case models.FilterCompleted:
			if !a.Completed {
				continue
			}
		case models.FilterOverdue:
			if !a.Overdue(now) {
				continue
			}
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

func CountActivities(list []models.Activity, now time.Time) models.ActivityStats {
	st := models.ActivityStats{Total: len(list)}
	for _, a := range list {
		if a.Completed {
			st.Completed++
			continue
		}
		st.Pending++
		if a.Overdue(now) {
			st.Overdue++
		}
	}
	return st
}

func validateActivity(a *models.Activity) error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Type == "" {
		a.Type = models.ActivityTask
	}
	switch {
	case a.Title == "":
		return validationError("title is required")
	case !a.Type.Valid():
		return validationError("unknown activity type %q", a.Type)
	}
	return nil
}
