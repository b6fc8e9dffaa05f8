package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"crmdash/internal/models"
	"crmdash/internal/repositories"
)

type ContactService struct {
	Repo ContactRepository
	log  *zap.Logger
}

func NewContactService(repo ContactRepository, log *zap.Logger) *ContactService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactService{Repo: repo, log: log}
}

// ListOptions: поиск и пагинация для списков.
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

// List returns contacts matching opts.Search, paged after filtering, plus
// the number of matches.
func (s *ContactService) List(ctx context.Context, opts ListOptions) ([]models.Contact, int, error) {
	all, _, err := s.Repo.List(ctx, repositories.ListParams{})
	if err != nil {
		return nil, 0, err
	}
	matched := FilterContacts(all, opts.Search)
	return page(matched, opts.Limit, opts.Offset), len(matched), nil
}

func (s *ContactService) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *ContactService) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	normalizeContact(c)
	if err := validateContact(c); err != nil {
		return nil, err
	}
	created, err := s.Repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.log.Info("[contact][create][ok]", zap.String("id", created.ID), zap.String("email", created.Email))
	return created, nil
}

// Update replaces the whole contact record.
func (s *ContactService) Update(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	normalizeContact(c)
	if err := validateContact(c); err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	return s.Repo.Update(ctx, c)
}

// Delete does not touch deals or activities that reference the contact.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("[contact][delete][ok]", zap.String("id", id))
	return nil
}

// FilterContacts keeps contacts whose first name, last name, email or
// company contains term, case-insensitively. Empty term keeps everything.
func FilterContacts(contacts []models.Contact, term string) []models.Contact {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return contacts
	}
	out := make([]models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.FirstName), term) ||
			strings.Contains(strings.ToLower(c.LastName), term) ||
			strings.Contains(strings.ToLower(c.Email), term) ||
			strings.Contains(strings.ToLower(c.Company), term) {
			out = append(out, c)
		}
	}
	return out
}

func normalizeContact(c *models.Contact) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Tags = repositories.SplitTags(repositories.JoinTags(c.Tags))
}

func validateContact(c *models.Contact) error {
	switch {
	case c.FirstName == "":
		return validationError("firstName is required")
	case c.LastName == "":
		return validationError("lastName is required")
	case c.Email == "":
		return validationError("email is required")
	case !strings.Contains(c.Email, "@"):
		return validationError("email is invalid")
	}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
