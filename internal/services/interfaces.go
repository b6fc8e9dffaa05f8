package services

import (
	"context"

	"crmdash/internal/models"
	"crmdash/internal/repositories"
)

// Repositories are accepted as interfaces; *repositories.XRepository satisfy them.

type ContactRepository interface {
	List(ctx context.Context, p repositories.ListParams) ([]models.Contact, int, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Update(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

type DealRepository interface {
	List(ctx context.Context, p repositories.ListParams) ([]models.Deal, int, error)
	GetByID(ctx context.Context, id string) (*models.Deal, error)
	Create(ctx context.Context, d *models.Deal) (*models.Deal, error)
	Update(ctx context.Context, d *models.Deal) (*models.Deal, error)
	Delete(ctx context.Context, id string) error
}

type ActivityRepository interface {
	List(ctx context.Context, p repositories.ListParams) ([]models.Activity, int, error)
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	Create(ctx context.Context, a *models.Activity) (*models.Activity, error)
	Update(ctx context.Context, a *models.Activity) (*models.Activity, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
}

// EventPublisher fans pipeline events out to board subscribers.
type EventPublisher interface {
	Publish(ev models.PipelineEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.PipelineEvent) {}
