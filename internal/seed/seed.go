// Package seed loads the demo dataset into an empty store.
package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"crmdash/internal/models"
	"crmdash/internal/repositories"
	"crmdash/internal/services"
)

type Result struct {
	Contacts   int  `json:"contacts"`
	Deals      int  `json:"deals"`
	Activities int  `json:"activities"`
	Skipped    bool `json:"skipped"`
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Sample data; ids are local and remapped to store ids on insert.
var (
	Contacts = []models.Contact{
		{ID: "1", FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "+1 (555) 123-4567",
			Company: "Acme Corp", Position: "Marketing Director", Source: "Website", Tags: []string{"prospect", "enterprise"}},
		{ID: "2", FirstName: "Sarah", LastName: "Johnson", Email: "sarah.j@techflow.com", Phone: "+1 (555) 987-6543",
			Company: "TechFlow Solutions", Position: "CEO", Source: "Referral", Tags: []string{"hot-lead", "decision-maker"}},
		{ID: "3", FirstName: "Michael", LastName: "Chen", Email: "mchen@innovate.co", Phone: "+1 (555) 456-7890",
			Company: "Innovate Co", Position: "CTO", Source: "Social Media", Tags: []string{"technical", "enterprise"}},
	}
	Deals = []models.Deal{
		{ID: "1", Title: "Acme Corp - Enterprise Package", Value: 85000, Stage: models.StageProposal, Probability: 75,
			ContactID: "1", ExpectedCloseDate: day("2024-03-15")},
		{ID: "2", Title: "TechFlow - Premium Solution", Value: 120000, Stage: models.StageNegotiation, Probability: 90,
			ContactID: "2", ExpectedCloseDate: day("2024-02-28")},
		{ID: "3", Title: "Innovate Co - Custom Integration", Value: 200000, Stage: models.StageQualified, Probability: 60,
			ContactID: "3", ExpectedCloseDate: day("2024-04-30")},
	}
	Activities = []models.Activity{
		{ID: "1", Type: models.ActivityCall, Title: "Discovery Call with John",
			Description: "Initial discovery call to understand requirements",
			ContactID: "1", DealID: "1", DueDate: day("2024-02-05"), Completed: true},
		{ID: "2", Type: models.ActivityMeeting, Title: "Product Demo for TechFlow",
			Description: "Demonstrate key features and capabilities",
			ContactID: "2", DealID: "2", DueDate: day("2024-02-08")},
		{ID: "3", Type: models.ActivityEmail, Title: "Follow-up Email to Michael",
			Description: "Send technical documentation and pricing details",
			ContactID: "3", DealID: "3", DueDate: day("2024-02-10")},
	}
)

// Load inserts the sample data unless the contact table already has rows.
func Load(ctx context.Context, contacts services.ContactRepository, deals services.DealRepository, activities services.ActivityRepository, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	_, total, err := contacts.List(ctx, repositories.ListParams{Limit: 1})
	if err != nil {
		return Result{}, err
	}
	if total > 0 {
		log.Info("[seed] store not empty, skipping", zap.Int("contacts", total))
		return Result{Skipped: true}, nil
	}

	var res Result
	contactIDs := map[string]string{}
	for _, c := range Contacts {
		c := c
		c.Tags = append([]string(nil), c.Tags...)
		created, err := contacts.Create(ctx, &c)
		if err != nil {
			return res, fmt.Errorf("seed contact %s: %w", c.Email, err)
		}
		contactIDs[c.ID] = created.ID
		res.Contacts++
	}

	dealIDs := map[string]string{}
	for _, d := range Deals {
		d := d
		d.ContactID = contactIDs[d.ContactID]
		created, err := deals.Create(ctx, &d)
		if err != nil {
			return res, fmt.Errorf("seed deal %q: %w", d.Title, err)
		}
		dealIDs[d.ID] = created.ID
		res.Deals++
	}

	for _, a := range Activities {
		a := a
		a.ContactID = contactIDs[a.ContactID]
		a.DealID = dealIDs[a.DealID]
		if _, err := activities.Create(ctx, &a); err != nil {
			return res, fmt.Errorf("seed activity %q: %w", a.Title, err)
		}
		res.Activities++
	}
	log.Info("[seed] loaded",
		zap.Int("contacts", res.Contacts),
		zap.Int("deals", res.Deals),
		zap.Int("activities", res.Activities),
	)
	return res, nil
}
