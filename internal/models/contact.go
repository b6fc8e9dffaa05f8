package models

import "time"

// Contact is a person tracked by the CRM.
type Contact struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	Source    string    `json:"source"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ContactSources: справочник источников (не валидируется).
var ContactSources = []string{
	"Website",
	"Social Media",
	"Email Campaign",
	"Referral",
	"Cold Call",
	"Trade Show",
	"Partner",
	"Other",
}
