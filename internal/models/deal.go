package models

import "time"

type Deal struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Value             float64   `json:"value"`
	Stage             Stage     `json:"stage"`
	Probability       int       `json:"probability"` // 0..100
	ContactID         string    `json:"contactId,omitempty"`
	ExpectedCloseDate time.Time `json:"expectedCloseDate"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// DealFilter narrows the pipeline board.
type DealFilter struct {
	ContactID string
	Query     string
}
