package models

import "time"

type EventType string

const (
	EventDealCreated EventType = "deal.created"
	EventDealUpdated EventType = "deal.updated"
	EventDealMoved   EventType = "deal.moved"
	EventDealDeleted EventType = "deal.deleted"
)

// PipelineEvent is pushed to board subscribers after a deal write.
type PipelineEvent struct {
	Type   EventType `json:"type"`
	DealID string    `json:"dealId"`
	Deal   *Deal     `json:"deal,omitempty"`
	From   Stage     `json:"from,omitempty"`
	To     Stage     `json:"to,omitempty"`
	At     time.Time `json:"at"`
}
