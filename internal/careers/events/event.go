// Package events publishes company lifecycle events to Kafka and consumes
// them to keep per-instance editor workspaces in sync.
package events

import (
	"time"

	"github.com/gartstein/careers/internal/careers/models"
)

type EventType string

const (
	CompanyCreated EventType = "company_created"
	CompanyUpdated EventType = "company_updated"
	CompanyDeleted EventType = "company_deleted"
)

// Event is the message published for every company mutation. Company
// carries the state after the change (before it, for deletes).
type Event struct {
	Type       EventType       `json:"type"`
	Slug       string          `json:"slug"`
	Company    *models.Company `json:"company,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent builds an event for company stamped with the current time.
func NewEvent(eventType EventType, company *models.Company) Event {
	return Event{
		Type:       eventType,
		Slug:       company.Slug,
		Company:    company,
		OccurredAt: time.Now().UTC(),
	}
}

// Discard is a producer that drops every event. It is used when no Kafka
// brokers are configured.
type Discard struct{}

func (Discard) Produce(EventType, *models.Company) {}

func (Discard) Close() {}
