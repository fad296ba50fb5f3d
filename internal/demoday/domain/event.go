package domain

import (
	"strings"
	"time"
)

// EventStatus represents the lifecycle status of a demo-day event.
type EventStatus int

const (
	// EventStatusUnspecified represents an invalid event status value.
	EventStatusUnspecified EventStatus = iota
	// EventStatusUpcoming indicates an announced event not yet open.
	EventStatusUpcoming
	// EventStatusRegistrationOpen indicates the event accepts applications.
	EventStatusRegistrationOpen
	// EventStatusEarlyAccess indicates early-access participants may browse.
	EventStatusEarlyAccess
	// EventStatusActive indicates the event is live for all participants.
	EventStatusActive
	// EventStatusCompleted indicates the event window has closed.
	EventStatusCompleted
	// EventStatusArchived indicates the event is retained for history only.
	EventStatusArchived
)

// Event represents one time-boxed demo-day event.
type Event struct {
	ID        string
	Slug      string
	Name      string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    EventStatus
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventStatusLabel returns the string label for an event status.
func EventStatusLabel(status EventStatus) string {
	switch status {
	case EventStatusUpcoming:
		return "UPCOMING"
	case EventStatusRegistrationOpen:
		return "REGISTRATION_OPEN"
	case EventStatusEarlyAccess:
		return "EARLY_ACCESS"
	case EventStatusActive:
		return "ACTIVE"
	case EventStatusCompleted:
		return "COMPLETED"
	case EventStatusArchived:
		return "ARCHIVED"
	default:
		return "UNSPECIFIED"
	}
}

// EventStatusFromLabel converts a status label to an EventStatus value.
func EventStatusFromLabel(label string) EventStatus {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "UPCOMING":
		return EventStatusUpcoming
	case "REGISTRATION_OPEN":
		return EventStatusRegistrationOpen
	case "EARLY_ACCESS":
		return EventStatusEarlyAccess
	case "ACTIVE":
		return EventStatusActive
	case "COMPLETED":
		return EventStatusCompleted
	case "ARCHIVED":
		return EventStatusArchived
	default:
		return EventStatusUnspecified
	}
}
