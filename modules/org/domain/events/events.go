package events

import (
	"time"

	"github.com/google/uuid"
)

type ChangeType string

const (
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
	ChangeAdded   ChangeType = "added"
)

// Table names carried by TablesChangedEvent.
const (
	TableGrouping   = "grouping"
	TableSortOrder  = "sort_order"
	TableLeadership = "leadership"
	TableCrossUnit  = "cross_unit"
)

type RosterReplacedEvent struct {
	EventID    uuid.UUID `json:"eventId"`
	ImportID   uuid.UUID `json:"importId"`
	Employees  int       `json:"employees"`
	OccurredAt time.Time `json:"occurredAt"`
}

type EmployeeChangedEvent struct {
	EventID    uuid.UUID  `json:"eventId"`
	EmployeeID string     `json:"employeeId"`
	ChangeType ChangeType `json:"changeType"`
	OccurredAt time.Time  `json:"occurredAt"`
}

type TablesChangedEvent struct {
	EventID    uuid.UUID `json:"eventId"`
	Table      string    `json:"table"`
	Key        string    `json:"key,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewRosterReplaced(importID uuid.UUID, employees int) *RosterReplacedEvent {
	return &RosterReplacedEvent{EventID: uuid.New(), ImportID: importID, Employees: employees, OccurredAt: time.Now().UTC()}
}

func NewEmployeeChanged(id string, change ChangeType) *EmployeeChangedEvent {
	return &EmployeeChangedEvent{EventID: uuid.New(), EmployeeID: id, ChangeType: change, OccurredAt: time.Now().UTC()}
}

func NewTablesChanged(table, key string) *TablesChangedEvent {
	return &TablesChangedEvent{EventID: uuid.New(), Table: table, Key: key, OccurredAt: time.Now().UTC()}
}
