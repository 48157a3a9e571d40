package domain

import "time"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes a committed change to one record.
type Event struct {
	Entity Entity
	Action Action
	ID     uint
	At     time.Time
}
