package event

import "github.com/viant/kernos/model/proc"

// Kind classifies a lifecycle event.
type Kind string

const (
	KindCreated    Kind = "created"
	KindDispatched Kind = "dispatched"
	KindPreempted  Kind = "preempted"
	KindBlocked    Kind = "blocked"
	KindUnblocked  Kind = "unblocked"
	KindExited     Kind = "exited"
	KindReaped     Kind = "reaped"
)

// Event records one process lifecycle transition.
type Event struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"kind"`
	PID        proc.PID `json:"pid"`
	ParentID   proc.PID `json:"parentId,omitempty"`
	ExitStatus int      `json:"exitStatus,omitempty"`
	At         int64    `json:"at"` // kernel clock, microseconds
	Detail     string   `json:"detail,omitempty"`
}
