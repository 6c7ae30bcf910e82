package toposim

import (
	"fmt"
	"time"
)

// State is the lifecycle state of a node.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateBusy
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateBusy:
		return "BUSY"
	case StatePaused:
		return "PAUSED"
	case StateStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Event is a lifecycle notification delivered to node listeners.
type Event int

const (
	EventStarted Event = iota
	EventStopped
	EventShutdownRequested
	EventStateChanged
	EventNeighborAdded
	EventNeighborRemoved
	EventError
)

func (e Event) String() string {
	switch e {
	case EventStarted:
		return "STARTED"
	case EventStopped:
		return "STOPPED"
	case EventShutdownRequested:
		return "SHUTDOWN_REQUESTED"
	case EventStateChanged:
		return "STATE_CHANGED"
	case EventNeighborAdded:
		return "NEIGHBOR_ADDED"
	case EventNeighborRemoved:
		return "NEIGHBOR_REMOVED"
	case EventError:
		return "ERROR"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Listener receives node events. It is called synchronously from the
// goroutine that caused the event, so it must not block.
type Listener func(node *Node, event Event)

// Status is a point-in-time snapshot of a node.
type Status struct {
	NodeID            string
	NodeName          string
	State             State
	Active            bool
	Running           bool
	NeighborCount     int
	QueueSize         int
	ProcessedMessages int64
	LastUpdateTime    time.Time
}
