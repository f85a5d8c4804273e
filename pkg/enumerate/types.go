package enumerate

import (
	"errors"
)

// Enumerator errors.
var (
	ErrNilBackend         = errors.New("nil backend")
	ErrAlreadyInitialized = errors.New("enumerator already initialized")
	ErrNotInitialized     = errors.New("enumerator not initialized")
	ErrNotPopulated       = errors.New("enumerator not populated")
	ErrAlreadyPopulated   = errors.New("enumerator already populated")
	ErrClosed             = errors.New("enumerator closed")
	ErrNoIntrospector     = errors.New("no introspector configured")
)

// Action identifies what happened to a device node.
type Action uint8

const (
	// ActionAdd - a device node appeared.
	ActionAdd Action = iota

	// ActionRemove - a device node went away.
	ActionRemove
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "ADD"
	case ActionRemove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// Event is a single hotplug notification from a backend. Events are
// delivered one per node transition, in the order they occurred.
type Event struct {
	// Action is what happened to the node.
	Action Action

	// Node is the device node path the event refers to.
	Node string
}

// EnumeratorState tracks the enumerator lifecycle.
type EnumeratorState uint8

const (
	// EnumeratorCreated - constructed, backend untouched.
	EnumeratorCreated EnumeratorState = iota

	// EnumeratorInitialized - backend initialized, not yet scanned.
	EnumeratorInitialized

	// EnumeratorPopulated - initial scan complete, events flowing.
	EnumeratorPopulated

	// EnumeratorClosed - backend shut down.
	EnumeratorClosed
)

// String returns the state name.
func (s EnumeratorState) String() string {
	switch s {
	case EnumeratorCreated:
		return "CREATED"
	case EnumeratorInitialized:
		return "INITIALIZED"
	case EnumeratorPopulated:
		return "POPULATED"
	case EnumeratorClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
