// events.go defines the event types for extension notifications.
//
// Separated from extension.go to isolate the event system. Events let
// extensions react to item changes without modifying core logic.
//
// Events are fire-and-forget notifications sent after the change has been
// committed. Extensions observe; they cannot block or veto an operation.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventItemWrite   EventType = "item:write"
	EventItemDelete  EventType = "item:delete"
	EventItemRestore EventType = "item:restore"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	EventKey() string
}

// ItemWriteEvent is fired after a new item version is stored.
type ItemWriteEvent struct {
	Key     string
	Version int
	Type    string
	Blocks  int
	Author  string
	Message string
}

func (e ItemWriteEvent) EventType() EventType { return EventItemWrite }
func (e ItemWriteEvent) EventKey() string     { return e.Key }

// ItemDeleteEvent is fired after an item is soft-deleted.
type ItemDeleteEvent struct {
	Key string
}

func (e ItemDeleteEvent) EventType() EventType { return EventItemDelete }
func (e ItemDeleteEvent) EventKey() string     { return e.Key }

// ItemRestoreEvent is fired after a deleted item is restored.
type ItemRestoreEvent struct {
	Key     string
	Version int
}

func (e ItemRestoreEvent) EventType() EventType { return EventItemRestore }
func (e ItemRestoreEvent) EventKey() string     { return e.Key }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	Extension
	HandleEvent(ctx Context, e Event) error
}
