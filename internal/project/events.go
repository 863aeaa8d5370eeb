package project

// EventType defines the type of event
type EventType string

const (
	EventOpened       EventType = "project_opened"
	EventSaved        EventType = "project_saved"
	EventCleared      EventType = "project_cleared"
	EventModified     EventType = "network_modified"
	EventStateChanged EventType = "state_changed"
	EventRunStarted   EventType = "run_started"
	EventRunProgress  EventType = "run_progress"
	EventRunCompleted EventType = "run_completed"
	EventRunFailed    EventType = "run_failed"
)

// Event represents something that happened to the project
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
