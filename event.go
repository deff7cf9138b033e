package assent

import "time"

// Event topics published on the optional event queue.
const (
	TopicWaiterRegistered = "waiter.registered"
	TopicWaiterRemoved    = "waiter.removed"
	TopicRequestSubmitted = "request.submitted"
	TopicRequestGranted   = "request.granted"
	TopicRequestDenied    = "request.denied"
	TopicRequestCancelled = "request.cancelled"
	TopicReset            = "coordinator.reset"
)

// Event describes a coordinator state change.
type Event struct {
	Topic     string    `json:"topic"`
	RequestID string    `json:"requestId,omitempty"`
	Key       string    `json:"key,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
