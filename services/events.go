package services

// Activity event types pushed to admin dashboards.
const (
	EventGameCreated         = "game_created"
	EventGameUpdated         = "game_updated"
	EventGameDeleted         = "game_deleted"
	EventRegistrationCreated = "registration_created"
	EventRegistrationDeleted = "registration_deleted"
)

// Publisher receives activity events after a write has committed.
type Publisher interface {
	Publish(eventType string, payload interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
