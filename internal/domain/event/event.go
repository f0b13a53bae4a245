package event

import "maps"

// Source identifies this service on every emitted event.
const Source = "UserService"

// DetailType enumerates the events the service emits.
type DetailType string

const (
	UserCreated            DetailType = "UserCreated"
	UserFetched            DetailType = "UserFetched"
	UserDeleted            DetailType = "UserDeleted"
	UserUpdated            DetailType = "UserUpdated"
	UsersListed            DetailType = "UsersListed"
	UserLoggedIn           DetailType = "UserLoggedIn"
	UserLoggedOut          DetailType = "UserLoggedOut"
	TokenDecoded           DetailType = "TokenDecoded"
	UserAccountActivated   DetailType = "UserAccountActivated"
	PasswordResetRequested DetailType = "PasswordResetRequested"
	PasswordResetConfirmed DetailType = "PasswordResetConfirmed"
)

// Metadata travels with the event for downstream deduplication.
type Metadata struct {
	IdempotencyKey string `json:"idempotency_key"`
}

type Detail struct {
	Metadata Metadata       `json:"metadata"`
	Data     map[string]any `json:"data"`
}

// Event is the envelope handed to a Publisher.
type Event struct {
	Source     string     `json:"source"`
	DetailType DetailType `json:"detail_type"`
	Detail     Detail     `json:"detail"`
}

// New builds an event from a copy of data so later changes to the caller's
// map do not leak into an already published event.
func New(t DetailType, idempotencyKey string, data map[string]any) Event {
	d := make(map[string]any, len(data))
	maps.Copy(d, data)
	return Event{
		Source:     Source,
		DetailType: t,
		Detail: Detail{
			Metadata: Metadata{IdempotencyKey: idempotencyKey},
			Data:     d,
		},
	}
}
