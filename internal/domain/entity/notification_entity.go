package entity

// NotificationKind selects the template used to render an outbound message.
type NotificationKind string

const (
	AccountActivation NotificationKind = "account_activation"
	PasswordReset     NotificationKind = "password_reset"
)

// NotificationIDPrefix marks identifiers issued to outbound notifications.
const NotificationIDPrefix = "EML"

// Notification is an email-like message handed to a Notifier.
type Notification struct {
	ID         string           `json:"id"`
	Kind       NotificationKind `json:"kind"`
	Recipients []string         `json:"recipients"`
	Subject    string           `json:"subject"`
	Body       string           `json:"body"`
	Name       string           `json:"name,omitempty"`
	Link       string           `json:"link,omitempty"`
}
