package ports

import "context"

// WelcomeMessage is the data rendered into a welcome notification.
type WelcomeMessage struct {
	AccountID   string
	Email       string
	FirstName   string
	LastName    string
	Username    string
	AccountType string
}

// Notifier delivers account notifications. Delivery is best effort.
type Notifier interface {
	NotifyWelcome(ctx context.Context, msg WelcomeMessage) error
}

// Mailer sends a rendered welcome message over a mail transport.
type Mailer interface {
	SendWelcome(ctx context.Context, msg WelcomeMessage) error
}
