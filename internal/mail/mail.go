// Package mail implements best-effort outbound email. Notifications are
// queued in memory and delivered by background workers; a failure is
// logged and dropped, never retried and never surfaced to the request
// that triggered it.
package mail

import "context"

// Message is a single outbound email.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
}

// Mailer delivers a single message. Implementations live under
// internal/platform.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier is the interface the services use to trigger account
// lifecycle emails. Calls never block and never fail.
type Notifier interface {
	// NotifyWelcome sends the post-registration greeting.
	NotifyWelcome(name, email string)

	// NotifyCancellation sends the account-deletion goodbye.
	NotifyCancellation(name, email string)
}
