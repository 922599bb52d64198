package mocks

import (
	"context"
	"sync"

	"github.com/tasknest/tasknest-api/internal/mail"
)

// MockNotifier implements mail.Notifier for testing
type MockNotifier struct {
	mu sync.Mutex

	// Call tracking for verification
	WelcomeCalls      []NotifyCall
	CancellationCalls []NotifyCall
}

// NotifyCall records a single notification request.
type NotifyCall struct {
	Name  string
	Email string
}

// NotifyWelcome implements the mail.Notifier interface
func (m *MockNotifier) NotifyWelcome(name, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WelcomeCalls = append(m.WelcomeCalls, NotifyCall{Name: name, Email: email})
}

// NotifyCancellation implements the mail.Notifier interface
func (m *MockNotifier) NotifyCancellation(name, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancellationCalls = append(m.CancellationCalls, NotifyCall{Name: name, Email: email})
}

// MockMailer implements mail.Mailer for testing
type MockMailer struct {
	mu sync.Mutex

	// SendFn allows test cases to mock the Send behavior
	SendFn func(ctx context.Context, msg mail.Message) error

	// Sent records every delivered message
	Sent []mail.Message

	// Err is returned when SendFn isn't defined
	Err error
}

// Send implements the mail.Mailer interface
func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	if m.SendFn != nil {
		return m.SendFn(ctx, msg)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Sent = append(m.Sent, msg)
	return nil
}

// Messages returns a copy of the delivered messages.
func (m *MockMailer) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mail.Message, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// Compile-time checks
var (
	_ mail.Notifier = (*MockNotifier)(nil)
	_ mail.Mailer   = (*MockMailer)(nil)
)
