package mail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// sendTimeout bounds a single delivery attempt so a slow provider can
// never wedge a worker.
const sendTimeout = 30 * time.Second

// DispatcherConfig holds configuration for the mail dispatcher.
type DispatcherConfig struct {
	// WorkerCount determines how many concurrent workers deliver messages.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory queue.
	// When the queue is full, new messages are dropped with a warning.
	QueueSize int
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Dispatcher queues notifications and delivers them asynchronously
// through a Mailer. It implements Notifier.
type Dispatcher struct {
	mailer   Mailer
	queue    chan Message
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	config   DispatcherConfig
	logger   *slog.Logger
	stopOnce sync.Once
}

var _ Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher delivering through the given mailer.
func NewDispatcher(mailer Mailer, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultDispatcherConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultDispatcherConfig().QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, config.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		config: config,
		logger: logger.With(slog.String("component", "mail_dispatcher")),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.logger.Info("mail dispatcher started",
		slog.Int("workers", d.config.WorkerCount),
		slog.Int("queue_size", d.config.QueueSize))
}

// Stop closes the queue, waits for in-flight deliveries to finish and
// then cancels any that exceed their send timeout.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
		d.wg.Wait()
		d.cancel()
		d.logger.Info("mail dispatcher stopped")
	})
}

// NotifyWelcome implements Notifier.NotifyWelcome.
func (d *Dispatcher) NotifyWelcome(name, email string) {
	d.enqueue(Message{
		ToName:    name,
		ToAddress: email,
		Subject:   "Thanks for joining in!",
		Body:      fmt.Sprintf("Welcome to tasknest, %s. Let me know how you get along!", name),
	})
}

// NotifyCancellation implements Notifier.NotifyCancellation.
func (d *Dispatcher) NotifyCancellation(name, email string) {
	d.enqueue(Message{
		ToName:    name,
		ToAddress: email,
		Subject:   "Sorry to see you go!",
		Body:      fmt.Sprintf("Goodbye, %s. I hope to see you back sometime soon.", name),
	})
}

// enqueue hands the message to the workers without ever blocking the
// caller. A full queue drops the message; delivery is best effort.
func (d *Dispatcher) enqueue(msg Message) {
	defer func() {
		// A send on the closed queue during shutdown is not worth
		// crashing over; the message is dropped like any other failure.
		if r := recover(); r != nil {
			d.logger.Warn("notification dropped during shutdown",
				slog.String("subject", msg.Subject))
		}
	}()

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("notification queue full, dropping message",
			slog.String("subject", msg.Subject))
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	log := d.logger.With(slog.Int("worker_id", id))

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(d.ctx, sendTimeout)
		if err := d.mailer.Send(ctx, msg); err != nil {
			log.Error("failed to send notification",
				slog.String("error", err.Error()),
				slog.String("subject", msg.Subject))
		} else {
			log.Debug("notification sent",
				slog.String("subject", msg.Subject))
		}
		cancel()
	}
}
