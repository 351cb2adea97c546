package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

const (
	queueSize    = 256
	maxRetries   = 2 // 3 attempts total
	retryBackoff = 5 * time.Second
)

// Dispatcher is the submit-and-don't-block email queue. Enqueue never
// blocks the caller; a full queue drops the message with a log line.
type Dispatcher struct {
	sender  Sender
	logger  *logrus.Logger
	queue   chan Email
	wg      sync.WaitGroup
	backoff time.Duration
}

func NewDispatcher(sender Sender, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		queue:   make(chan Email, queueSize),
		backoff: retryBackoff,
	}
}

// Start launches the delivery worker. It drains until Close is called or
// ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case email, ok := <-d.queue:
				if !ok {
					return
				}
				d.deliver(ctx, email)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (d *Dispatcher) Enqueue(email Email) {
	select {
	case d.queue <- email:
	default:
		d.logger.WithField("to", email.To).Warn("email queue full, dropping message")
	}
}

// Close stops accepting messages and waits for the worker to finish.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, email Email) {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewConstant(d.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := d.sender.Send(ctx, email); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"to":      email.To,
			"subject": email.Subject,
		}).Error("email delivery failed after retries")
		return
	}

	d.logger.WithField("to", email.To).Debug("email delivered")
}
