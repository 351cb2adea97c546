package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	attempts int
	failures int // fail this many attempts before succeeding
	sent     []Email
}

func (s *recordingSender) Send(_ context.Context, email Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.attempts <= s.failures {
		return errors.New("smtp connection reset")
	}
	s.sent = append(s.sent, email)
	return nil
}

func (s *recordingSender) delivered() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Email(nil), s.sent...)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(discard{})
	return logger
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestDispatcherDelivers(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher(sender, quietLogger())
	dispatcher.backoff = time.Millisecond

	dispatcher.Start(context.Background())
	dispatcher.Enqueue(Email{To: "a@example.com", Subject: "hello"})
	dispatcher.Close()

	delivered := sender.delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "a@example.com", delivered[0].To)
}

func TestDispatcherRetriesTransientFailures(t *testing.T) {
	// Two failures then success stays within the three-attempt budget.
	sender := &recordingSender{failures: 2}
	dispatcher := NewDispatcher(sender, quietLogger())
	dispatcher.backoff = time.Millisecond

	dispatcher.Start(context.Background())
	dispatcher.Enqueue(Email{To: "retry@example.com"})
	dispatcher.Close()

	assert.Len(t, sender.delivered(), 1)
	assert.Equal(t, 3, sender.attempts)
}

func TestDispatcherGivesUpAfterRetryBudget(t *testing.T) {
	sender := &recordingSender{failures: 10}
	dispatcher := NewDispatcher(sender, quietLogger())
	dispatcher.backoff = time.Millisecond

	dispatcher.Start(context.Background())
	dispatcher.Enqueue(Email{To: "doomed@example.com"})
	dispatcher.Close()

	assert.Empty(t, sender.delivered())
	assert.Equal(t, 3, sender.attempts)
}

func TestEnqueueNeverBlocks(t *testing.T) {
	// No worker running: the queue fills and overflow is dropped.
	dispatcher := NewDispatcher(&recordingSender{}, quietLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < queueSize+10; i++ {
			dispatcher.Enqueue(Email{To: "x@example.com"})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}
