package alert

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"licentia/internal/shared/logger"
)

func discardLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// recordingNotifier captures delivered events and signals each delivery so
// tests can wait for the async fan-out.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	done   chan struct{}
}

func newRecordingNotifier(expected int) *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, expected)}
}

func (n *recordingNotifier) Notify(event Event) error {
	n.mu.Lock()
	n.events = append(n.events, event)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *recordingNotifier) waitFor(t *testing.T, count int) []Event {
	t.Helper()
	for i := 0; i < count; i++ {
		select {
		case <-n.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, count)
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

func TestDispatcher_DeliversEnabledEvents(t *testing.T) {
	notifier := newRecordingNotifier(1)
	d := NewDispatcher([]Notifier{notifier}, []string{"account_banned"}, discardLogger())

	d.Dispatch(Event{
		Type:    EventAccountBanned,
		Subject: "u***@example.com",
		Message: "account locked after repeated failures",
	})

	events := notifier.waitFor(t, 1)
	assert.Equal(t, EventAccountBanned, events[0].Type)
	assert.False(t, events[0].OccurredAt.IsZero(), "dispatcher stamps the event time")
}

func TestDispatcher_SkipsDisabledEvents(t *testing.T) {
	notifier := newRecordingNotifier(1)
	d := NewDispatcher([]Notifier{notifier}, []string{"account_banned"}, discardLogger())

	d.Dispatch(Event{Type: EventSessionSuspicious})

	select {
	case <-notifier.done:
		t.Fatal("disabled event type must not be delivered")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDispatcher_FansOutToAllNotifiers(t *testing.T) {
	first := newRecordingNotifier(1)
	second := newRecordingNotifier(1)
	d := NewDispatcher([]Notifier{first, second}, []string{"session_suspicious"}, discardLogger())

	d.Dispatch(Event{Type: EventSessionSuspicious, Subject: "a***@example.com"})

	assert.Len(t, first.waitFor(t, 1), 1)
	assert.Len(t, second.waitFor(t, 1), 1)
}

func TestDispatcher_KeepsExplicitTimestamp(t *testing.T) {
	notifier := newRecordingNotifier(1)
	d := NewDispatcher([]Notifier{notifier}, []string{"repeated_invalid_key"}, discardLogger())

	occurred := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	d.Dispatch(Event{Type: EventRepeatedInvalidKey, OccurredAt: occurred})

	events := notifier.waitFor(t, 1)
	assert.Equal(t, occurred, events[0].OccurredAt)
}
