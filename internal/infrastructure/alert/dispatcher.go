package alert

import (
	"licentia/internal/shared/biztime"
	"licentia/internal/shared/goroutine"
	"licentia/internal/shared/logger"
)

// Dispatcher fans one event out to every configured channel. Delivery runs
// asynchronously and failures only produce a log line: alerting must never
// block or fail the security decision that triggered it.
type Dispatcher struct {
	notifiers []Notifier
	enabled   map[EventType]bool
	logger    logger.Interface
}

func NewDispatcher(notifiers []Notifier, enabledEvents []string, log logger.Interface) *Dispatcher {
	enabled := make(map[EventType]bool, len(enabledEvents))
	for _, e := range enabledEvents {
		enabled[EventType(e)] = true
	}
	return &Dispatcher{
		notifiers: notifiers,
		enabled:   enabled,
		logger:    log.Named("alert-dispatcher"),
	}
}

// Dispatch delivers the event to all channels if its type is enabled.
func (d *Dispatcher) Dispatch(event Event) {
	if !d.enabled[event.Type] {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = biztime.NowUTC()
	}

	for _, n := range d.notifiers {
		notifier := n
		goroutine.SafeGo(d.logger, "alert-delivery", func() {
			if err := notifier.Notify(event); err != nil {
				d.logger.Errorw("alert delivery failed",
					"event_type", string(event.Type),
					"error", err,
				)
			}
		})
	}
}
