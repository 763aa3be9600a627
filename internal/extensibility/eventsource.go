// Package extensibility connects charts to the outside world: event
// sources that feed SendEvent, named guard registries and callback
// wrappers for reactions.
package extensibility

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/comalice/gamechart"
)

// EventSource produces event names for a chart. The channel is closed when
// the source is exhausted.
type EventSource interface {
	Events() <-chan string
}

// ChannelEventSource is an EventSource backed by a Go channel.
type ChannelEventSource struct {
	ch chan string
}

// NewChannelEventSource creates a ChannelEventSource with the given channel.
// The channel should be buffered if backpressure handling is needed.
func NewChannelEventSource(ch chan string) *ChannelEventSource {
	return &ChannelEventSource{ch: ch}
}

// Events returns the receive-only channel for events.
func (s *ChannelEventSource) Events() <-chan string {
	return s.ch
}

// Send queues event, blocking until there is room or ctx is done.
func (s *ChannelEventSource) Send(ctx context.Context, event string) error {
	select {
	case s.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TimerEventSource emits the same event every period, for timeouts and
// heartbeats. Ticks are dropped while the buffer is full.
type TimerEventSource struct {
	ch     chan string
	event  string
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

// NewTimerEventSource creates a TimerEventSource that emits event every d.
func NewTimerEventSource(event string, d time.Duration) *TimerEventSource {
	t := &TimerEventSource{
		ch:     make(chan string, 10),
		event:  event,
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TimerEventSource) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- t.event:
			default:
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

// Events returns the event channel.
func (t *TimerEventSource) Events() <-chan string {
	return t.ch
}

// Stop stops the ticker and closes the channel. Safe to call twice.
func (t *TimerEventSource) Stop() {
	t.once.Do(func() { close(t.stop) })
}

// Pump forwards events from src to c until src is closed or ctx is done.
// Rejected events are logged and skipped; Pump returns nil when src closes
// and ctx.Err() on cancellation.
func Pump(ctx context.Context, c *gamechart.Chart, src EventSource, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.SendEvent(event); err != nil {
				level := slog.LevelError
				if errors.Is(err, gamechart.ErrUnknownEvent) {
					level = slog.LevelWarn
				}
				logger.Log(ctx, level, "event rejected", "chart", c.Name(), "event", event, "error", err)
			}
		}
	}
}
