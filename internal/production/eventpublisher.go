package production

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/comalice/gamechart"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// NotificationKind names the chart notification being published.
type NotificationKind string

const (
	EventReceived   NotificationKind = "event"
	StateEntered    NotificationKind = "enter"
	StateExited     NotificationKind = "exit"
	TransitionTaken NotificationKind = "transition"
)

// Notification is a chart notification detached from live State values.
type Notification struct {
	ChartID   string
	Kind      NotificationKind
	Event     string
	State     string
	From      string
	To        string
	Timestamp time.Time
}

// ChannelPublisher is a chart Observer that forwards notifications to a Go
// channel. Publishing never blocks the chart: when the channel is full the
// notification is dropped and counted.
type ChannelPublisher struct {
	chartID string
	ch      chan<- Notification
	dropped atomic.Uint64

	mu     sync.RWMutex
	closed bool
}

// NewChannelPublisher creates a ChannelPublisher for chartID writing to ch.
func NewChannelPublisher(chartID string, ch chan<- Notification) *ChannelPublisher {
	return &ChannelPublisher{chartID: chartID, ch: ch}
}

// Publish offers n to the channel without blocking.
func (p *ChannelPublisher) Publish(ctx context.Context, n Notification) error {
	if n.ChartID == "" {
		n.ChartID = p.chartID
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.ch <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped.Add(1)
		return nil
	}
}

// Dropped reports how many notifications were discarded on backpressure.
func (p *ChannelPublisher) Dropped() uint64 { return p.dropped.Load() }

// Close closes the channel. Notifications arriving afterwards are
// discarded, but the publisher should still be unsubscribed from its chart.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}

func (p *ChannelPublisher) EventReceived(event string) {
	_ = p.Publish(context.Background(), Notification{Kind: EventReceived, Event: event})
}

func (p *ChannelPublisher) StateEntered(s gamechart.State) {
	_ = p.Publish(context.Background(), Notification{Kind: StateEntered, State: s.Path()})
}

func (p *ChannelPublisher) StateExited(s gamechart.State) {
	_ = p.Publish(context.Background(), Notification{Kind: StateExited, State: s.Path()})
}

func (p *ChannelPublisher) TransitionTaken(t *gamechart.Transition, from gamechart.State) {
	_ = p.Publish(context.Background(), Notification{
		Kind:  TransitionTaken,
		Event: t.Event,
		From:  from.Path(),
		To:    t.To.Path(),
	})
}
