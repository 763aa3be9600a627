package extensibility

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/comalice/gamechart"
)

func newToggleChart(t *testing.T, opts ...gamechart.Option) *gamechart.Chart {
	t.Helper()
	b := gamechart.NewChartBuilder("Root", "A")
	b.State("A").On("toggle", "B", nil)
	b.State("B").On("toggle", "A", nil)
	c, err := b.Build(opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	return c
}

func bufferLogger() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	return &buf, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestChannelEventSource(t *testing.T) {
	ch := make(chan string, 1)
	s := NewChannelEventSource(ch)
	if err := s.Send(context.Background(), "go"); err != nil {
		t.Fatal(err)
	}
	if got := <-s.Events(); got != "go" {
		t.Errorf("got %q", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch <- "fill"
	if err := s.Send(ctx, "blocked"); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestTimerEventSource(t *testing.T) {
	s := NewTimerEventSource("tick", 10*time.Millisecond)
	defer s.Stop()

	for i := 0; i < 2; i++ {
		select {
		case ev := <-s.Events():
			if ev != "tick" {
				t.Errorf("wrong event: %q", ev)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("no event %d received", i)
		}
	}
}

func TestTimerEventSourceStop(t *testing.T) {
	s := NewTimerEventSource("tick", time.Millisecond)
	s.Stop()
	s.Stop()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-s.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after Stop")
		}
	}
}

func TestPumpForwardsUntilClosed(t *testing.T) {
	c := newToggleChart(t)
	ch := make(chan string, 3)
	ch <- "toggle"
	ch <- "toggle"
	ch <- "toggle"
	close(ch)

	if err := Pump(context.Background(), c, NewChannelEventSource(ch), nil); err != nil {
		t.Fatal(err)
	}
	if got := c.ActiveLeaf().Name(); got != "B" {
		t.Errorf("leaf = %s, want B", got)
	}
}

func TestPumpLogsRejectedEvents(t *testing.T) {
	c := newToggleChart(t, gamechart.WithEvents("toggle"), gamechart.WithEventValidation())
	buf, logger := bufferLogger()

	ch := make(chan string, 2)
	ch <- "explode"
	ch <- "toggle"
	close(ch)

	if err := Pump(context.Background(), c, NewChannelEventSource(ch), logger); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "event=explode") {
		t.Errorf("rejection not logged:\n%s", out)
	}
	if got := c.ActiveLeaf().Name(); got != "B" {
		t.Errorf("leaf = %s, want B", got)
	}
}

func TestPumpStopsOnCancel(t *testing.T) {
	c := newToggleChart(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Pump(ctx, c, NewChannelEventSource(make(chan string)), nil)
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Pump did not return after cancel")
	}
}
