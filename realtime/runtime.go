package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/comalice/gamechart"
)

// ErrQueueFull is returned when a tick's event budget is exhausted.
var ErrQueueFull = errors.New("event queue full")

// ErrRunning is returned by Start when the tick loop is already running.
var ErrRunning = errors.New("runtime already running")

// Config configures the real-time runtime.
type Config struct {
	TickRate         time.Duration // Fixed tick rate, 60 FPS by default
	MaxEventsPerTick int           // Event budget per tick, 1000 by default
	Logger           *slog.Logger  // Defaults to slog.Default()
}

// Runtime drives a chart at tick boundaries.
type Runtime struct {
	chart    *gamechart.Chart
	logger   *slog.Logger
	tickRate time.Duration

	// Event batching
	batchMu     sync.Mutex
	eventBatch  []EventWithMeta
	maxEvents   int
	sequenceNum uint64
	tickNum     uint64
	reactions   []*gamechart.ValueReaction[time.Duration]

	// Serializes ticks between the loop and Step.
	tickMu sync.Mutex

	// Control
	runMu   sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewRuntime creates a tick-based runtime for chart.
func NewRuntime(chart *gamechart.Chart, cfg Config) *Runtime {
	if cfg.MaxEventsPerTick <= 0 {
		cfg.MaxEventsPerTick = 1000
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Runtime{
		chart:      chart,
		logger:     cfg.Logger,
		tickRate:   cfg.TickRate,
		maxEvents:  cfg.MaxEventsPerTick,
		eventBatch: make([]EventWithMeta, 0, cfg.MaxEventsPerTick),
	}
}

// Chart returns the driven chart.
func (rt *Runtime) Chart() *gamechart.Chart { return rt.chart }

// Start starts the chart, if needed, and the tick loop. The loop stops
// when ctx is done or Stop is called.
func (rt *Runtime) Start(ctx context.Context) error {
	rt.runMu.Lock()
	defer rt.runMu.Unlock()
	if rt.cancel != nil {
		select {
		case <-rt.stopped:
			// The caller's context ended the previous loop.
			rt.cancel()
			rt.cancel = nil
		default:
			return ErrRunning
		}
	}
	if err := rt.chart.Start(); err != nil {
		return fmt.Errorf("start chart %s: %w", rt.chart.Name(), err)
	}

	tickCtx, cancel := context.WithCancel(ctx)
	rt.cancel = cancel
	rt.stopped = make(chan struct{})
	go rt.tickLoop(tickCtx, rt.stopped)
	return nil
}

// Stop stops the tick loop and waits for it to exit.
func (rt *Runtime) Stop() error {
	rt.runMu.Lock()
	defer rt.runMu.Unlock()
	if rt.cancel == nil {
		return nil
	}
	rt.cancel()
	<-rt.stopped
	rt.cancel = nil
	return nil
}

// Step runs one tick immediately with the given delta. It starts the chart
// on first use, so replays and tests can drive the runtime without a
// ticker.
func (rt *Runtime) Step(delta time.Duration) error {
	if !rt.chart.Ready() {
		if err := rt.chart.Start(); err != nil {
			return err
		}
	}
	return rt.processTick(delta)
}

func (rt *Runtime) tickLoop(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(rt.tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			rt.safeTick(delta)
		}
	}
}

func (rt *Runtime) safeTick(delta time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("tick panicked", "chart", rt.chart.Name(), "tick", rt.TickNumber(), "panic", fmt.Sprint(r))
		}
	}()
	_ = rt.processTick(delta)
}

// SendEvent queues an event for the next tick. Safe for concurrent use.
func (rt *Runtime) SendEvent(event string) error {
	return rt.SendEventWithPriority(event, 0)
}

// SendEventWithPriority queues an event with priority. Higher priorities
// are processed first within a tick.
func (rt *Runtime) SendEventWithPriority(event string, priority int) error {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	if len(rt.eventBatch) >= rt.maxEvents {
		return fmt.Errorf("%w: %d events pending", ErrQueueFull, len(rt.eventBatch))
	}
	rt.eventBatch = append(rt.eventBatch, EventWithMeta{
		Event:       event,
		SequenceNum: rt.sequenceNum,
		Priority:    priority,
	})
	rt.sequenceNum++
	return nil
}

// AddProcessReaction registers r to be triggered with the tick delta after
// each tick's events. It fires only while its parent state is active.
func (rt *Runtime) AddProcessReaction(r *gamechart.ValueReaction[time.Duration]) {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()
	rt.reactions = append(rt.reactions, r)
}

func (rt *Runtime) processReactions() []*gamechart.ValueReaction[time.Duration] {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()
	return slices.Clone(rt.reactions)
}

// TickNumber returns the number of completed ticks.
func (rt *Runtime) TickNumber() uint64 {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()
	return rt.tickNum
}

// Pending returns the number of events waiting for the next tick.
func (rt *Runtime) Pending() int {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()
	return len(rt.eventBatch)
}
