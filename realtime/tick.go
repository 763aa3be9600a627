package realtime

import (
	"errors"
	"time"
)

// processTick processes one complete tick and returns the errors the chart
// reported for this tick's events.
func (rt *Runtime) processTick(delta time.Duration) error {
	rt.tickMu.Lock()
	defer rt.tickMu.Unlock()

	// Phase 1: collect events atomically.
	events := rt.collectEvents()

	// Phase 2: sort for deterministic order.
	sortEvents(events)

	// Phase 3: hand the events to the chart.
	err := rt.processEvents(events)

	// Phase 4: per-tick reactions.
	for _, r := range rt.processReactions() {
		r.Trigger(delta)
	}

	rt.batchMu.Lock()
	rt.tickNum++
	rt.batchMu.Unlock()
	return err
}

// collectEvents atomically retrieves and clears the event batch.
func (rt *Runtime) collectEvents() []EventWithMeta {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	events := rt.eventBatch
	rt.eventBatch = make([]EventWithMeta, 0, rt.maxEvents)
	return events
}

func (rt *Runtime) processEvents(events []EventWithMeta) error {
	var errs []error
	for _, e := range events {
		if err := rt.chart.SendEvent(e.Event); err != nil {
			rt.logger.Warn("tick event failed", "chart", rt.chart.Name(), "event", e.Event, "tick", rt.TickNumber(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
