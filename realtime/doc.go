// Package realtime provides a tick-based deterministic runtime for
// gamechart charts.
//
// The runtime batches events and hands them to the chart at fixed tick
// boundaries instead of dispatching each SendEvent immediately:
//   - events are ordered by priority, then by submission sequence
//   - after the batch, per-tick process reactions run with the tick delta
//   - ticks come from a ticker (Start) or are driven manually (Step)
//
// # Example Usage
//
//	chart, _ := gamechart.LoadFile("game.yaml")
//	rt := realtime.NewRuntime(chart, realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//	})
//	rt.Start(ctx)
//	rt.SendEvent("jump")
//
// # Event Ordering Guarantees
//
// Events are ordered deterministically using:
//  1. Priority (higher priority processed first)
//  2. Sequence number (FIFO for same priority)
//  3. Stable sorting (preserves relative order)
//
// Given the same sequence of SendEvent calls and Step deltas, the chart
// always executes the same way, regardless of timing or concurrency.
// Events sent to the chart directly, e.g. by observers while a batch is
// flushed, still follow the chart's own FIFO draining.
//
// # Use Cases
//
//   - Game logic at a fixed frame rate
//   - Physics simulations (fixed time-step)
//   - Replays and tests (reproducible scenarios with Step)
package realtime
