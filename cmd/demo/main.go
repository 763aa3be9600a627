// Command demo runs a small dungeon chart on the real-time runtime.
//
// The hero loses hit points every frame while alive, dies, and is revived
// by a timer. On exit the final chart is printed as DOT and its snapshot is
// saved. Configuration comes from GAMECHART_* environment variables.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/comalice/gamechart"
	"github.com/comalice/gamechart/internal/config"
	"github.com/comalice/gamechart/internal/extensibility"
	"github.com/comalice/gamechart/internal/production"
	"github.com/comalice/gamechart/realtime"
)

//go:embed game.yaml
var gameDefinition []byte

const runFor = 3 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	opts := append(cfg.ChartOptions(), gamechart.WithLogger(logger))
	var chart *gamechart.Chart
	if cfg.ChartFile != "" {
		chart, err = gamechart.LoadFile(cfg.ChartFile, opts...)
	} else {
		chart, err = gamechart.LoadYAML(gameDefinition, opts...)
	}
	if err != nil {
		return err
	}
	logger.Info("chart loaded", "chart", chart.Name(), "id", chart.ID(), "version", chart.Version())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runFor)
	defer cancel()

	notifications := make(chan production.Notification, 256)
	publisher := production.NewChannelPublisher(chart.ID(), notifications)
	unsubscribe := chart.Subscribe(publisher)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for n := range notifications {
			logger.Debug("notification", "kind", n.Kind, "event", n.Event, "state", n.State, "from", n.From, "to", n.To)
		}
	}()

	var tracer *production.TracingObserver
	if cfg.TracingEnabled {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(&logSpanProcessor{logger: logger}))
		defer func() { _ = tp.Shutdown(context.Background()) }()
		tracer = production.NewTracingObserver(chart, tp)
		chart.Subscribe(tracer)
	}

	if err := wireGame(chart, logger); err != nil {
		return err
	}

	rt := realtime.NewRuntime(chart, realtime.Config{
		TickRate:         cfg.TickRate,
		MaxEventsPerTick: cfg.MaxEventsPerTick,
		Logger:           logger,
	})
	if err := wireProcess(chart, rt, logger); err != nil {
		return err
	}
	if err := rt.Start(ctx); err != nil {
		return err
	}

	reviver := extensibility.NewTimerEventSource("revive", 500*time.Millisecond)
	defer reviver.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case e, ok := <-reviver.Events():
			if !ok {
				break loop
			}
			if err := rt.SendEvent(e); err != nil {
				logger.Warn("event dropped", "event", e, "error", err)
			}
		}
	}

	if err := rt.Stop(); err != nil {
		return err
	}
	if tracer != nil {
		tracer.Flush()
	}
	unsubscribe()
	_ = publisher.Close()
	<-done
	if n := publisher.Dropped(); n > 0 {
		logger.Warn("notifications dropped", "count", n)
	}

	fmt.Println((&production.DefaultVisualizer{}).ExportDOT(chart))
	return saveSnapshot(chart, cfg, logger)
}

// wireGame restores the hero's hit points on every revive.
func wireGame(chart *gamechart.Chart, logger *slog.Logger) error {
	dead, err := chart.FindState("Game.Playing.Dead")
	if err != nil {
		return err
	}
	dead.OnExit(func(gamechart.State) {
		if err := gamechart.SetAs(chart, "hp", 5); err != nil {
			logger.Error("reset hp", "error", err)
		}
	})
	dead.OnEnter(func(gamechart.State) {
		deaths, _ := gamechart.GetAs[int](chart, "deaths")
		if err := gamechart.SetAs(chart, "deaths", deaths+1); err != nil {
			logger.Error("count death", "error", err)
		}
	})
	return nil
}

// wireProcess drains one hit point per frame while the hero is alive.
func wireProcess(chart *gamechart.Chart, rt *realtime.Runtime, logger *slog.Logger) error {
	alive, err := chart.FindState("Game.Playing.Alive")
	if err != nil {
		return err
	}
	var elapsed time.Duration
	poison := extensibility.SafeValueAction(logger, "poison", func(delta time.Duration) {
		elapsed += delta
		if elapsed < 100*time.Millisecond {
			return
		}
		elapsed = 0
		hp, err := gamechart.GetAs[int](chart, "hp")
		if err != nil {
			panic(err)
		}
		if err := gamechart.SetAs(chart, "hp", hp-1); err != nil {
			panic(err)
		}
	})
	r, err := gamechart.NewValueReaction(alive, poison)
	if err != nil {
		return err
	}
	rt.AddProcessReaction(r)
	return nil
}

func saveSnapshot(chart *gamechart.Chart, cfg config.Config, logger *slog.Logger) error {
	snap, err := production.Capture(chart)
	if err != nil {
		return err
	}
	persister, err := production.NewPersister(strings.ToLower(cfg.SnapshotFormat), cfg.SnapshotDir)
	if err != nil {
		return err
	}
	if err := persister.Save(context.Background(), snap); err != nil {
		return err
	}
	logger.Info("snapshot saved", "chart", snap.ChartID, "dir", cfg.SnapshotDir, "format", cfg.SnapshotFormat)
	return nil
}
