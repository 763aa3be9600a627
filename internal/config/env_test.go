package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TickRate != 16*time.Millisecond {
		t.Errorf("TickRate = %v", cfg.TickRate)
	}
	if cfg.MaxEventsPerTick != 1000 {
		t.Errorf("MaxEventsPerTick = %d", cfg.MaxEventsPerTick)
	}
	if cfg.SnapshotFormat != "json" || cfg.SnapshotDir != "snapshots" {
		t.Errorf("snapshot settings = %s %s", cfg.SnapshotFormat, cfg.SnapshotDir)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Errorf("Level = %v", cfg.Level())
	}
	if len(cfg.ChartOptions()) != 0 {
		t.Error("no validation options expected by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GAMECHART_TICK_RATE", "33ms")
	t.Setenv("GAMECHART_VALIDATE_EVENTS", "true")
	t.Setenv("GAMECHART_VALIDATE_VARIABLE_TYPES", "true")
	t.Setenv("GAMECHART_LOG_LEVEL", "debug")
	t.Setenv("GAMECHART_SNAPSHOT_FORMAT", "yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TickRate != 33*time.Millisecond {
		t.Errorf("TickRate = %v", cfg.TickRate)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level = %v", cfg.Level())
	}
	if n := len(cfg.ChartOptions()); n != 2 {
		t.Errorf("ChartOptions = %d, want 2", n)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("GAMECHART_MAX_EVENTS_PER_TICK", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		errContains string
	}{
		{"zero tick", map[string]string{"GAMECHART_TICK_RATE": "0s"}, "tick rate"},
		{"negative budget", map[string]string{"GAMECHART_MAX_EVENTS_PER_TICK": "-1"}, "max events"},
		{"bad format", map[string]string{"GAMECHART_SNAPSHOT_FORMAT": "xml"}, "snapshot format"},
		{"bad level", map[string]string{"GAMECHART_LOG_LEVEL": "loud"}, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Fatalf("got %v, want error containing %q", err, tt.errContains)
			}
		})
	}
}
