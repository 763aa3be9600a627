package primitives

import (
	"strings"
	"testing"
)

const gameYAML = `
name: game
events: [defeat, revive]
validateEvents: true
variables:
  - name: hp
    type: int
    value: 10
  - name: speed
    value: 1.5
states:
  - name: Game
    initial: Playing
    children:
      - name: Playing
        initial: Alive
        children:
          - name: Alive
            transitions:
              - event: defeat
                to: Game.Playing.Dead
              - to: Game.Playing.Dead
                guard: hp <= 0
          - name: Dead
            transitions:
              - event: revive
                to: Game.Playing.Alive
          - name: History
            type: history
`

func TestDecodeYAML(t *testing.T) {
	cfg, err := DecodeYAML(strings.NewReader(gameYAML))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Name != "game" || !cfg.ValidateEvents {
		t.Errorf("unexpected header: %+v", cfg)
	}
	if len(cfg.Variables) != 2 {
		t.Fatalf("got %d variables, want 2", len(cfg.Variables))
	}
	alive, err := cfg.FindState("Game.Playing.Alive")
	if err != nil {
		t.Fatalf("FindState: %v", err)
	}
	if len(alive.Transitions) != 2 || alive.Transitions[1].Guard != "hp <= 0" {
		t.Errorf("unexpected transitions: %+v", alive.Transitions)
	}
	h, err := cfg.FindState("Game.Playing.History")
	if err != nil || h.Kind() != History {
		t.Errorf("history state: %v %v", h, err)
	}
}

func TestDecodeYAMLUnknownField(t *testing.T) {
	_, err := DecodeYAML(strings.NewReader("states: []\nbogus: 1\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "decode chart yaml") {
		t.Errorf("missing prefix: %v", err)
	}
}

func TestChartConfigValidate(t *testing.T) {
	valid := func() *ChartConfig {
		root := NewStateConfig("Game", Compound).WithInitial("Menu")
		root.State("Menu").Transition("start", "Game.Playing")
		root.State("Playing").Transition("quit", "Game.Menu")
		return &ChartConfig{Name: "game", Events: []string{"start", "quit"}, States: []*StateConfig{root}}
	}

	tests := []struct {
		name        string
		mutate      func(*ChartConfig)
		errContains string
	}{
		{name: "valid", mutate: func(*ChartConfig) {}},
		{
			name:        "no root",
			mutate:      func(c *ChartConfig) { c.States = nil },
			errContains: "root state is required",
		},
		{
			name: "two roots",
			mutate: func(c *ChartConfig) {
				c.States = append(c.States, NewStateConfig("Other", Atomic))
			},
			errContains: "exactly one root state",
		},
		{
			name: "unknown target",
			mutate: func(c *ChartConfig) {
				c.States[0].Children[0].Transition("go", "Game.Nowhere")
			},
			errContains: `invalid transition target "Game.Nowhere"`,
		},
		{
			name: "undeclared event under validation",
			mutate: func(c *ChartConfig) {
				c.ValidateEvents = true
				c.States[0].Children[0].Transition("jump", "Game.Playing")
			},
			errContains: `undeclared event "jump"`,
		},
		{
			name:        "duplicate event",
			mutate:      func(c *ChartConfig) { c.Events = append(c.Events, "start") },
			errContains: `duplicate event "start"`,
		},
		{
			name: "bad variable",
			mutate: func(c *ChartConfig) {
				c.Variables = []VariableConfig{{Name: "hp", Type: Int, Value: "ten"}}
			},
			errContains: "is not a int",
		},
		{
			name: "duplicate variable",
			mutate: func(c *ChartConfig) {
				c.Variables = []VariableConfig{{Name: "hp", Value: 1}, {Name: "hp", Value: 2}}
			},
			errContains: `duplicate variable "hp"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Fatalf("error %v does not contain %q", err, tt.errContains)
			}
		})
	}
}

func TestFindStateErrors(t *testing.T) {
	root := NewStateConfig("Game", Compound).WithInitial("Menu")
	root.State("Menu")
	cfg := &ChartConfig{States: []*StateConfig{root}}

	if _, err := cfg.FindState(""); err == nil {
		t.Error("empty path should fail")
	}
	if _, err := cfg.FindState("Other"); err == nil {
		t.Error("wrong root should fail")
	}
	if _, err := cfg.FindState("Game.Menu.Deep"); err == nil {
		t.Error("missing child should fail")
	}
	if s, err := cfg.FindState("Game"); err != nil || s != root {
		t.Errorf("FindState(Game) = %v, %v", s, err)
	}
}
