package production

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExportDOT(t *testing.T) {
	c := newTestChart(t)
	v := &DefaultVisualizer{}
	dot := v.ExportDOT(c)

	for _, want := range []string{
		`digraph "game" {`,
		`subgraph "cluster_Game" {`,
		`subgraph "cluster_Game.Playing" {`,
		`"Game.Playing" [label="Playing" shape=ellipse style=filled fillcolor=orange];`,
		`"Game.Playing.Alive" [label="Alive" style=filled fillcolor=lightgreen];`,
		`"Game.Playing.Dead" [label="Dead"];`,
		`"Game.Playing.History" [label="H" shape=circle];`,
		`"Game.Playing.Alive" -> "Game.Playing.Dead" [label="defeat"];`,
		`"Game.Playing.Alive" -> "Game.Playing.Dead" [label="auto [hp <= 0]"];`,
		`"Game.Paused" -> "Game.Playing.History" [label="resume"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT not terminated")
	}

	_ = c.SendEvent("pause")
	dot = v.ExportDOT(c)
	if !strings.Contains(dot, `"Game.Paused" [label="Paused" style=filled fillcolor=lightgreen];`) {
		t.Errorf("Paused not highlighted\n%s", dot)
	}
	if strings.Contains(dot, `"Game.Playing.Alive" [label="Alive" style=filled`) {
		t.Error("inactive state highlighted")
	}
}

func TestExportJSON(t *testing.T) {
	c := newTestChart(t)
	data, err := (&DefaultVisualizer{}).ExportJSON(c)
	if err != nil {
		t.Fatal(err)
	}

	var view ChartView
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatal(err)
	}
	if view.ID != c.ID() || view.Name != "game" || view.Version != c.Version() {
		t.Errorf("unexpected header: %+v", view)
	}
	if view.Root.Kind != "compound" || view.Root.Initial != "Playing" || !view.Root.Active {
		t.Errorf("unexpected root: %+v", view.Root)
	}
	playing := view.Root.Children[0]
	if len(playing.Children) != 3 || playing.Children[2].Kind != "history" {
		t.Fatalf("unexpected children: %+v", playing.Children)
	}
	alive := playing.Children[0]
	if len(alive.Transitions) != 2 || alive.Transitions[1].Guard != "hp <= 0" || alive.Transitions[1].Event != "" {
		t.Errorf("unexpected transitions: %+v", alive.Transitions)
	}
	if view.Variables["hp"] != float64(10) {
		t.Errorf("hp = %v", view.Variables["hp"])
	}
}
