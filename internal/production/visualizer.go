package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/comalice/gamechart"
)

// DefaultVisualizer renders live charts. Active states are highlighted.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the chart.
func (v *DefaultVisualizer) ExportDOT(c *gamechart.Chart) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `digraph %q {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`, c.Name())

	renderState(&buf, c.Root(), "  ")

	for _, edge := range collectEdges(c) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", edge.From, edge.To, edge.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the live state tree and variables.
func (v *DefaultVisualizer) ExportJSON(c *gamechart.Chart) ([]byte, error) {
	return json.MarshalIndent(Inspect(c), "", "  ")
}

// ChartView is a read-only picture of a chart.
type ChartView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Root      StateView      `json:"root"`
	Variables map[string]any `json:"variables,omitempty"`
}

// StateView describes one state of a ChartView.
type StateView struct {
	Name        string           `json:"name"`
	Path        string           `json:"path"`
	Kind        string           `json:"kind"`
	Active      bool             `json:"active"`
	Initial     string           `json:"initial,omitempty"`
	Transitions []TransitionView `json:"transitions,omitempty"`
	Children    []StateView      `json:"children,omitempty"`
}

// TransitionView describes a transition of a StateView.
type TransitionView struct {
	Event string `json:"event,omitempty"`
	To    string `json:"to"`
	Guard string `json:"guard,omitempty"`
}

// Inspect captures c as a ChartView.
func Inspect(c *gamechart.Chart) ChartView {
	return ChartView{
		ID:        c.ID(),
		Name:      c.Name(),
		Version:   c.Version(),
		Root:      inspectState(c.Root()),
		Variables: c.Variables(),
	}
}

func inspectState(s gamechart.State) StateView {
	view := StateView{
		Name:   s.Name(),
		Path:   s.Path(),
		Kind:   kindOf(s),
		Active: s.Active(),
	}
	for _, t := range s.Transitions() {
		view.Transitions = append(view.Transitions, TransitionView{
			Event: t.Event,
			To:    t.To.Path(),
			Guard: guardLabel(t),
		})
	}
	if cs, ok := s.(*gamechart.CompoundState); ok {
		if cs.Initial() != nil {
			view.Initial = cs.Initial().Name()
		}
		for _, child := range cs.Children() {
			view.Children = append(view.Children, inspectState(child))
		}
	}
	return view
}

func kindOf(s gamechart.State) string {
	switch s.(type) {
	case *gamechart.CompoundState:
		return "compound"
	case *gamechart.HistoryState:
		return "history"
	}
	return "atomic"
}

func guardLabel(t *gamechart.Transition) string {
	switch cond := t.Condition.(type) {
	case nil:
		return ""
	case fmt.Stringer:
		return cond.String()
	}
	return "guarded"
}

// Edge represents a transition edge.
type Edge struct {
	From  string
	To    string
	Label string
}

// collectEdges collects all transitions in declaration order.
func collectEdges(c *gamechart.Chart) []Edge {
	var edges []Edge
	for _, s := range c.States() {
		for _, t := range s.Transitions() {
			label := t.Event
			if label == "" {
				label = "auto"
			}
			if g := guardLabel(t); g != "" {
				label += " [" + g + "]"
			}
			edges = append(edges, Edge{From: s.Path(), To: t.To.Path(), Label: label})
		}
	}
	return edges
}

// renderState recursively renders states and subgraphs.
func renderState(buf *bytes.Buffer, s gamechart.State, indent string) {
	cs, ok := s.(*gamechart.CompoundState)
	if !ok {
		attrs := []string{fmt.Sprintf("label=%q", s.Name())}
		if _, history := s.(*gamechart.HistoryState); history {
			attrs = []string{`label="H"`, "shape=circle"}
		}
		if s.Active() {
			attrs = append(attrs, "style=filled", "fillcolor=lightgreen")
		}
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, s.Path(), strings.Join(attrs, " "))
		return
	}

	parentStyle := ""
	if s.Active() {
		parentStyle = " style=filled fillcolor=orange"
	}
	fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+s.Path())
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, s.Name())
	fmt.Fprintf(buf, "%s  %q [label=%q shape=ellipse%s];\n", indent, s.Path(), s.Name(), parentStyle)
	for _, child := range cs.Children() {
		renderState(buf, child, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}
