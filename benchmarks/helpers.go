// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/gamechart"
	"github.com/comalice/gamechart/internal/production"
)

// GenFlatChart creates a flat chart with n atomic states cycling via "tick" events.
func GenFlatChart(n int, opts ...gamechart.Option) (*gamechart.Chart, error) {
	if n < 1 {
		n = 1
	}
	b := gamechart.NewChartBuilder(fmt.Sprintf("flat_%d", n), "s0")
	for i := 0; i < n; i++ {
		b.State(fmt.Sprintf("s%d", i)).On("tick", fmt.Sprintf("s%d", (i+1)%n), nil)
	}
	return b.Build(opts...)
}

// GenDeepChart creates a nested hierarchy of depth compound states whose
// innermost leaves flip on "tick". Every level also owns a history state.
func GenDeepChart(depth int, opts ...gamechart.Option) (*gamechart.Chart, error) {
	if depth < 1 {
		depth = 1
	}
	b := gamechart.NewChartBuilder(fmt.Sprintf("deep_%d", depth), "c1")
	path := ""
	for i := 1; i < depth; i++ {
		path = join(path, fmt.Sprintf("c%d", i))
		next := "leaf1"
		if i < depth-1 {
			next = fmt.Sprintf("c%d", i+1)
		}
		b.State(path).Compound(next)
		b.State(join(path, "H")).History()
	}
	b.State(join(path, "leaf1")).On("tick", join(path, "leaf2"), nil)
	b.State(join(path, "leaf2")).On("tick", join(path, "leaf1"), nil)
	if depth == 1 {
		b.Root().Compound("leaf1")
	}
	return b.Build(opts...)
}

// GenWideChart creates one main state with many guarded "tick" transitions.
// Only the last one is satisfied, so every event scans them all.
func GenWideChart(numTransitions int, opts ...gamechart.Option) (*gamechart.Chart, error) {
	if numTransitions < 1 {
		numTransitions = 1
	}
	b := gamechart.NewChartBuilder(fmt.Sprintf("wide_%d", numTransitions), "main")
	main := b.State("main")
	for i := 0; i < numTransitions; i++ {
		target := fmt.Sprintf("target%d", i)
		guard := gamechart.MustParseExpression(fmt.Sprintf("pick == %d", i))
		main.On("tick", target, guard)
		b.State(target).On("tick", "main", nil)
	}
	opts = append([]gamechart.Option{gamechart.WithVariable("pick", numTransitions-1)}, opts...)
	return b.Build(opts...)
}

// GenSnapshotYAML captures a started chart after one event and returns
// the snapshot as YAML.
func GenSnapshotYAML(numStates int, hierarchical bool) []byte {
	var (
		c   *gamechart.Chart
		err error
	)
	if hierarchical {
		c, err = GenDeepChart(5)
	} else {
		c, err = GenFlatChart(numStates)
	}
	if err != nil {
		panic(err)
	}
	if err := c.Start(); err != nil {
		panic(err)
	}
	if err := c.SendEvent("tick"); err != nil {
		panic(err)
	}
	snap, err := production.Capture(c)
	if err != nil {
		panic(err)
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		panic(err)
	}
	return data
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
