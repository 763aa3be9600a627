// Package benchmarks provides performance benchmarks for chart transitions.
package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/gamechart"
)

func startChart(b *testing.B, c *gamechart.Chart, err error) *gamechart.Chart {
	b.Helper()
	if err != nil {
		b.Fatal(err)
	}
	if err := c.Start(); err != nil {
		b.Fatal(err)
	}
	return c
}

func sendTicks(b *testing.B, c *gamechart.Chart) {
	b.Helper()
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := c.SendEvent("tick"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSimpleTransition(b *testing.B) {
	gb := gamechart.NewChartBuilder("simple", "idle")
	gb.State("idle").On("tick", "idle", nil)
	c, err := gb.Build()
	sendTicks(b, startChart(b, c, err))
}

func BenchmarkHierarchicalTransition(b *testing.B) {
	c, err := GenDeepChart(2)
	sendTicks(b, startChart(b, c, err))
}

func BenchmarkDeepTransition(b *testing.B) {
	for _, depth := range []int{5, 10, 20} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			c, err := GenDeepChart(depth)
			sendTicks(b, startChart(b, c, err))
		})
	}
}

func BenchmarkGuardedTransition(b *testing.B) {
	for _, n := range []int{1, 10, 50} {
		b.Run(fmt.Sprintf("transitions=%d", n), func(b *testing.B) {
			c, err := GenWideChart(n)
			sendTicks(b, startChart(b, c, err))
		})
	}
}

func BenchmarkPropertyChange(b *testing.B) {
	gb := gamechart.NewChartBuilder("property", "low")
	gb.State("low").When("level >= 1", "high")
	gb.State("high").When("level <= 0", "low")
	c, err := gb.Build(gamechart.WithVariable("level", 0))
	startChart(b, c, err)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := c.SetVariable("level", i%2); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHistoryRoundTrip(b *testing.B) {
	c, err := GenDeepChart(5)
	startChart(b, c, err)
	if err := c.SendEvent("tick"); err != nil {
		b.Fatal(err)
	}
	root := c.Root()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rec, err := root.SaveHistory()
		if err != nil {
			b.Fatal(err)
		}
		if err := c.RestoreHistory(root, rec); err != nil {
			b.Fatal(err)
		}
	}
}
