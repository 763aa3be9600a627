package primitives

import "testing"

func TestComputeVersion(t *testing.T) {
	build := func() *ChartConfig {
		root := NewStateConfig("Game", Compound).WithInitial("Menu")
		root.State("Menu")
		return &ChartConfig{Name: "game", States: []*StateConfig{root}}
	}

	a, b := ComputeVersion(build()), ComputeVersion(build())
	if a != b {
		t.Errorf("equal definitions gave %q and %q", a, b)
	}
	if len(a) != 16 {
		t.Errorf("fingerprint %q should be 16 hex chars", a)
	}

	changed := build()
	changed.States[0].State("Playing")
	if ComputeVersion(changed) == a {
		t.Error("changed definition kept the same fingerprint")
	}

	pinned := build()
	pinned.Version = "v2"
	if got := ComputeVersion(pinned); got != "v2" {
		t.Errorf("explicit version ignored: %q", got)
	}
}
