package gamechart_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	. "github.com/comalice/gamechart"
)

func TestReactionFiresOnlyWhileParentActive(t *testing.T) {
	c, _ := newGame(t)
	alive := mustFind(t, c, "Game.Playing.Alive")

	calls := 0
	r, err := NewReaction(alive, func() { calls++ })
	if err != nil {
		t.Fatal(err)
	}
	if r.Parent() != alive {
		t.Error("Parent mismatch")
	}

	if !r.Trigger() {
		t.Error("should fire while Alive is active")
	}
	_ = c.SendEvent("defeat")
	if r.Trigger() {
		t.Error("should not fire while Alive is inactive")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestReactionCondition(t *testing.T) {
	c, _ := newGame(t)
	alive := mustFind(t, c, "Game.Playing.Alive")

	r, err := NewReaction(alive, func() {}, WithCondition(MustParseExpression("hp > 5")))
	if err != nil {
		t.Fatal(err)
	}
	if !r.Trigger() {
		t.Error("hp=10 should satisfy hp > 5")
	}
	_ = c.SetVariable("hp", 3)
	if r.Trigger() {
		t.Error("hp=3 should not satisfy hp > 5")
	}
}

func TestValueAndPairReactions(t *testing.T) {
	c, _ := newGame(t)
	playing := mustFind(t, c, "Game.Playing")

	var total time.Duration
	tick, err := NewValueReaction(playing, func(d time.Duration) { total += d })
	if err != nil {
		t.Fatal(err)
	}
	var hits []string
	hit, err := NewPairReaction(playing, func(who string, dmg int) {
		hits = append(hits, who)
		_ = c.SetVariable("hp", 10-dmg)
	})
	if err != nil {
		t.Fatal(err)
	}

	tick.Trigger(16 * time.Millisecond)
	tick.Trigger(16 * time.Millisecond)
	hit.Trigger("orc", 10)

	if total != 32*time.Millisecond {
		t.Errorf("total = %v", total)
	}
	if !slices.Equal(hits, []string{"orc"}) {
		t.Errorf("hits = %v", hits)
	}
	if got := leaf(t, c); got != "Game.Playing.Dead" {
		t.Errorf("leaf = %s", got)
	}

	_ = c.SendEvent("pause")
	if tick.Trigger(time.Second) {
		t.Error("tick fired while paused")
	}
}

func TestEventReaction(t *testing.T) {
	c, _ := newGame(t)
	alive := mustFind(t, c, "Game.Playing.Alive")

	var seen []string
	r, err := NewEventReaction(alive, "", func(e string) { seen = append(seen, e) })
	if err != nil {
		t.Fatal(err)
	}
	detach := r.Attach(c)

	_ = c.SendEvent("jump")
	_ = c.SendEvent("defeat") // seen: Alive is live when the event arrives
	_ = c.SendEvent("revive") // not seen: Dead is live
	detach()
	_ = c.SendEvent("jump")

	if !slices.Equal(seen, []string{"jump", "defeat"}) {
		t.Errorf("seen = %v", seen)
	}

	named, err := NewEventReaction(alive, "jump", func(string) {})
	if err != nil {
		t.Fatal(err)
	}
	if named.Trigger("duck") {
		t.Error("named reaction fired on another event")
	}
	if !named.Trigger("jump") {
		t.Error("named reaction should fire on its event")
	}
}

func TestReactionConfigurationErrors(t *testing.T) {
	if _, err := NewReaction(nil, func() {}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("nil parent: got %v", err)
	}
	if _, err := NewReaction(NewAtomicState("A"), nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("nil callback: got %v", err)
	}
	if _, err := NewValueReaction[int](nil, func(int) {}); !errors.Is(err, ErrConfiguration) {
		t.Errorf("value reaction nil parent: got %v", err)
	}
}
