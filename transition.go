package gamechart

import "fmt"

// Transition is a directed edge from the state that declares it to To.
// An empty Event makes the transition automatic: it is evaluated when the
// source is entered and whenever a chart variable changes. A nil Condition
// is always satisfied.
type Transition struct {
	To        State
	Event     string
	Condition Condition

	source State
}

// NewTransition returns a transition to to, triggered by event and guarded
// by cond.
func NewTransition(to State, event string, cond Condition) *Transition {
	return &Transition{To: to, Event: event, Condition: cond}
}

// Source is the state that declares the transition, nil before the chart
// is built.
func (t *Transition) Source() State { return t.source }

// Chart returns the chart owning the source state.
func (t *Transition) Chart() *Chart {
	if t.source == nil {
		return nil
	}
	return t.source.Chart()
}

// Automatic reports whether the transition has no triggering event.
func (t *Transition) Automatic() bool { return t.Event == "" }

func (t *Transition) String() string {
	from := "?"
	if t.source != nil {
		from = t.source.Path()
	}
	if t.Automatic() {
		return fmt.Sprintf("%s -> %s", from, t.targetPath())
	}
	return fmt.Sprintf("%s -[%s]-> %s", from, t.Event, t.targetPath())
}

// matches reports whether the trigger side of the guard holds: automatic
// transitions match automatic passes, evented ones match their event.
func (t *Transition) matches(event string, propertyChange bool) bool {
	if t.Automatic() {
		return propertyChange
	}
	return !propertyChange && t.Event == event
}

func (t *Transition) satisfied() bool {
	if t.Condition == nil {
		return true
	}
	return t.Condition.IsSatisfied(t)
}

func (t *Transition) targetPath() string {
	if t.To == nil {
		return "<nil>"
	}
	if p := t.To.Path(); p != "" {
		return p
	}
	return t.To.Name()
}
