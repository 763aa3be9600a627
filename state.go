package gamechart

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/comalice/gamechart/internal/core"
)

// State is a node of the chart hierarchy. The engine drives Enter, Exit,
// ProcessTransitions and HandleTransition; hosts read Active and subscribe
// to OnEnter/OnExit.
//
// The interface is sealed: AtomicState, CompoundState and HistoryState are
// the only implementations.
type State interface {
	// Name is the state's name, unique among its siblings.
	Name() string
	// Path is the dot separated path from the root, e.g. "Game.Playing.Alive".
	Path() string
	// Active reports whether the state lies on the active path.
	Active() bool
	// Parent is the enclosing compound state, nil for the root.
	Parent() *CompoundState
	// Chart is the owning chart, nil until the chart is built.
	Chart() *Chart
	// Transitions returns the outgoing transitions in priority order.
	Transitions() []*Transition

	// AddTransition declares an outgoing transition. Declaration order is
	// priority order. Must be called before the chart is built.
	AddTransition(t *Transition)
	// OnEnter registers fn to run each time the state is entered.
	OnEnter(fn func(State))
	// OnExit registers fn to run each time the state is exited.
	OnExit(fn func(State))

	// Initialize binds the state to its chart and parent, resets it to
	// inactive and snapshots its transitions. Runs top-down once per build.
	Initialize(chart *Chart, parent *CompoundState) error
	// Enter activates the state. transit suppresses initial-state entry
	// on compound states when a deeper target is about to be routed.
	Enter(transit bool) error
	// Exit deactivates the state and its active descendants.
	Exit()
	// ProcessTransitions resolves transitions for event (or for automatic
	// transitions when propertyChange is set), innermost state first.
	// At most one transition fires per call.
	ProcessTransitions(event string, propertyChange bool) bool
	// HandleTransition routes an executing transition toward its target.
	HandleTransition(t *Transition, source State) error
	// SaveHistory records the active descendants of an active state.
	SaveHistory() (StateRecord, error)
	// RestoreHistory forces the active descendants to match record.
	RestoreHistory(record StateRecord) error

	node() *stateNode
}

// stateNode carries what every state kind shares.
type stateNode struct {
	name     string
	path     string
	self     State
	chart    *Chart
	parent   *CompoundState
	active   atomic.Bool
	declared []*Transition

	transitions []*Transition
	onEnter     []func(State)
	onExit      []func(State)
}

func (n *stateNode) node() *stateNode { return n }

func (n *stateNode) Name() string { return n.name }

func (n *stateNode) Path() string { return n.path }

func (n *stateNode) Active() bool { return n.active.Load() }

func (n *stateNode) Parent() *CompoundState { return n.parent }

func (n *stateNode) Chart() *Chart { return n.chart }

func (n *stateNode) Transitions() []*Transition {
	if n.chart == nil {
		return slices.Clone(n.declared)
	}
	return slices.Clone(n.transitions)
}

func (n *stateNode) AddTransition(t *Transition) {
	n.declared = append(n.declared, t)
}

func (n *stateNode) OnEnter(fn func(State)) {
	n.onEnter = append(n.onEnter, fn)
}

func (n *stateNode) OnExit(fn func(State)) {
	n.onExit = append(n.onExit, fn)
}

func (n *stateNode) String() string {
	if n.path != "" {
		return n.path
	}
	return n.name
}

// initialize binds the node and validates what does not depend on the rest
// of the tree. Transition targets are checked by the chart afterwards.
func (n *stateNode) initialize(self State, chart *Chart, parent *CompoundState) error {
	if n.name == "" {
		return fmt.Errorf("%w: state with empty name", ErrConfiguration)
	}
	if strings.Contains(n.name, core.Separator) {
		return fmt.Errorf("%w: state name %q contains %q", ErrConfiguration, n.name, core.Separator)
	}
	if n.chart != nil && n.chart != chart {
		return fmt.Errorf("%w: state %q already belongs to another chart", ErrConfiguration, n.path)
	}

	n.self = self
	n.chart = chart
	n.parent = parent
	if parent != nil {
		n.path = core.JoinPath(parent.path, n.name)
	} else {
		n.path = n.name
	}
	n.active.Store(false)

	n.transitions = slices.Clone(n.declared)
	for i, t := range n.transitions {
		if t == nil {
			return fmt.Errorf("%w: state %q transition %d is nil", ErrConfiguration, n.path, i)
		}
		t.source = self
	}
	return nil
}

// enter marks the node active, notifies, then fires the first satisfied
// automatic transition.
func (n *stateNode) enter() error {
	if n.chart == nil {
		return fmt.Errorf("%w: state %q is not part of a built chart", ErrNotReady, n.name)
	}
	n.active.Store(true)
	n.chart.stateEntered(n.self)

	for _, t := range n.transitions {
		if t.Automatic() && t.satisfied() {
			n.chart.runTransition(t, n.self)
			break
		}
	}
	return nil
}

func (n *stateNode) exit() {
	n.active.Store(false)
	n.chart.stateExited(n.self)
}

// processOwn scans the node's own transitions in declaration order.
func (n *stateNode) processOwn(event string, propertyChange bool) bool {
	for _, t := range n.transitions {
		if !t.matches(event, propertyChange) || !t.satisfied() {
			continue
		}
		n.chart.runTransition(t, n.self)
		return true
	}
	return false
}

// activate makes the node its parent's active child, exiting the previous
// one. Root nodes are entered directly.
func (n *stateNode) activate(transit bool) error {
	if n.parent == nil {
		return n.self.Enter(transit)
	}
	if !n.parent.Active() {
		return fmt.Errorf("%w: parent %q of %q is inactive", ErrInvalidOperation, n.parent.path, n.path)
	}
	return n.parent.switchTo(n.self, transit)
}

// AtomicState is a leaf state.
type AtomicState struct {
	stateNode
}

// NewAtomicState returns a leaf state named name.
func NewAtomicState(name string) *AtomicState {
	return &AtomicState{stateNode: stateNode{name: name}}
}

func (s *AtomicState) Initialize(chart *Chart, parent *CompoundState) error {
	return s.initialize(s, chart, parent)
}

func (s *AtomicState) Enter(bool) error {
	return s.enter()
}

func (s *AtomicState) Exit() {
	if s.Active() {
		s.exit()
	}
}

func (s *AtomicState) ProcessTransitions(event string, propertyChange bool) bool {
	if !s.Active() {
		return false
	}
	return s.processOwn(event, propertyChange)
}

// HandleTransition delegates to the parent: a leaf never contains a target.
func (s *AtomicState) HandleTransition(t *Transition, source State) error {
	if s.parent == nil {
		return fmt.Errorf("%w: target %q not reachable from %q", ErrConfiguration, t.targetPath(), s.path)
	}
	return s.parent.HandleTransition(t, source)
}

func (s *AtomicState) SaveHistory() (StateRecord, error) {
	if !s.Active() {
		return StateRecord{}, fmt.Errorf("%w: save history of inactive state %q", ErrInvalidOperation, s.path)
	}
	return StateRecord{}, nil
}

func (s *AtomicState) RestoreHistory(StateRecord) error {
	if s.Active() {
		return nil
	}
	return s.activate(false)
}
