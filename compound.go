package gamechart

import (
	"errors"
	"fmt"
	"slices"

	"github.com/comalice/gamechart/internal/core"
)

// CompoundState is a state with children, exactly one of which is active
// while the compound state is active.
type CompoundState struct {
	stateNode
	initial     State
	children    []State
	histories   []*HistoryState
	activeChild State
}

// NewCompoundState returns a compound state containing children. The
// initial child must be set with SetInitial before the chart is built.
func NewCompoundState(name string, children ...State) *CompoundState {
	s := &CompoundState{stateNode: stateNode{name: name}}
	for _, c := range children {
		s.AddChild(c)
	}
	return s
}

// AddChild appends a child state.
func (s *CompoundState) AddChild(child State) *CompoundState {
	s.children = append(s.children, child)
	return s
}

// SetInitial sets the child entered when the compound state is entered.
func (s *CompoundState) SetInitial(child State) *CompoundState {
	s.initial = child
	return s
}

// Initial returns the initial child.
func (s *CompoundState) Initial() State { return s.initial }

// Children returns the declared children in order.
func (s *CompoundState) Children() []State { return slices.Clone(s.children) }

// ActiveChild returns the active child, nil while the state is inactive.
func (s *CompoundState) ActiveChild() State { return s.activeChild }

// Child returns the direct child named name.
func (s *CompoundState) Child(name string) (State, bool) {
	for _, c := range s.children {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

func (s *CompoundState) Initialize(chart *Chart, parent *CompoundState) error {
	if err := s.initialize(s, chart, parent); err != nil {
		return err
	}
	s.activeChild = nil
	s.histories = s.histories[:0]

	var errs []error
	seen := make(map[string]bool, len(s.children))
	for i, c := range s.children {
		if c == nil {
			errs = append(errs, fmt.Errorf("%w: %q child %d is nil", ErrConfiguration, s.path, i))
			continue
		}
		if seen[c.Name()] {
			errs = append(errs, fmt.Errorf("%w: %q has duplicate child %q", ErrConfiguration, s.path, c.Name()))
		}
		seen[c.Name()] = true
		if h, ok := c.(*HistoryState); ok {
			s.histories = append(s.histories, h)
		}
		if err := c.Initialize(chart, s); err != nil {
			errs = append(errs, err)
		}
	}

	switch {
	case s.initial == nil:
		errs = append(errs, fmt.Errorf("%w: compound state %q has no initial state", ErrConfiguration, s.path))
	case !slices.Contains(s.children, s.initial):
		errs = append(errs, fmt.Errorf("%w: initial state %q is not a child of %q", ErrConfiguration, s.initial.Name(), s.path))
	default:
		if _, ok := s.initial.(*HistoryState); ok {
			errs = append(errs, fmt.Errorf("%w: initial state of %q is a history state", ErrConfiguration, s.path))
		}
	}
	return errors.Join(errs...)
}

// Enter activates the state and, unless transit is set, its initial child.
func (s *CompoundState) Enter(transit bool) error {
	if err := s.enter(); err != nil {
		return err
	}
	if transit {
		return nil
	}
	return s.switchTo(s.initial, false)
}

// Exit records history, exits the active child, then the state itself.
func (s *CompoundState) Exit() {
	if !s.Active() {
		return
	}
	if len(s.histories) > 0 {
		if rec, err := s.SaveHistory(); err == nil {
			for _, h := range s.histories {
				h.store(rec)
			}
		}
	}
	if s.activeChild != nil {
		s.activeChild.Exit()
		s.activeChild = nil
	}
	s.exit()
}

// ProcessTransitions gives the active child the first chance to handle the
// event; only when nothing below handled it are the state's own transitions
// scanned.
func (s *CompoundState) ProcessTransitions(event string, propertyChange bool) bool {
	if !s.Active() {
		return false
	}
	if child := s.activeChild; child != nil && child.ProcessTransitions(event, propertyChange) {
		return true
	}
	return s.processOwn(event, propertyChange)
}

// HandleTransition routes t toward its target:
//   - the target is this state: exit and re-enter it;
//   - the target is a direct child: switch to it;
//   - the target lies below a child: switch to that child in transit mode
//     and let it route further down;
//   - otherwise the target is outside this subtree and the parent routes it.
func (s *CompoundState) HandleTransition(t *Transition, source State) error {
	target := t.To
	switch {
	case target == State(s):
		s.Exit()
		return s.Enter(false)

	case target.Parent() == s:
		if h, ok := target.(*HistoryState); ok {
			return s.restoreFrom(h)
		}
		return s.switchTo(target, false)
	}

	if child := s.childContaining(target); child != nil {
		if child != s.activeChild {
			if err := s.switchTo(child, true); err != nil {
				return err
			}
		}
		return child.HandleTransition(t, source)
	}

	if s.parent == nil {
		return fmt.Errorf("%w: target %q not reachable from %q", ErrConfiguration, t.targetPath(), s.path)
	}
	return s.parent.HandleTransition(t, source)
}

// SaveHistory records each active child together with its own history.
func (s *CompoundState) SaveHistory() (StateRecord, error) {
	if !s.Active() {
		return StateRecord{}, fmt.Errorf("%w: save history of inactive state %q", ErrInvalidOperation, s.path)
	}
	rec := StateRecord{Active: make(map[State]StateRecord, 1)}
	for _, c := range s.children {
		if !c.Active() {
			continue
		}
		cr, err := c.SaveHistory()
		if err != nil {
			return StateRecord{}, err
		}
		rec.Active[c] = cr
	}
	return rec, nil
}

// RestoreHistory enters the state if needed, then exits children missing
// from record before restoring the recorded ones, so at most one child is
// active at any point. An empty record leaves the active child alone.
func (s *CompoundState) RestoreHistory(record StateRecord) error {
	if err := s.checkRecord(record); err != nil {
		return err
	}
	if !s.Active() {
		if err := s.activate(len(record.Active) > 0); err != nil {
			return err
		}
	}
	if len(record.Active) == 0 {
		return nil
	}

	for _, c := range s.children {
		if _, keep := record.Active[c]; keep || !c.Active() {
			continue
		}
		c.Exit()
		if s.activeChild == c {
			s.activeChild = nil
		}
	}
	for _, c := range s.children {
		cr, ok := record.Active[c]
		if !ok {
			continue
		}
		if err := c.RestoreHistory(cr); err != nil {
			return err
		}
	}
	return nil
}

// checkRecord rejects records that name anything but a single regular child.
func (s *CompoundState) checkRecord(record StateRecord) error {
	if len(record.Active) > 1 {
		return fmt.Errorf("%w: record for %q names %d active children", ErrInvalidOperation, s.path, len(record.Active))
	}
	for c := range record.Active {
		if _, ok := c.(*HistoryState); ok || !slices.Contains(s.children, c) {
			return fmt.Errorf("%w: record for %q names %q, not one of its children", ErrInvalidOperation, s.path, c.Path())
		}
	}
	return nil
}

// switchTo exits the active child and enters child in its place.
func (s *CompoundState) switchTo(child State, transit bool) error {
	if s.activeChild != nil {
		s.activeChild.Exit()
	}
	s.activeChild = child
	return child.Enter(transit)
}

// restoreFrom routes a transition that targets one of the state's history
// children. Without a record it falls back to the initial state.
func (s *CompoundState) restoreFrom(h *HistoryState) error {
	if rec, ok := h.Record(); ok {
		return s.RestoreHistory(rec)
	}
	return s.switchTo(s.initial, false)
}

func (s *CompoundState) childContaining(target State) State {
	for _, c := range s.children {
		if core.IsDescendant(target.Path(), c.Path()) {
			return c
		}
	}
	return nil
}
