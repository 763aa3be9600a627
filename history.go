package gamechart

import (
	"fmt"
	"slices"
	"sync"
)

// StateRecord is a recursive snapshot of active states: for one state, the
// children that were active and, for each of them, their own record.
type StateRecord struct {
	Active map[State]StateRecord
}

// Paths returns the path of every recorded state, sorted.
func (r StateRecord) Paths() []string {
	var paths []string
	var walk func(StateRecord)
	walk = func(rec StateRecord) {
		for s, child := range rec.Active {
			paths = append(paths, s.Path())
			walk(child)
		}
	}
	walk(r)
	slices.Sort(paths)
	return paths
}

// Equal reports whether r and other record the same states.
func (r StateRecord) Equal(other StateRecord) bool {
	if len(r.Active) != len(other.Active) {
		return false
	}
	for s, child := range r.Active {
		oc, ok := other.Active[s]
		if !ok || !child.Equal(oc) {
			return false
		}
	}
	return true
}

// validateRecord checks record against the subtree rooted at s before
// anything is changed.
func validateRecord(s State, record StateRecord) error {
	cs, ok := s.(*CompoundState)
	if !ok {
		if len(record.Active) > 0 {
			return fmt.Errorf("%w: record for %q names children of a state without any", ErrInvalidOperation, s.Path())
		}
		return nil
	}
	if err := cs.checkRecord(record); err != nil {
		return err
	}
	for child, rec := range record.Active {
		if err := validateRecord(child, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r StateRecord) clone() StateRecord {
	if r.Active == nil {
		return StateRecord{}
	}
	out := StateRecord{Active: make(map[State]StateRecord, len(r.Active))}
	for s, child := range r.Active {
		out.Active[s] = child.clone()
	}
	return out
}

// HistoryState is a pseudo-state inside a compound state. It is never
// entered; the parent saves its configuration into it on exit and a
// transition targeting it restores that configuration.
type HistoryState struct {
	stateNode

	mu     sync.Mutex
	record *StateRecord
}

// NewHistoryState returns a history pseudo-state named name.
func NewHistoryState(name string) *HistoryState {
	return &HistoryState{stateNode: stateNode{name: name}}
}

func (s *HistoryState) Initialize(chart *Chart, parent *CompoundState) error {
	if err := s.initialize(s, chart, parent); err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("%w: history state %q must be inside a compound state", ErrConfiguration, s.path)
	}
	if len(s.transitions) > 0 {
		return fmt.Errorf("%w: history state %q cannot have transitions", ErrConfiguration, s.path)
	}
	s.Clear()
	return nil
}

func (s *HistoryState) Enter(bool) error {
	return fmt.Errorf("%w: history state %q cannot be entered", ErrInvalidOperation, s.path)
}

func (s *HistoryState) Exit() {}

func (s *HistoryState) ProcessTransitions(string, bool) bool { return false }

func (s *HistoryState) HandleTransition(t *Transition, _ State) error {
	return fmt.Errorf("%w: history state %q cannot route transition to %q", ErrInvalidOperation, s.path, t.targetPath())
}

func (s *HistoryState) SaveHistory() (StateRecord, error) {
	return StateRecord{}, fmt.Errorf("%w: history state %q is never active", ErrInvalidOperation, s.path)
}

func (s *HistoryState) RestoreHistory(StateRecord) error {
	return fmt.Errorf("%w: history state %q cannot be restored into", ErrInvalidOperation, s.path)
}

// Record returns the stored configuration of the parent state.
func (s *HistoryState) Record() (StateRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return StateRecord{}, false
	}
	return s.record.clone(), true
}

// Save snapshots the parent's current configuration.
func (s *HistoryState) Save() error {
	if s.parent == nil {
		return fmt.Errorf("%w: history state %q is not part of a built chart", ErrNotReady, s.name)
	}
	rec, err := s.parent.SaveHistory()
	if err != nil {
		return err
	}
	s.store(rec)
	return nil
}

// Restore forces the parent back into the stored configuration.
func (s *HistoryState) Restore() error {
	rec, ok := s.Record()
	if !ok {
		return fmt.Errorf("%w: history state %q has no record", ErrInvalidOperation, s.path)
	}
	return s.chart.RestoreHistory(s.parent, rec)
}

// Clear forgets the stored configuration.
func (s *HistoryState) Clear() {
	s.mu.Lock()
	s.record = nil
	s.mu.Unlock()
}

func (s *HistoryState) store(rec StateRecord) {
	rec = rec.clone()
	s.mu.Lock()
	s.record = &rec
	s.mu.Unlock()
}

