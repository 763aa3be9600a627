package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// StateType is the kind of a configured state.
type StateType string

const (
	Atomic   StateType = "atomic"
	Compound StateType = "compound"
	History  StateType = "history"
)

// StateConfig defines one state and, for compound states, its children.
type StateConfig struct {
	Name        string             `json:"name" yaml:"name"`
	Type        StateType          `json:"type,omitempty" yaml:"type,omitempty"`
	Initial     string             `json:"initial,omitempty" yaml:"initial,omitempty"`
	Transitions []TransitionConfig `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	Children    []*StateConfig     `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewStateConfig creates a StateConfig with name and type.
func NewStateConfig(name string, typ StateType) *StateConfig {
	return &StateConfig{Name: name, Type: typ}
}

// WithInitial sets the initial child name.
func (s *StateConfig) WithInitial(initial string) *StateConfig {
	s.Initial = initial
	return s
}

// AddChild appends a child state.
func (s *StateConfig) AddChild(child *StateConfig) *StateConfig {
	s.Children = append(s.Children, child)
	return s
}

// State creates a child (atomic unless typ says otherwise) and returns it.
func (s *StateConfig) State(name string, typ ...StateType) *StateConfig {
	t := Atomic
	if len(typ) > 0 {
		t = typ[0]
	}
	child := NewStateConfig(name, t)
	s.AddChild(child)
	return child
}

// Transition adds a transition to the state path to, triggered by event and
// guarded by the optional guard expression.
func (s *StateConfig) Transition(event, to string, guard ...string) *StateConfig {
	t := TransitionConfig{Event: event, To: to}
	if len(guard) > 0 {
		t.Guard = guard[0]
	}
	s.Transitions = append(s.Transitions, t)
	return s
}

// Kind returns the declared type, inferring compound for states with
// children and atomic otherwise.
func (s *StateConfig) Kind() StateType {
	if s.Type != "" {
		return s.Type
	}
	if len(s.Children) > 0 {
		return Compound
	}
	return Atomic
}

// Validate checks the state and its descendants. Transition targets are
// checked by ChartConfig.Validate, which knows the whole tree.
func (s *StateConfig) Validate() error {
	if s.Name == "" {
		return errors.New("state name is required")
	}
	if strings.Contains(s.Name, ".") {
		return fmt.Errorf("state name %q cannot contain '.'", s.Name)
	}

	var errs []error
	switch s.Kind() {
	case Atomic:
		if s.Initial != "" {
			errs = append(errs, fmt.Errorf("atomic state %s cannot have an initial state", s.Name))
		}
		if len(s.Children) > 0 {
			errs = append(errs, fmt.Errorf("atomic state %s cannot have children", s.Name))
		}
	case Compound:
		if len(s.Children) == 0 {
			errs = append(errs, fmt.Errorf("compound state %s requires children", s.Name))
		}
		if s.Initial == "" {
			errs = append(errs, fmt.Errorf("compound state %s requires an initial state", s.Name))
		} else if child := s.child(s.Initial); child == nil {
			errs = append(errs, fmt.Errorf("initial state %q not found in children of %s", s.Initial, s.Name))
		} else if child.Kind() == History {
			errs = append(errs, fmt.Errorf("initial state of %s cannot be a history state", s.Name))
		}
	case History:
		if len(s.Children) > 0 || s.Initial != "" {
			errs = append(errs, fmt.Errorf("history state %s cannot have children", s.Name))
		}
		if len(s.Transitions) > 0 {
			errs = append(errs, fmt.Errorf("history state %s cannot have transitions", s.Name))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid state type %q for state %s", s.Type, s.Name))
	}

	for i, t := range s.Transitions {
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("state %s transition %d: %w", s.Name, i, err))
		}
	}

	seen := make(map[string]bool, len(s.Children))
	for i, child := range s.Children {
		if child == nil {
			errs = append(errs, fmt.Errorf("child %d of %s is nil", i, s.Name))
			continue
		}
		if seen[child.Name] {
			errs = append(errs, fmt.Errorf("duplicate child %q in %s", child.Name, s.Name))
		}
		seen[child.Name] = true
		if err := child.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("child %q of %s: %w", child.Name, s.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *StateConfig) child(name string) *StateConfig {
	for _, c := range s.Children {
		if c != nil && c.Name == name {
			return c
		}
	}
	return nil
}
