package primitives

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChartConfig is a complete chart definition.
type ChartConfig struct {
	Version               string           `json:"version,omitempty" yaml:"version,omitempty"`
	Name                  string           `json:"name,omitempty" yaml:"name,omitempty"`
	Events                []string         `json:"events,omitempty" yaml:"events,omitempty"`
	Variables             []VariableConfig `json:"variables,omitempty" yaml:"variables,omitempty"`
	ValidateEvents        bool             `json:"validateEvents,omitempty" yaml:"validateEvents,omitempty"`
	ValidateVariableNames bool             `json:"validateVariableNames,omitempty" yaml:"validateVariableNames,omitempty"`
	ValidateVariableTypes bool             `json:"validateVariableTypes,omitempty" yaml:"validateVariableTypes,omitempty"`
	States                []*StateConfig   `json:"states" yaml:"states"`
}

// DecodeYAML reads a ChartConfig from r. Unknown fields are rejected.
func DecodeYAML(r io.Reader) (*ChartConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg ChartConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode chart yaml: %w", err)
	}
	return &cfg, nil
}

// Root returns the single top-level state, nil if there is not exactly one.
func (c *ChartConfig) Root() *StateConfig {
	if len(c.States) != 1 {
		return nil
	}
	return c.States[0]
}

// Validate checks the whole definition:
// - exactly one top-level state
// - every state validates (recursive)
// - events are unique and non-empty
// - variables are unique and their values match their types
// - every transition target exists and, under event validation, every
//   transition event is declared
func (c *ChartConfig) Validate() error {
	switch len(c.States) {
	case 0:
		return errors.New("a root state is required")
	case 1:
	default:
		names := make([]string, 0, len(c.States))
		for _, s := range c.States {
			if s != nil {
				names = append(names, s.Name)
			}
		}
		return fmt.Errorf("exactly one root state is allowed, got %d (%s)", len(c.States), strings.Join(names, ", "))
	}
	root := c.States[0]
	if root == nil {
		return errors.New("root state is nil")
	}

	var errs []error
	if err := root.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("state %q: %w", root.Name, err))
	}

	events := make(map[string]bool, len(c.Events))
	for _, e := range c.Events {
		if strings.TrimSpace(e) == "" {
			errs = append(errs, errors.New("empty event name"))
			continue
		}
		if events[e] {
			errs = append(errs, fmt.Errorf("duplicate event %q", e))
		}
		events[e] = true
	}

	vars := make(map[string]bool, len(c.Variables))
	for _, v := range c.Variables {
		if v.Name == "" {
			errs = append(errs, errors.New("variable name is required"))
			continue
		}
		if vars[v.Name] {
			errs = append(errs, fmt.Errorf("duplicate variable %q", v.Name))
		}
		vars[v.Name] = true
		if _, err := v.Resolve(); err != nil {
			errs = append(errs, err)
		}
	}

	c.walk(root, root.Name, func(path string, s *StateConfig) {
		for i, t := range s.Transitions {
			if t.To != "" {
				if _, err := c.FindState(t.To); err != nil {
					errs = append(errs, fmt.Errorf("invalid transition target %q (state %q, transition %d): %w", t.To, path, i, err))
				}
			}
			if c.ValidateEvents && !t.Automatic() && !events[t.Event] {
				errs = append(errs, fmt.Errorf("transition %d of %q uses undeclared event %q", i, path, t.Event))
			}
		}
	})
	return errors.Join(errs...)
}

// FindState resolves a full dot path such as "Game.Playing.Alive".
func (c *ChartConfig) FindState(path string) (*StateConfig, error) {
	if path == "" {
		return nil, errors.New("path cannot be empty")
	}
	root := c.Root()
	if root == nil {
		return nil, errors.New("chart has no single root state")
	}
	segments := strings.Split(path, ".")
	if segments[0] != root.Name {
		return nil, fmt.Errorf("state %q not found", segments[0])
	}
	current := root
	for i := 1; i < len(segments); i++ {
		next := current.child(segments[i])
		if next == nil {
			return nil, fmt.Errorf("child %q not found in %q", segments[i], strings.Join(segments[:i], "."))
		}
		current = next
	}
	return current, nil
}

func (c *ChartConfig) walk(s *StateConfig, path string, fn func(string, *StateConfig)) {
	fn(path, s)
	for _, child := range s.Children {
		if child != nil {
			c.walk(child, path+"."+child.Name, fn)
		}
	}
}
