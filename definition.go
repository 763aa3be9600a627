package gamechart

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/comalice/gamechart/internal/primitives"
)

// LoadYAML builds a chart from a YAML definition. Options given here are
// applied after the ones derived from the definition and override them.
func LoadYAML(data []byte, opts ...Option) (*Chart, error) {
	cfg, err := primitives.DecodeYAML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return fromConfig(cfg, opts...)
}

// LoadFile reads a YAML definition from path and builds a chart from it.
func LoadFile(path string, opts ...Option) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load chart %s: %w", path, err)
	}
	return LoadYAML(data, opts...)
}

// DefinitionYAML encodes the chart's structure, declared events and current
// variable values in the format LoadYAML reads. Conditions that are not
// expressions are written as their Go type and do not round-trip.
func (c *Chart) DefinitionYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(describe(c)); err != nil {
		return nil, fmt.Errorf("encode chart %s: %w", c.name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fromConfig(cfg *primitives.ChartConfig, opts ...Option) (*Chart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	byPath := make(map[string]State)
	root := buildState(cfg.Root(), "", byPath)

	var errs []error
	walkConfig(cfg.Root(), cfg.Root().Name, func(path string, sc *primitives.StateConfig) {
		from := byPath[path]
		for _, tc := range sc.Transitions {
			var cond Condition
			if tc.Guard != "" {
				expr, err := ParseExpression(tc.Guard)
				if err != nil {
					errs = append(errs, fmt.Errorf("%w: state %q: %w", ErrConfiguration, path, err))
					continue
				}
				cond = expr
			}
			from.AddTransition(NewTransition(byPath[tc.To], tc.Event, cond))
		}
	})
	if len(errs) > 0 {
		return nil, errs[0]
	}

	derived := []Option{WithEvents(cfg.Events...)}
	if cfg.Name != "" {
		derived = append(derived, WithName(cfg.Name))
	}
	if cfg.Version != "" {
		derived = append(derived, WithVersion(cfg.Version))
	}
	if cfg.ValidateEvents {
		derived = append(derived, WithEventValidation())
	}
	if cfg.ValidateVariableNames {
		derived = append(derived, WithVariableNameValidation())
	}
	if cfg.ValidateVariableTypes {
		derived = append(derived, WithVariableTypeValidation())
	}
	for _, v := range cfg.Variables {
		// Validate already resolved every variable.
		value, _ := v.Resolve()
		derived = append(derived, WithVariable(v.Name, value))
	}
	return NewChart(root, append(derived, opts...)...)
}

func buildState(sc *primitives.StateConfig, parentPath string, byPath map[string]State) State {
	path := sc.Name
	if parentPath != "" {
		path = parentPath + "." + sc.Name
	}

	var s State
	switch sc.Kind() {
	case primitives.History:
		s = NewHistoryState(sc.Name)
	case primitives.Compound:
		cs := NewCompoundState(sc.Name)
		for _, child := range sc.Children {
			built := buildState(child, path, byPath)
			cs.AddChild(built)
			if child.Name == sc.Initial {
				cs.SetInitial(built)
			}
		}
		s = cs
	default:
		s = NewAtomicState(sc.Name)
	}
	byPath[path] = s
	return s
}

func walkConfig(sc *primitives.StateConfig, path string, fn func(string, *primitives.StateConfig)) {
	fn(path, sc)
	for _, child := range sc.Children {
		walkConfig(child, path+"."+child.Name, fn)
	}
}

// describe captures the chart as a definition. Version is left empty so
// the result can be fingerprinted.
func describe(c *Chart) *primitives.ChartConfig {
	cfg := &primitives.ChartConfig{
		Name:                  c.name,
		Events:                c.Events(),
		ValidateEvents:        c.validateEvents,
		ValidateVariableNames: c.validateNames,
		ValidateVariableTypes: c.validateTypes,
		States:                []*primitives.StateConfig{describeState(c.root)},
	}
	values := c.vars.Snapshot()
	for _, name := range slices.Sorted(maps.Keys(values)) {
		cfg.Variables = append(cfg.Variables, primitives.VariableConfig{
			Name:  name,
			Type:  variableType(values[name]),
			Value: values[name],
		})
	}
	return cfg
}

func describeState(s State) *primitives.StateConfig {
	sc := &primitives.StateConfig{Name: s.Name()}
	switch st := s.(type) {
	case *HistoryState:
		sc.Type = primitives.History
	case *CompoundState:
		sc.Type = primitives.Compound
		if st.initial != nil {
			sc.Initial = st.initial.Name()
		}
		for _, child := range st.children {
			sc.Children = append(sc.Children, describeState(child))
		}
	default:
		sc.Type = primitives.Atomic
	}
	for _, t := range s.Transitions() {
		tc := primitives.TransitionConfig{Event: t.Event, To: t.targetPath()}
		switch cond := t.Condition.(type) {
		case nil:
		case fmt.Stringer:
			tc.Guard = cond.String()
		default:
			tc.Guard = fmt.Sprintf("%T", cond)
		}
		sc.Transitions = append(sc.Transitions, tc)
	}
	return sc
}

func variableType(v any) primitives.VariableType {
	switch v.(type) {
	case int, int8, int16, int32, int64:
		return primitives.Int
	case float32, float64:
		return primitives.Float
	case bool:
		return primitives.Bool
	case string:
		return primitives.String
	}
	return ""
}
