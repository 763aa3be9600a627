package gamechart

import (
	"errors"
	"fmt"

	"github.com/comalice/gamechart/internal/core"
)

// ChartBuilder provides a fluent API for constructing charts from
// dot-separated state names instead of wiring State values by hand.
// Names are relative to the root: "Playing.Alive" is the child Alive of
// the root's child Playing.
type ChartBuilder struct {
	root  *builderNode
	nodes map[string]*builderNode
}

// StateBuilder configures a single state.
type StateBuilder struct {
	b    *ChartBuilder
	node *builderNode
}

type builderKind int

const (
	kindAuto builderKind = iota
	kindCompound
	kindHistory
)

type builderNode struct {
	name        string
	path        string
	kind        builderKind
	initial     string
	children    []*builderNode
	transitions []builderTransition
	onEnter     []func(State)
	onExit      []func(State)
}

type builderTransition struct {
	event  string
	target string
	cond   Condition
}

// NewChartBuilder creates a builder whose root compound state is rootName
// and whose initial child is initial.
func NewChartBuilder(rootName, initial string) *ChartBuilder {
	root := &builderNode{name: rootName, kind: kindCompound, initial: initial}
	return &ChartBuilder{
		root:  root,
		nodes: map[string]*builderNode{"": root},
	}
}

// Root returns the builder for the root state.
func (b *ChartBuilder) Root() *StateBuilder {
	return &StateBuilder{b: b, node: b.root}
}

// State creates or retrieves a state by name. Missing parents are created
// as compound states; their initial child must still be set with Compound.
func (b *ChartBuilder) State(name string) *StateBuilder {
	return &StateBuilder{b: b, node: b.lookup(name)}
}

func (b *ChartBuilder) lookup(name string) *builderNode {
	if n, ok := b.nodes[name]; ok {
		return n
	}
	parentPath, base := core.SplitPath(name)
	parent := b.lookup(parentPath)
	n := &builderNode{name: base, path: name}
	parent.children = append(parent.children, n)
	b.nodes[name] = n
	return n
}

// Build constructs the states and returns the chart. Targets that name no
// declared state are reported as ErrConfiguration.
func (b *ChartBuilder) Build(opts ...Option) (*Chart, error) {
	built := make(map[string]State, len(b.nodes))
	root := b.build(b.root, built)

	var errs []error
	for path, n := range b.nodes {
		from := built[path]
		for _, tr := range n.transitions {
			to, ok := built[tr.target]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: state %q has transition to unknown state %q", ErrConfiguration, from.Name(), tr.target))
				continue
			}
			from.AddTransition(NewTransition(to, tr.event, tr.cond))
		}
		for _, fn := range n.onEnter {
			from.OnEnter(fn)
		}
		for _, fn := range n.onExit {
			from.OnExit(fn)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return NewChart(root, opts...)
}

func (b *ChartBuilder) build(n *builderNode, built map[string]State) State {
	var s State
	switch {
	case n.kind == kindHistory:
		s = NewHistoryState(n.name)
	case n.kind == kindCompound || len(n.children) > 0:
		cs := NewCompoundState(n.name)
		for _, child := range n.children {
			c := b.build(child, built)
			cs.AddChild(c)
			if child.name == n.initial {
				cs.SetInitial(c)
			}
		}
		s = cs
	default:
		s = NewAtomicState(n.name)
	}
	built[n.path] = s
	return s
}

// Compound marks the state as compound with the given initial child.
func (sb *StateBuilder) Compound(initial string) *StateBuilder {
	sb.node.kind = kindCompound
	sb.node.initial = initial
	return sb
}

// History marks the state as a history pseudo-state of its parent.
func (sb *StateBuilder) History() *StateBuilder {
	sb.node.kind = kindHistory
	return sb
}

// On adds a transition to target triggered by event. cond may be nil.
// An empty target names the root.
func (sb *StateBuilder) On(event, target string, cond Condition) *StateBuilder {
	sb.node.transitions = append(sb.node.transitions, builderTransition{event: event, target: target, cond: cond})
	return sb
}

// Auto adds an automatic transition to target guarded by cond.
func (sb *StateBuilder) Auto(target string, cond Condition) *StateBuilder {
	return sb.On("", target, cond)
}

// When adds an automatic transition guarded by a parsed expression such
// as "hp <= 0". It panics on a malformed expression.
func (sb *StateBuilder) When(expr, target string) *StateBuilder {
	return sb.Auto(target, MustParseExpression(expr))
}

// OnEnter registers fn to run when the state is entered.
func (sb *StateBuilder) OnEnter(fn func(State)) *StateBuilder {
	sb.node.onEnter = append(sb.node.onEnter, fn)
	return sb
}

// OnExit registers fn to run when the state is exited.
func (sb *StateBuilder) OnExit(fn func(State)) *StateBuilder {
	sb.node.onExit = append(sb.node.onExit, fn)
	return sb
}

// State continues with another state of the same builder.
func (sb *StateBuilder) State(name string) *StateBuilder {
	return sb.b.State(name)
}

// Build is shorthand for the owning builder's Build.
func (sb *StateBuilder) Build(opts ...Option) (*Chart, error) {
	return sb.b.Build(opts...)
}
