package gamechart

import "fmt"

// reactionBinding ties a reaction to its parent state and optional
// condition. The condition sees a transition-shaped probe whose source is
// the parent, so Expression and other chart-reading conditions work
// unchanged.
type reactionBinding struct {
	parent    State
	condition Condition
	probe     *Transition
}

// ReactionOption configures a reaction.
type ReactionOption func(*reactionBinding)

// WithCondition makes a reaction fire only while cond is satisfied.
func WithCondition(cond Condition) ReactionOption {
	return func(b *reactionBinding) {
		b.condition = cond
	}
}

func newBinding(parent State, hasCallback bool, opts []ReactionOption) (reactionBinding, error) {
	if parent == nil {
		return reactionBinding{}, fmt.Errorf("%w: reaction has no parent state", ErrConfiguration)
	}
	if !hasCallback {
		return reactionBinding{}, fmt.Errorf("%w: reaction on %q has no callback", ErrConfiguration, parent.Name())
	}
	b := reactionBinding{parent: parent}
	for _, opt := range opts {
		opt(&b)
	}
	b.probe = &Transition{To: parent, source: parent}
	return b, nil
}

// Parent returns the state the reaction is bound to.
func (b *reactionBinding) Parent() State { return b.parent }

func (b *reactionBinding) live() bool {
	if !b.parent.Active() {
		return false
	}
	return b.condition == nil || b.condition.IsSatisfied(b.probe)
}

// Reaction runs a callback when triggered while its parent state is active.
type Reaction struct {
	reactionBinding
	fn func()
}

// NewReaction binds fn to parent.
func NewReaction(parent State, fn func(), opts ...ReactionOption) (*Reaction, error) {
	b, err := newBinding(parent, fn != nil, opts)
	if err != nil {
		return nil, err
	}
	return &Reaction{reactionBinding: b, fn: fn}, nil
}

// Trigger calls the callback if the parent is active and the condition, if
// any, holds. It reports whether the callback ran.
func (r *Reaction) Trigger() bool {
	if !r.live() {
		return false
	}
	r.fn()
	return true
}

// ValueReaction is a Reaction whose trigger carries one value, such as a
// frame delta.
type ValueReaction[T any] struct {
	reactionBinding
	fn func(T)
}

// NewValueReaction binds fn to parent.
func NewValueReaction[T any](parent State, fn func(T), opts ...ReactionOption) (*ValueReaction[T], error) {
	b, err := newBinding(parent, fn != nil, opts)
	if err != nil {
		return nil, err
	}
	return &ValueReaction[T]{reactionBinding: b, fn: fn}, nil
}

// Trigger calls the callback with v under the same rules as Reaction.Trigger.
func (r *ValueReaction[T]) Trigger(v T) bool {
	if !r.live() {
		return false
	}
	r.fn(v)
	return true
}

// PairReaction is a Reaction whose trigger carries two values.
type PairReaction[T, U any] struct {
	reactionBinding
	fn func(T, U)
}

// NewPairReaction binds fn to parent.
func NewPairReaction[T, U any](parent State, fn func(T, U), opts ...ReactionOption) (*PairReaction[T, U], error) {
	b, err := newBinding(parent, fn != nil, opts)
	if err != nil {
		return nil, err
	}
	return &PairReaction[T, U]{reactionBinding: b, fn: fn}, nil
}

// Trigger calls the callback with a and b under the same rules as
// Reaction.Trigger.
func (r *PairReaction[T, U]) Trigger(a T, b U) bool {
	if !r.live() {
		return false
	}
	r.fn(a, b)
	return true
}

// EventReaction fires when the chart receives a named event while the
// parent is active. An empty event name matches every event.
type EventReaction struct {
	reactionBinding
	event string
	fn    func(event string)
}

// NewEventReaction binds fn to event on parent.
func NewEventReaction(parent State, event string, fn func(string), opts ...ReactionOption) (*EventReaction, error) {
	b, err := newBinding(parent, fn != nil, opts)
	if err != nil {
		return nil, err
	}
	return &EventReaction{reactionBinding: b, event: event, fn: fn}, nil
}

// Trigger calls the callback if event matches and the parent is live.
func (r *EventReaction) Trigger(event string) bool {
	if r.event != "" && event != r.event {
		return false
	}
	if !r.live() {
		return false
	}
	r.fn(event)
	return true
}

// Attach subscribes the reaction to c's received events. Events are seen
// before transitions for them are resolved, so the parent is the state
// that was live when the event arrived.
func (r *EventReaction) Attach(c *Chart) (detach func()) {
	return c.Subscribe(ObserverFuncs{
		OnEvent: func(event string) { r.Trigger(event) },
	})
}
