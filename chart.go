// Package gamechart is a hierarchical statechart engine for driving
// per-frame game logic deterministically.
//
// A Chart owns one root State. Events sent with SendEvent and variable
// changes made with SetVariable are queued and drained by whichever call
// first finds the chart idle; calls made while a drain is running (from
// observers, reactions or other goroutines) only enqueue. Within a drain,
// pending variable changes are evaluated before the next queued event, one
// event is consumed per iteration, and transitions triggered while another
// transition executes are deferred and run in FIFO order.
package gamechart

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/comalice/gamechart/internal/core"
	"github.com/comalice/gamechart/internal/primitives"
)

type pendingTransition struct {
	t    *Transition
	from State
}

// Chart owns a state hierarchy, its variables and its event and transition
// queues. Safe for concurrent use; all state mutation is serialized.
type Chart struct {
	id      string
	name    string
	version string
	root    State
	logger  *slog.Logger
	vars    *Variables
	states  map[string]State

	events         map[string]struct{}
	validateEvents bool
	validateNames  bool
	validateTypes  bool

	obsMu       sync.RWMutex
	subscribers []subscriber
	nextSub     uint64

	mu              sync.Mutex
	ready           bool
	busy            bool
	propertyChanged bool
	eventQueue      core.Queue[string]
	transitionQueue core.Queue[pendingTransition]

	// Owned by the draining goroutine.
	transitioning bool
	errs          []error
}

// NewChart builds a chart around root and validates the whole hierarchy.
// Authoring mistakes are reported as ErrConfiguration. The chart must be
// started with Start before it accepts events.
func NewChart(root State, opts ...Option) (*Chart, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: chart has no root state", ErrConfiguration)
	}
	c := &Chart{
		id:     uuid.NewString(),
		root:   root,
		logger: slog.Default(),
		vars:   NewVariables(),
		states: make(map[string]State),
		events: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.name == "" {
		c.name = root.Name()
	}
	if err := c.initialize(); err != nil {
		return nil, err
	}
	if c.version == "" {
		c.version = primitives.ComputeVersion(describe(c))
	}
	return c, nil
}

// initialize binds every state, then checks each transition target belongs
// to this chart.
func (c *Chart) initialize() error {
	if err := c.root.Initialize(c, nil); err != nil {
		return err
	}

	var errs []error
	owner := make(map[*Transition]State)
	walk(c.root, func(s State) {
		c.states[s.Path()] = s
	})
	walk(c.root, func(s State) {
		for i, t := range s.node().transitions {
			if prev, dup := owner[t]; dup {
				errs = append(errs, fmt.Errorf("%w: transition %d of %q is shared with %q", ErrConfiguration, i, s.Path(), prev.Path()))
				continue
			}
			owner[t] = s

			switch {
			case t.To == nil:
				errs = append(errs, fmt.Errorf("%w: transition %d of %q has no target", ErrConfiguration, i, s.Path()))
			case c.states[t.To.Path()] != t.To:
				errs = append(errs, fmt.Errorf("%w: transition %d of %q targets %q outside the chart", ErrConfiguration, i, s.Path(), t.To.Name()))
			}
		}
	})
	return errors.Join(errs...)
}

// Start enters the root state and drains whatever the entry produced.
// Calling Start again is a no-op.
func (c *Chart) Start() error {
	c.mu.Lock()
	if c.ready {
		c.mu.Unlock()
		return nil
	}
	c.ready = true
	c.busy = true
	c.mu.Unlock()

	c.logger.Debug("chart starting", "chart", c.name, "id", c.id)
	if err := c.step(func() error { return c.root.Enter(false) }); err != nil {
		c.fail(err)
	}
	return c.drain()
}

// ID is the chart instance's unique id.
func (c *Chart) ID() string { return c.id }

// Name is the chart's name.
func (c *Chart) Name() string { return c.name }

// Version fingerprints the chart definition.
func (c *Chart) Version() string { return c.version }

// Root returns the root state.
func (c *Chart) Root() State { return c.root }

// Ready reports whether the chart has been started.
func (c *Chart) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// FindState returns the state at path, e.g. "Game.Playing.Alive".
func (c *Chart) FindState(path string) (State, error) {
	s, ok := c.states[path]
	if !ok {
		return nil, fmt.Errorf("%w: state %q", ErrNotFound, path)
	}
	return s, nil
}

// States returns every state in depth-first declaration order.
func (c *Chart) States() []State {
	var out []State
	walk(c.root, func(s State) { out = append(out, s) })
	return out
}

// ActiveStates returns the active path from the root down to the active
// leaf. Call it between drains, e.g. from the goroutine that sent events.
func (c *Chart) ActiveStates() []State {
	var path []State
	s := c.root
	for s != nil && s.Active() {
		path = append(path, s)
		cs, ok := s.(*CompoundState)
		if !ok {
			break
		}
		s = cs.ActiveChild()
	}
	return path
}

// ActiveLeaf returns the innermost active state, nil before Start.
func (c *Chart) ActiveLeaf() State {
	path := c.ActiveStates()
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// Events returns the declared event names, sorted.
func (c *Chart) Events() []string {
	names := make([]string, 0, len(c.events))
	for n := range c.events {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// SendEvent queues event and drains the chart unless a drain is already
// running, in which case that drain processes it.
func (c *Chart) SendEvent(event string) error {
	c.mu.Lock()
	if !c.ready || c.root == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot send event %q", ErrNotReady, event)
	}
	if event == "" {
		c.mu.Unlock()
		return fmt.Errorf("%w: empty event name", ErrUnknownEvent)
	}
	if c.validateEvents {
		if _, ok := c.events[event]; !ok {
			c.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
		}
	}
	c.eventQueue.Push(event)
	return c.claimAndDrain()
}

// SetVariable stores value and, when it differs from the current value,
// schedules a re-evaluation of automatic transitions.
func (c *Chart) SetVariable(name string, value any) error {
	changed, err := c.vars.Set(name, value, c.validateNames, c.validateTypes)
	if err != nil || !changed {
		return err
	}
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return nil
	}
	c.propertyChanged = true
	return c.claimAndDrain()
}

// GetVariable returns the current value of name.
func (c *Chart) GetVariable(name string) (any, error) {
	v, ok := c.vars.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: variable %q", ErrNotFound, name)
	}
	return v, nil
}

// GetVariableNames returns every variable name, sorted.
func (c *Chart) GetVariableNames() []string {
	return c.vars.Names()
}

// Variables returns a copy of every variable value.
func (c *Chart) Variables() map[string]any {
	return c.vars.Snapshot()
}

// GetAs returns variable name as a T.
func GetAs[T any](c *Chart, name string) (T, error) {
	var zero T
	v, err := c.GetVariable(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, not %T", ErrTypeMismatch, name, v, zero)
	}
	return t, nil
}

// SetAs is SetVariable with a compile-time typed value.
func SetAs[T any](c *Chart, name string, value T) error {
	return c.SetVariable(name, value)
}

// Update drains pending events and variable changes. It is a no-op while
// another drain is running.
func (c *Chart) Update() error {
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	return c.claimAndDrain()
}

// RunTransition queues t for execution from from. Transitions queued while
// the chart is draining run after the current step, in FIFO order.
func (c *Chart) RunTransition(t *Transition, from State) error {
	if t == nil || from == nil {
		return fmt.Errorf("%w: nil transition or source", ErrInvalidOperation)
	}
	if t.To == nil {
		return fmt.Errorf("%w: transition %q has no target", ErrInvalidOperation, t.Event)
	}
	if !c.owns(from) || !c.owns(t.To) {
		return fmt.Errorf("%w: transition %s -> %s leaves chart %q", ErrInvalidOperation, from.Path(), t.To.Path(), c.name)
	}
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.transitionQueue.Push(pendingTransition{t: t, from: from})
	return c.claimAndDrain()
}

// RestoreHistory forces s back into the configuration in record and drains
// whatever that produced. It fails while another drain is running.
func (c *Chart) RestoreHistory(s State, record StateRecord) error {
	if s == nil || s.Chart() != c {
		return fmt.Errorf("%w: state does not belong to chart %q", ErrInvalidOperation, c.name)
	}
	if err := validateRecord(s, record); err != nil {
		return err
	}
	c.mu.Lock()
	if !c.ready {
		c.mu.Unlock()
		return ErrNotReady
	}
	if c.busy {
		c.mu.Unlock()
		return fmt.Errorf("%w: chart %q is processing", ErrInvalidOperation, c.name)
	}
	c.busy = true
	c.mu.Unlock()

	if err := c.step(func() error { return s.RestoreHistory(record) }); err != nil {
		c.fail(err)
	}
	return c.drain()
}

// Subscribe registers o for chart notifications and returns a function
// that removes it.
func (c *Chart) Subscribe(o Observer) (unsubscribe func()) {
	c.obsMu.Lock()
	c.nextSub++
	id := c.nextSub
	c.subscribers = append(c.subscribers, subscriber{id: id, obs: o})
	c.obsMu.Unlock()

	return func() {
		c.obsMu.Lock()
		defer c.obsMu.Unlock()
		c.subscribers = slices.DeleteFunc(c.subscribers, func(s subscriber) bool { return s.id == id })
	}
}

// claimAndDrain must be called with c.mu held. It releases the lock and
// drains if the chart was idle.
func (c *Chart) claimAndDrain() error {
	if c.busy {
		c.mu.Unlock()
		return nil
	}
	c.busy = true
	c.mu.Unlock()
	return c.drain()
}

// drain runs until no transition, property change or event is pending.
// Pending transitions go first, then property changes, then one event.
func (c *Chart) drain() error {
	defer c.releaseOnPanic()
	for {
		c.mu.Lock()
		switch {
		case c.transitionQueue.Len() > 0:
			c.mu.Unlock()
			c.executeTransitions()

		case c.propertyChanged:
			c.propertyChanged = false
			c.mu.Unlock()
			c.root.ProcessTransitions("", true)

		default:
			event, ok := c.eventQueue.Pop()
			if !ok {
				errs := c.errs
				c.errs = nil
				c.busy = false
				c.mu.Unlock()
				return errors.Join(errs...)
			}
			c.mu.Unlock()
			c.eventReceived(event)
			c.root.ProcessTransitions(event, false)
		}
	}
}

// runTransition is the engine-internal path used by states while the
// calling goroutine owns the drain.
func (c *Chart) runTransition(t *Transition, from State) {
	c.transitionQueue.Push(pendingTransition{t: t, from: from})
	if c.transitioning {
		return
	}
	c.executeTransitions()
}

func (c *Chart) executeTransitions() {
	c.transitioning = true
	defer func() { c.transitioning = false }()

	for {
		p, ok := c.transitionQueue.Pop()
		if !ok {
			return
		}
		if !p.from.Active() {
			c.logger.Warn("dropping transition from inactive state",
				"chart", c.name, "from", p.from.Path(), "to", p.t.targetPath(), "event", p.t.Event)
			continue
		}
		c.transitionTaken(p.t, p.from)
		if err := p.from.HandleTransition(p.t, p.from); err != nil {
			c.fail(fmt.Errorf("transition %s: %w", p.t, err))
		}
	}
}

// step runs fn with transitions deferred to the queue, as the draining
// goroutine does before it drains.
func (c *Chart) step(fn func() error) error {
	defer c.releaseOnPanic()
	c.transitioning = true
	err := fn()
	c.transitioning = false
	return err
}

// releaseOnPanic returns the chart to idle when a hook, observer or
// condition panics mid-drain, then re-panics. Queued transitions are
// dropped; queued events stay for the next drain.
func (c *Chart) releaseOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	c.transitioning = false
	c.errs = nil
	c.mu.Lock()
	wasBusy := c.busy
	c.transitionQueue.Clear()
	c.propertyChanged = false
	c.busy = false
	c.mu.Unlock()
	if wasBusy {
		c.logger.Error("chart processing panicked", "chart", c.name, "panic", fmt.Sprint(r))
	}
	panic(r)
}

// owns reports whether s is the state registered under its path.
func (c *Chart) owns(s State) bool {
	return c.states[s.Path()] == s
}

func (c *Chart) fail(err error) {
	c.logger.Error("chart processing failed", "chart", c.name, "error", err)
	c.errs = append(c.errs, err)
}

func (c *Chart) observers() []Observer {
	c.obsMu.RLock()
	defer c.obsMu.RUnlock()
	out := make([]Observer, len(c.subscribers))
	for i, s := range c.subscribers {
		out[i] = s.obs
	}
	return out
}

func (c *Chart) eventReceived(event string) {
	c.logger.Debug("event received", "chart", c.name, "event", event)
	for _, o := range c.observers() {
		o.EventReceived(event)
	}
}

func (c *Chart) stateEntered(s State) {
	for _, fn := range s.node().onEnter {
		fn(s)
	}
	for _, o := range c.observers() {
		o.StateEntered(s)
	}
}

func (c *Chart) stateExited(s State) {
	for _, fn := range s.node().onExit {
		fn(s)
	}
	for _, o := range c.observers() {
		o.StateExited(s)
	}
}

func (c *Chart) transitionTaken(t *Transition, from State) {
	c.logger.Debug("transition taken", "chart", c.name, "from", from.Path(), "to", t.targetPath(), "event", t.Event)
	for _, o := range c.observers() {
		o.TransitionTaken(t, from)
	}
}

// walk visits s and its descendants depth-first in declaration order.
func walk(s State, fn func(State)) {
	fn(s)
	if cs, ok := s.(*CompoundState); ok {
		for _, child := range cs.children {
			walk(child, fn)
		}
	}
}
