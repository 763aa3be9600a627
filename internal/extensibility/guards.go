package extensibility

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/comalice/gamechart"
)

// GuardRegistry maps guard names to conditions so charts can refer to
// host-defined guards by name. Unregistered guards fail closed.
type GuardRegistry struct {
	mu     sync.RWMutex
	guards map[string]gamechart.Condition
}

// NewGuardRegistry creates an empty registry.
func NewGuardRegistry() *GuardRegistry {
	return &GuardRegistry{guards: make(map[string]gamechart.Condition)}
}

// Register binds name to cond, replacing any previous binding.
func (r *GuardRegistry) Register(name string, cond gamechart.Condition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards[name] = cond
}

// RegisterFunc binds name to fn.
func (r *GuardRegistry) RegisterFunc(name string, fn func(*gamechart.Transition) bool) {
	r.Register(name, gamechart.ConditionFunc(fn))
}

// Condition returns a Condition that looks name up on every evaluation, so
// guards may be registered after the chart is built.
func (r *GuardRegistry) Condition(name string) gamechart.Condition {
	return namedGuard{registry: r, name: name}
}

func (r *GuardRegistry) lookup(name string) (gamechart.Condition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.guards[name]
	return c, ok
}

type namedGuard struct {
	registry *GuardRegistry
	name     string
}

func (g namedGuard) IsSatisfied(t *gamechart.Transition) bool {
	c, ok := g.registry.lookup(g.name)
	if !ok {
		return false
	}
	return c.IsSatisfied(t)
}

func (g namedGuard) String() string { return g.name }

// LoggingCondition wraps a Condition and logs every evaluation at debug
// level.
type LoggingCondition struct {
	inner  gamechart.Condition
	logger *slog.Logger
}

// NewLoggingCondition wraps inner. A nil logger uses slog.Default().
func NewLoggingCondition(inner gamechart.Condition, logger *slog.Logger) *LoggingCondition {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingCondition{inner: inner, logger: logger}
}

func (c *LoggingCondition) IsSatisfied(t *gamechart.Transition) bool {
	ok := c.inner.IsSatisfied(t)
	c.logger.Debug("guard evaluated", "guard", c.String(), "transition", t.String(), "satisfied", ok)
	return ok
}

func (c *LoggingCondition) String() string {
	if s, ok := c.inner.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c.inner)
}
