package gamechart

import "log/slog"

// Option configures a Chart.
type Option func(*Chart)

// WithName names the chart. Defaults to the root state's name.
func WithName(name string) Option {
	return func(c *Chart) {
		c.name = name
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Chart) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver subscribes o before the chart starts.
func WithObserver(o Observer) Option {
	return func(c *Chart) {
		c.Subscribe(o)
	}
}

// WithEvents declares the chart's event names.
func WithEvents(names ...string) Option {
	return func(c *Chart) {
		for _, n := range names {
			c.events[n] = struct{}{}
		}
	}
}

// WithEventValidation rejects events that were not declared with WithEvents.
func WithEventValidation() Option {
	return func(c *Chart) {
		c.validateEvents = true
	}
}

// WithVariable declares a variable and its initial value. The value's type
// becomes the variable's type.
func WithVariable(name string, initial any) Option {
	return func(c *Chart) {
		c.vars.Declare(name, initial)
	}
}

// WithVariableNameValidation rejects writes to undeclared variables.
func WithVariableNameValidation() Option {
	return func(c *Chart) {
		c.validateNames = true
	}
}

// WithVariableTypeValidation rejects writes that change a variable's type.
func WithVariableTypeValidation() Option {
	return func(c *Chart) {
		c.validateTypes = true
	}
}

// WithVersion overrides the computed definition fingerprint.
func WithVersion(version string) Option {
	return func(c *Chart) {
		c.version = version
	}
}
