package gamechart

import "errors"

// Sentinel errors returned by the engine. Callers check them with errors.Is;
// the returned error usually wraps one of these with the offending name.
var (
	// ErrNotReady is returned when the chart has not been started or has no root.
	ErrNotReady = errors.New("chart not ready")
	// ErrUnknownEvent is returned by SendEvent under event validation.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrUnknownVariable is returned by SetVariable under name validation.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrTypeMismatch is returned when a value's type differs from the variable's type.
	ErrTypeMismatch = errors.New("variable type mismatch")
	// ErrNotFound is returned for missing variables and state paths.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation is returned for history operations on inactive states
	// and for attempts to enter or route through a history state.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrConfiguration marks authoring mistakes detected when a chart is built.
	ErrConfiguration = errors.New("invalid chart configuration")
)
