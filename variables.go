package gamechart

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
)

// Variables is the chart's typed variable store. Each variable keeps the
// type of its first value; reads are safe from any goroutine.
type Variables struct {
	mu     sync.RWMutex
	values map[string]any
	types  map[string]reflect.Type
}

// NewVariables returns an empty store.
func NewVariables() *Variables {
	return &Variables{
		values: make(map[string]any),
		types:  make(map[string]reflect.Type),
	}
}

// Declare adds or replaces a variable and fixes its type to initial's.
func (v *Variables) Declare(name string, initial any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[name] = initial
	v.types[name] = reflect.TypeOf(initial)
}

// Get returns the current value of name.
func (v *Variables) Get(name string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.values[name]
	return val, ok
}

// Names returns the variable names, sorted.
func (v *Variables) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Sorted(maps.Keys(v.values))
}

// Snapshot returns a copy of every value.
func (v *Variables) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.values)
}

// Set validates and stores value. changed is false when value equals the
// current value; nothing is written then.
func (v *Variables) Set(name string, value any, validateName, validateType bool) (changed bool, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	current, exists := v.values[name]
	if !exists && validateName {
		return false, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	if exists && validateType {
		if want, got := v.types[name], reflect.TypeOf(value); want != got {
			return false, fmt.Errorf("%w: %q is %v, got %v", ErrTypeMismatch, name, want, got)
		}
	}
	if exists && reflect.DeepEqual(current, value) {
		return false, nil
	}

	v.values[name] = value
	if !exists {
		v.types[name] = reflect.TypeOf(value)
	}
	return true, nil
}
