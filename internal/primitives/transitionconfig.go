package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// TransitionConfig defines one outgoing transition. An empty Event makes
// it automatic. To is the full dot path of the target state. Guard is an
// optional expression such as "hp <= 0".
type TransitionConfig struct {
	Event string `json:"event,omitempty" yaml:"event,omitempty"`
	To    string `json:"to" yaml:"to"`
	Guard string `json:"guard,omitempty" yaml:"guard,omitempty"`
}

// Automatic reports whether the transition has no event.
func (t *TransitionConfig) Automatic() bool { return t.Event == "" }

// Validate checks the target path syntax.
func (t *TransitionConfig) Validate() error {
	if t.To == "" {
		return errors.New("target is required")
	}
	for i, seg := range strings.Split(t.To, ".") {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("invalid target path %q: empty segment at index %d", t.To, i)
		}
	}
	if strings.TrimSpace(t.Event) != t.Event {
		return fmt.Errorf("event name %q has surrounding whitespace", t.Event)
	}
	return nil
}
