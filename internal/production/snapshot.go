// Package production provides host-side integrations for charts:
// snapshot persistence, notification publishing, visualization and tracing.
package production

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/comalice/gamechart"
)

// ErrVersionMismatch is returned when a snapshot was taken from a different
// chart definition than the one it is applied to.
var ErrVersionMismatch = errors.New("snapshot version mismatch")

// RecordNode is the serializable form of a StateRecord: a state name and
// the nodes of its recorded active children.
type RecordNode struct {
	Name   string       `json:"name" yaml:"name"`
	Active []RecordNode `json:"active,omitempty" yaml:"active,omitempty"`
}

// Snapshot is a persisted chart configuration.
type Snapshot struct {
	ChartID   string         `json:"chartId" yaml:"chartId"`
	Name      string         `json:"name" yaml:"name"`
	Version   string         `json:"version" yaml:"version"`
	Active    []RecordNode   `json:"active" yaml:"active"`
	Variables map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

// Validate checks the snapshot is complete enough to be applied.
func (s Snapshot) Validate() error {
	if s.ChartID == "" {
		return errors.New("snapshot chart id is required")
	}
	if s.Version == "" {
		return errors.New("snapshot version is required")
	}
	var check func([]RecordNode) error
	check = func(nodes []RecordNode) error {
		for _, n := range nodes {
			if n.Name == "" {
				return errors.New("snapshot contains an unnamed state")
			}
			if err := check(n.Active); err != nil {
				return err
			}
		}
		return nil
	}
	return check(s.Active)
}

// EncodeRecord converts rec to record nodes sorted by name.
func EncodeRecord(rec gamechart.StateRecord) []RecordNode {
	if len(rec.Active) == 0 {
		return nil
	}
	nodes := make([]RecordNode, 0, len(rec.Active))
	for s, child := range rec.Active {
		nodes = append(nodes, RecordNode{Name: s.Name(), Active: EncodeRecord(child)})
	}
	slices.SortFunc(nodes, func(a, b RecordNode) int { return cmp.Compare(a.Name, b.Name) })
	return nodes
}

// DecodeRecord resolves nodes against the children of parent.
func DecodeRecord(parent gamechart.State, nodes []RecordNode) (gamechart.StateRecord, error) {
	if len(nodes) == 0 {
		return gamechart.StateRecord{}, nil
	}
	cs, ok := parent.(*gamechart.CompoundState)
	if !ok {
		return gamechart.StateRecord{}, fmt.Errorf("%w: %q has no children to restore", gamechart.ErrNotFound, parent.Path())
	}

	rec := gamechart.StateRecord{Active: make(map[gamechart.State]gamechart.StateRecord, len(nodes))}
	for _, n := range nodes {
		child, ok := cs.Child(n.Name)
		if !ok {
			return gamechart.StateRecord{}, fmt.Errorf("%w: state %q in %q", gamechart.ErrNotFound, n.Name, parent.Path())
		}
		sub, err := DecodeRecord(child, n.Active)
		if err != nil {
			return gamechart.StateRecord{}, err
		}
		rec.Active[child] = sub
	}
	return rec, nil
}

// Capture snapshots a started chart's configuration and variables.
func Capture(c *gamechart.Chart) (Snapshot, error) {
	rec, err := c.Root().SaveHistory()
	if err != nil {
		return Snapshot{}, fmt.Errorf("capture %s: %w", c.Name(), err)
	}
	return Snapshot{
		ChartID:   c.ID(),
		Name:      c.Name(),
		Version:   c.Version(),
		Active:    EncodeRecord(rec),
		Variables: c.Variables(),
		Timestamp: time.Now().UTC(),
	}, nil
}

// Apply restores variables, then the recorded configuration, into c. The
// snapshot must come from a chart with the same definition version.
func Apply(c *gamechart.Chart, snap Snapshot) error {
	if snap.Version != c.Version() {
		return fmt.Errorf("%w: snapshot %s, chart %s", ErrVersionMismatch, snap.Version, c.Version())
	}
	rec, err := DecodeRecord(c.Root(), snap.Active)
	if err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(snap.Variables)) {
		if err := c.SetVariable(name, coerce(c, name, snap.Variables[name])); err != nil {
			return fmt.Errorf("restore variable %s: %w", name, err)
		}
	}
	return c.RestoreHistory(c.Root(), rec)
}

// coerce converts decoded numbers back to the variable's current type:
// JSON decodes every number as float64, YAML decodes integers as int.
func coerce(c *gamechart.Chart, name string, v any) any {
	current, err := c.GetVariable(name)
	if err != nil {
		return v
	}
	switch current.(type) {
	case int:
		if f, ok := v.(float64); ok && f == math.Trunc(f) {
			return int(f)
		}
	case float64:
		if i, ok := v.(int); ok {
			return float64(i)
		}
	}
	return v
}
