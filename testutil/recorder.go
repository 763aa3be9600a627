// Package testutil holds helpers shared by the chart, runtime and
// production tests.
package testutil

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/comalice/gamechart"
)

// Recorder is an Observer that logs every notification as a line such as
// "enter Game.Playing" or "event defeat".
type Recorder struct {
	mu  sync.Mutex
	log []string
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) EventReceived(event string) {
	r.add("event " + event)
}

func (r *Recorder) StateEntered(s gamechart.State) {
	r.add("enter " + s.Path())
}

func (r *Recorder) StateExited(s gamechart.State) {
	r.add("exit " + s.Path())
}

func (r *Recorder) TransitionTaken(t *gamechart.Transition, from gamechart.State) {
	r.add(fmt.Sprintf("transition %s -> %s", from.Path(), t.To.Path()))
}

// Log returns a copy of the recorded lines.
func (r *Recorder) Log() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.log)
}

// Filter returns the recorded lines starting with prefix.
func (r *Recorder) Filter(prefix string) []string {
	var out []string
	for _, line := range r.Log() {
		if len(line) >= len(prefix) && line[:len(prefix)] == prefix {
			out = append(out, line)
		}
	}
	return out
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.log = nil
	r.mu.Unlock()
}

func (r *Recorder) add(line string) {
	r.mu.Lock()
	r.log = append(r.log, line)
	r.mu.Unlock()
}

// WaitFor polls cond until it holds or timeout elapses.
func WaitFor(timeout time.Duration, cond func() bool) error {
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			return fmt.Errorf("condition not met within %v", timeout)
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}
