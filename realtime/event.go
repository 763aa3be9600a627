package realtime

import "sort"

// EventWithMeta adds sequencing metadata for deterministic ordering.
type EventWithMeta struct {
	Event       string
	SequenceNum uint64
	Priority    int
}

// sortEvents orders events: higher priority first, then earlier sequence
// number first.
func sortEvents(events []EventWithMeta) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Priority != events[j].Priority {
			return events[i].Priority > events[j].Priority
		}
		return events[i].SequenceNum < events[j].SequenceNum
	})
}
