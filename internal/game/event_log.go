package game

import (
	"fmt"
	"strings"
)

// Event is one recorded session event.
type Event struct {
	Turn     int
	Unit     string // unit label, or "--" for session-wide events
	Category string // pick, move, turn, geometry
	Key      string // specific event name within the category
	Value    string // human-readable detail
	NumVal   float64
}

// String formats the event as a fixed-width log line.
//
//	[T=003] U0   move      insufficient_budget (2,0)→(5,0) spent=4
func (e Event) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-20s %s",
		e.Turn, e.Unit, e.Category, e.Key, e.Value)
}

// EventLog collects machine-readable session events for reports and tests.
// It is unbounded; the zerolog logger is the human-facing channel.
type EventLog struct {
	entries []Event
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Add records a new event.
func (l *EventLog) Add(turn int, unit, category, key, value string, numVal float64) {
	l.entries = append(l.entries, Event{
		Turn:     turn,
		Unit:     unit,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Entries returns all recorded events.
func (l *EventLog) Entries() []Event {
	return l.entries
}

// Filter returns events matching category and/or key; empty matches any.
func (l *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many events match category and key.
func (l *EventLog) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent event matching category+key.
func (l *EventLog) LastOf(category, key string) (Event, bool) {
	events := l.Filter(category, key)
	if len(events) == 0 {
		return Event{}, false
	}
	return events[len(events)-1], true
}

// Format returns the whole log, one event per line.
func (l *EventLog) Format() string {
	var sb strings.Builder
	for _, e := range l.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
