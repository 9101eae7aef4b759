package join

import (
	"sync"
	"time"
)

// Level is the severity of an Event.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Component names used in events.
const (
	ComponentExecutor     = "executor"
	ComponentOrchestrator = "orchestrator"
	ComponentHeartbeat    = "heartbeat"
)

// Event is a structured log record emitted by the join workflow.
type Event struct {
	Time      time.Time
	Level     Level
	Component string
	Message   string

	// Step is set for executor events.
	Step StepName

	// State is the orchestrator state at the time of the event.
	State State

	// Result is set on step outcome events.
	Result *StepResult

	// Tick is set on heartbeat tick events.
	Tick *Tick
}

// EventSink receives workflow events. Emit must not block for long.
type EventSink interface {
	Emit(Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(Event)

// Emit calls f(e).
func (f EventSinkFunc) Emit(e Event) {
	f(e)
}

// MultiSink fans events out to several sinks in order.
func MultiSink(sinks ...EventSink) EventSink {
	return multiSink(sinks)
}

type multiSink []EventSink

func (m multiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

type discardSink struct{}

func (discardSink) Emit(Event) {}

// Recorder is an EventSink that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit records e.
func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
