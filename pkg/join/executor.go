package join

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/autojoin/pkg/browser"
)

// Step describes one browser interaction.
type Step struct {
	Name    StepName
	Locate  browser.Locator
	Action  browser.Action
	Timeout time.Duration
	Policy  Policy

	// MissLevel is the level of the outcome event when a tolerated step
	// does not find its target. Defaults to LevelInfo.
	MissLevel Level

	// MissReason is the Skipped reason when the target is not found.
	// Defaults to "not found".
	MissReason string

	url string
}

// StepExecutor runs single steps against a driver. It never retries.
//
// Every Execute, Navigate and Await call emits exactly two events: a debug
// event when the attempt starts and a single info or error event carrying
// the StepResult. Sinks that only want outcomes drop debug events.
type StepExecutor struct {
	driver  browser.Driver
	events  EventSink
	stateFn func() State
	now     func() time.Time
}

// NewStepExecutor creates an executor emitting events to sink.
func NewStepExecutor(driver browser.Driver, sink EventSink) *StepExecutor {
	if sink == nil {
		sink = discardSink{}
	}
	return &StepExecutor{
		driver:  driver,
		events:  sink,
		stateFn: func() State { return StateIdle },
		now:     time.Now,
	}
}

// Execute locates step.Locate and applies step.Action.
func (e *StepExecutor) Execute(ctx context.Context, step Step) StepResult {
	start := e.now()
	e.emit(LevelDebug, step.Name, fmt.Sprintf("Searching for %s", step.Locate), nil)

	if err := ctx.Err(); err != nil {
		return e.finish(step, start, e.cancelled(step))
	}

	el, err := e.driver.Find(ctx, step.Locate, step.Timeout)
	switch {
	case err != nil && ctx.Err() != nil:
		return e.finish(step, start, e.cancelled(step))
	case err != nil && !errors.Is(err, browser.ErrTimeout):
		return e.finish(step, start, e.failed(step, KindDriverError, err.Error()))
	case err != nil || el == nil:
		return e.finish(step, start, e.miss(step))
	}

	if err := e.driver.Act(ctx, el, step.Action); err != nil {
		if ctx.Err() != nil {
			return e.finish(step, start, e.cancelled(step))
		}
		return e.finish(step, start, e.failed(step, KindDriverError, fmt.Sprintf("%s on %s: %v", step.Action, step.Locate, err)))
	}

	return e.finish(step, start, StepResult{Step: step.Name, Status: StatusSuccess, Policy: step.Policy})
}

// Navigate loads url. step.Locate and step.Action are ignored.
func (e *StepExecutor) Navigate(ctx context.Context, step Step, url string) StepResult {
	start := e.now()
	step.url = url
	e.emit(LevelDebug, step.Name, fmt.Sprintf("Opening %s", url), nil)

	if err := ctx.Err(); err != nil {
		return e.finish(step, start, e.cancelled(step))
	}

	err := e.driver.Navigate(ctx, url, step.Timeout)
	switch {
	case err == nil:
		return e.finish(step, start, StepResult{Step: step.Name, Status: StatusSuccess, Policy: step.Policy})
	case ctx.Err() != nil:
		return e.finish(step, start, e.cancelled(step))
	case errors.Is(err, browser.ErrTimeout):
		if step.Policy == PolicyFatal {
			return e.finish(step, start, e.failed(step, KindTimeout, fmt.Sprintf("%s did not load within %s", url, step.Timeout)))
		}
		return e.finish(step, start, e.skipped(step, "page did not load"))
	default:
		return e.finish(step, start, e.failed(step, KindDriverError, err.Error()))
	}
}

// Await waits for step.Locate as a marker. Present is a success; absence
// is a miss handled according to step.Policy.
func (e *StepExecutor) Await(ctx context.Context, step Step) StepResult {
	start := e.now()
	e.emit(LevelDebug, step.Name, fmt.Sprintf("Waiting up to %s for %s", step.Timeout, step.Locate), nil)

	if err := ctx.Err(); err != nil {
		return e.finish(step, start, e.cancelled(step))
	}

	marker, err := e.driver.WaitForMarker(ctx, step.Locate, step.Timeout)
	switch {
	case err != nil && ctx.Err() != nil:
		return e.finish(step, start, e.cancelled(step))
	case err != nil && !errors.Is(err, browser.ErrTimeout):
		return e.finish(step, start, e.failed(step, KindDriverError, err.Error()))
	case err == nil && marker == browser.MarkerPresent:
		return e.finish(step, start, StepResult{Step: step.Name, Status: StatusSuccess, Policy: step.Policy})
	default:
		return e.finish(step, start, e.miss(step))
	}
}

func (e *StepExecutor) miss(step Step) StepResult {
	if step.Policy == PolicyFatal {
		return e.failed(step, KindTimeout, fmt.Sprintf("%s not found within %s", step.Locate, step.Timeout))
	}
	reason := step.MissReason
	if reason == "" {
		reason = "not found"
	}
	return e.skipped(step, reason)
}

func (e *StepExecutor) skipped(step Step, reason string) StepResult {
	return StepResult{Step: step.Name, Status: StatusSkipped, Policy: step.Policy, Reason: reason}
}

func (e *StepExecutor) failed(step Step, kind ErrorKind, detail string) StepResult {
	return StepResult{Step: step.Name, Status: StatusFailed, Policy: step.Policy, Kind: kind, Detail: detail}
}

func (e *StepExecutor) cancelled(step Step) StepResult {
	return e.failed(step, KindCancelled, "cancelled")
}

// finish stamps the duration and emits the single outcome event.
func (e *StepExecutor) finish(step Step, start time.Time, r StepResult) StepResult {
	r.Duration = e.now().Sub(start)

	var level Level
	var msg string
	switch r.Status {
	case StatusSuccess:
		level = LevelInfo
		msg = successMessage(step)
	case StatusSkipped:
		level = step.MissLevel
		if level == "" {
			level = LevelInfo
		}
		msg = fmt.Sprintf("Skipped %s: %s (%s)", step.Name, r.Reason, step.Locate)
	default:
		level = LevelError
		msg = fmt.Sprintf("Couldn't complete %s: %s", step.Name, r.Detail)
	}

	e.emit(level, step.Name, msg, &r)
	return r
}

func successMessage(step Step) string {
	switch {
	case step.url != "":
		return "Opened meeting URL: " + step.url
	case step.Action.Kind == "":
		return fmt.Sprintf("Found %s", step.Locate)
	default:
		return fmt.Sprintf("Completed %s: %s on %s", step.Name, step.Action, step.Locate)
	}
}

func (e *StepExecutor) emit(level Level, step StepName, msg string, result *StepResult) {
	e.events.Emit(Event{
		Time:      e.now(),
		Level:     level,
		Component: ComponentExecutor,
		Message:   msg,
		Step:      step,
		State:     e.stateFn(),
		Result:    result,
	})
}
