package join

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/autojoin/pkg/browser"
)

// Heartbeat defaults.
const (
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultScreenshotPath    = "screenshot.png"
)

// ErrTickMissed marks a tick that fell due while the previous screenshot was
// still being captured.
var ErrTickMissed = errors.New("tick missed: previous screenshot still in progress")

// Tick is one heartbeat iteration. Err is set when the capture failed or the
// tick was missed.
type Tick struct {
	N    int
	At   time.Time
	Path string
	Err  error
}

// Heartbeat keeps a joined session open and captures a screenshot on every
// tick as liveness evidence.
type Heartbeat struct {
	Driver   browser.Driver
	Interval time.Duration
	Path     string
	Events   EventSink
}

// Run ticks until ctx is done or stop is closed, then returns a Closed
// outcome. Ticks are scheduled against the start time, so Heartbeats is at
// least floor(elapsed/Interval) however slow the captures are. Each capture
// is bounded by Interval. A failed or missed capture is logged and the loop
// keeps going.
func (h *Heartbeat) Run(ctx context.Context, stop <-chan struct{}, onTick func(Tick)) Outcome {
	interval := h.Interval
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	path := h.Path
	if path == "" {
		path = DefaultScreenshotPath
	}
	events := h.Events
	if events == nil {
		events = discardSink{}
	}

	emit := func(level Level, msg string, tick *Tick) {
		events.Emit(Event{
			Time:      time.Now(),
			Level:     level,
			Component: ComponentHeartbeat,
			Message:   msg,
			State:     StateActive,
			Tick:      tick,
		})
	}

	emit(LevelInfo, fmt.Sprintf("Keeping the session open, screenshot every %s", interval), nil)

	start := time.Now()
	timer := time.NewTimer(interval)
	defer timer.Stop()

	n := 0
	report := func(tick Tick) {
		if tick.Err != nil {
			emit(LevelError, fmt.Sprintf("Heartbeat %d: screenshot failed: %v", tick.N, tick.Err), &tick)
		} else {
			emit(LevelInfo, fmt.Sprintf("Heartbeat %d: screenshot saved to %s", tick.N, path), &tick)
		}
		if onTick != nil {
			onTick(tick)
		}
	}
	// skipTo records every tick up to due that fell while a capture was
	// still running.
	skipTo := func(due int) {
		for n < due {
			n++
			report(Tick{N: n, At: start.Add(time.Duration(n) * interval), Path: path, Err: ErrTickMissed})
		}
	}
	closed := func(reason string) Outcome {
		skipTo(int(time.Since(start) / interval))
		emit(LevelInfo, fmt.Sprintf("Heartbeat stopped after %d tick(s): %s", n, reason), nil)
		return Outcome{Status: OutcomeClosed, Reason: reason, Heartbeats: n}
	}

	for {
		select {
		case <-ctx.Done():
			return closed("cancelled")
		case <-stop:
			return closed("stop requested")
		case at := <-timer.C:
			// A stop request that raced the tick wins
			select {
			case <-ctx.Done():
				return closed("cancelled")
			case <-stop:
				return closed("stop requested")
			default:
			}

			due := int(at.Sub(start) / interval)
			if due <= n {
				due = n + 1
			}
			skipTo(due - 1)

			n++
			tick := Tick{N: n, At: at, Path: path}
			shotCtx, cancel := context.WithTimeout(ctx, interval)
			tick.Err = h.Driver.Screenshot(shotCtx, path)
			cancel()
			report(tick)

			timer.Reset(time.Until(start.Add(time.Duration(n+1) * interval)))
		}
	}
}
