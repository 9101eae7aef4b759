package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/autojoin/pkg/join"
)

// Verbosity controls how much the console shows.
type Verbosity int

const (
	// VerbosityQuiet shows only errors, warnings and the final summary
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal shows join progress (default)
	VerbosityNormal
	// VerbosityVerbose adds skipped steps and heartbeat ticks
	VerbosityVerbose
	// VerbosityDebug shows every workflow event
	VerbosityDebug
)

// ParseVerbosity converts a verbosity name. Unknown names map to normal.
func ParseVerbosity(s string) Verbosity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiet":
		return VerbosityQuiet
	case "verbose":
		return VerbosityVerbose
	case "debug":
		return VerbosityDebug
	default:
		return VerbosityNormal
	}
}

func (v Verbosity) String() string {
	switch v {
	case VerbosityQuiet:
		return "quiet"
	case VerbosityVerbose:
		return "verbose"
	case VerbosityDebug:
		return "debug"
	default:
		return "normal"
	}
}

type palette struct {
	reset     string
	cyan      string
	salmon    string
	yellow    string
	red       string
	gray      string
	boldGreen string
	boldRed   string
	boldWhite string
}

var ansi = palette{
	reset:     "\033[0m",
	cyan:      "\033[36m",
	salmon:    "\033[38;5;217m", // Salmon pink #FFB3BA
	yellow:    "\033[33m",
	red:       "\033[31m",
	gray:      "\033[90m",
	boldGreen: "\033[1;32m",
	boldRed:   "\033[1;31m",
	boldWhite: "\033[1;37m",
}

// Console renders join events for a human watching the terminal. It
// implements join.EventSink.
type Console struct {
	mu        sync.Mutex
	verbosity Verbosity
	writer    io.Writer
	c         palette
}

// NewConsole creates a console writing to stdout.
func NewConsole(v Verbosity) *Console {
	return &Console{verbosity: v, writer: os.Stdout, c: ansi}
}

// SetOutput redirects the console. Colors are dropped when color is false.
func (c *Console) SetOutput(w io.Writer, color bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer = w
	if color {
		c.c = ansi
	} else {
		c.c = palette{}
	}
}

// Header prints a prominent header message
func (c *Console) Header(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < VerbosityNormal {
		return
	}
	c.rule()
	fmt.Fprintf(c.writer, "%s  %s%s\n", c.c.boldWhite, message, c.c.reset)
	c.rule()
}

// Section prints a section divider
func (c *Console) Section(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < VerbosityNormal {
		return
	}
	fmt.Fprintln(c.writer)
	fmt.Fprintf(c.writer, "%s▶ %s%s\n", c.c.cyan, title, c.c.reset)
	fmt.Fprintf(c.writer, "%s%s%s\n", c.c.gray, strings.Repeat("─", 50), c.c.reset)
}

func (c *Console) rule() {
	fmt.Fprintf(c.writer, "%s%s%s\n", c.c.boldWhite, strings.Repeat("=", 70), c.c.reset)
}

// Warningf prints a warning message
func (c *Console) Warningf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnLine(fmt.Sprintf(format, args...))
}

// Errorf prints an error message
func (c *Console) Errorf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorLine(fmt.Sprintf(format, args...))
}

func (c *Console) warnLine(msg string) {
	fmt.Fprintf(c.writer, "%s⚠ Warning: %s%s\n", c.c.yellow, msg, c.c.reset)
}

func (c *Console) errorLine(msg string) {
	fmt.Fprintf(c.writer, "%s✗ Error: %s%s\n", c.c.boldRed, msg, c.c.reset)
}

// Emit renders one workflow event according to the verbosity.
func (c *Console) Emit(e join.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case e.Level == join.LevelDebug:
		if c.verbosity >= VerbosityDebug {
			fmt.Fprintf(c.writer, "%s[DEBUG] %s: %s%s\n", c.c.gray, e.Component, e.Message, c.c.reset)
		}
	case e.Result != nil:
		c.stepResult(e)
	case e.Tick != nil:
		c.tick(e)
	case e.Level == join.LevelError:
		c.errorLine(e.Message)
	case c.verbosity >= VerbosityNormal:
		fmt.Fprintf(c.writer, "%s%s%s\n", c.c.salmon, e.Message, c.c.reset)
	}
}

func (c *Console) stepResult(e join.Event) {
	switch e.Result.Status {
	case join.StatusSuccess:
		if c.verbosity >= VerbosityNormal {
			fmt.Fprintf(c.writer, "%s✓ %s%s\n", c.c.boldGreen, e.Message, c.c.reset)
		}
	case join.StatusSkipped:
		if e.Level == join.LevelError {
			c.warnLine(e.Message)
		} else if c.verbosity >= VerbosityVerbose {
			fmt.Fprintf(c.writer, "%s→ %s%s\n", c.c.gray, e.Message, c.c.reset)
		}
	default:
		c.errorLine(e.Message)
	}
}

func (c *Console) tick(e join.Event) {
	if e.Tick.Err != nil {
		c.warnLine(e.Message)
		return
	}
	if c.verbosity >= VerbosityVerbose {
		fmt.Fprintf(c.writer, "%s  • %s%s\n", c.c.gray, e.Message, c.c.reset)
	}
}

// Summary prints the final attempt summary. It is shown at every verbosity.
func (c *Console) Summary(s *AttemptSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.writer)
	c.rule()
	fmt.Fprintf(c.writer, "%s  JOIN SUMMARY%s\n", c.c.boldWhite, c.c.reset)
	c.rule()

	fmt.Fprint(c.writer, "  Status: ")
	switch {
	case s.Status == string(join.OutcomeFailed):
		fmt.Fprintf(c.writer, "%s✗ FAILED%s\n", c.c.boldRed, c.c.reset)
	case s.Joined:
		fmt.Fprintf(c.writer, "%s✓ JOINED, CLOSED%s\n", c.c.boldGreen, c.c.reset)
	default:
		fmt.Fprintln(c.writer, strings.ToUpper(s.Status))
	}

	fmt.Fprintf(c.writer, "  Meeting: %s\n", s.MeetingURL)
	fmt.Fprintf(c.writer, "  Name: %s\n", s.DisplayName)
	fmt.Fprintf(c.writer, "  Duration: %s\n", s.Duration.Round(time.Second))
	if s.Heartbeats > 0 {
		fmt.Fprintf(c.writer, "  Heartbeats: %d\n", s.Heartbeats)
	}

	if c.verbosity >= VerbosityVerbose && len(s.Steps) > 0 {
		fmt.Fprintf(c.writer, "\n  Steps:\n")
		for _, st := range s.Steps {
			fmt.Fprintf(c.writer, "    %s %s", stepMark(st.Status), st.Step)
			if note := st.Note(); note != "" {
				fmt.Fprintf(c.writer, " (%s)", note)
			}
			fmt.Fprintln(c.writer)
		}
	}

	if s.LogPath != "" {
		fmt.Fprintf(c.writer, "  Log: %s\n", s.LogPath)
	}

	if s.Reason != "" && s.Status == string(join.OutcomeFailed) {
		fmt.Fprintln(c.writer)
		fmt.Fprintf(c.writer, "%s  Error Details:%s\n", c.c.boldRed, c.c.reset)
		fmt.Fprintf(c.writer, "%s    %s%s\n", c.c.red, s.Reason, c.c.reset)
	}

	c.rule()
	fmt.Fprintln(c.writer)
}

func stepMark(status string) string {
	switch status {
	case string(join.StatusSuccess):
		return "✓"
	case string(join.StatusSkipped):
		return "⚠"
	default:
		return "✗"
	}
}
