package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is returned (possibly wrapped) when an element or marker
	// did not show up within the caller's timeout.
	ErrTimeout = errors.New("timed out")

	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("browser session closed")
)

// Driver is the browser capability the join workflow depends on.
//
// Implementations are not safe for concurrent use; a single caller owns a
// Driver for its whole lifetime.
type Driver interface {
	// Navigate loads url in the current page.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// Find waits up to timeout for the located element to become actionable.
	// A nil Element with a nil error, or an error matching ErrTimeout, means
	// the element was not found in time.
	Find(ctx context.Context, loc Locator, timeout time.Duration) (Element, error)

	// Act applies action to an element previously returned by Find.
	Act(ctx context.Context, el Element, action Action) error

	// WaitForMarker reports whether the located marker became visible
	// within timeout.
	WaitForMarker(ctx context.Context, loc Locator, timeout time.Duration) (Marker, error)

	// Screenshot captures the current page to path.
	Screenshot(ctx context.Context, path string) error

	// Close releases the browser. It is safe to call more than once.
	Close() error
}

// Inspector is implemented by drivers that can describe their session.
type Inspector interface {
	Info() SessionInfo
}

// SessionInfo describes a browser session.
type SessionInfo struct {
	CurrentURL string
	Headless   bool
}

var _ Inspector = (*Session)(nil)

// Element is an opaque handle to a located UI element.
type Element interface {
	// Locator returns the locator the element was found with.
	Locator() Locator
}

// LocatorKind selects the lookup strategy of a Locator.
type LocatorKind string

const (
	ByRoleKind        LocatorKind = "role"
	ByPlaceholderKind LocatorKind = "placeholder"
	ByTextKind        LocatorKind = "text"
	ByTagKind         LocatorKind = "tag"
)

// Locator describes how to find UI element(s) on the page.
type Locator struct {
	Kind LocatorKind

	// Role is the ARIA role for ByRoleKind (e.g. "button", "textbox").
	Role string

	// Value is the accessible name, placeholder, text or tag name depending on Kind.
	Value string
}

// ByRole locates an element by ARIA role and accessible name.
func ByRole(role, name string) Locator {
	return Locator{Kind: ByRoleKind, Role: role, Value: name}
}

// ByPlaceholder locates an input by its placeholder text.
func ByPlaceholder(text string) Locator {
	return Locator{Kind: ByPlaceholderKind, Value: text}
}

// ByText locates an element containing text.
func ByText(text string) Locator {
	return Locator{Kind: ByTextKind, Value: text}
}

// ByTag locates an element by tag name.
func ByTag(tag string) Locator {
	return Locator{Kind: ByTagKind, Value: tag}
}

// String returns a human readable description used in log messages.
func (l Locator) String() string {
	switch l.Kind {
	case ByRoleKind:
		return fmt.Sprintf("%s named %q", l.Role, l.Value)
	case ByPlaceholderKind:
		return fmt.Sprintf("field with placeholder %q", l.Value)
	case ByTextKind:
		return fmt.Sprintf("text %q", l.Value)
	case ByTagKind:
		return fmt.Sprintf("<%s> element", l.Value)
	default:
		return fmt.Sprintf("unknown locator %q", l.Value)
	}
}

// ActionKind is the type of interaction applied to an element.
type ActionKind string

const (
	FillAction  ActionKind = "fill"
	ClickAction ActionKind = "click"
)

// Action is an interaction with a located element.
type Action struct {
	Kind ActionKind
	Text string

	// Secret marks Text as sensitive; it is never rendered.
	Secret bool
}

// Fill types text into an input.
func Fill(text string) Action {
	return Action{Kind: FillAction, Text: text}
}

// FillSecret types sensitive text into an input.
func FillSecret(text string) Action {
	return Action{Kind: FillAction, Text: text, Secret: true}
}

// Click clicks an element.
func Click() Action {
	return Action{Kind: ClickAction}
}

// String describes the action without leaking secrets.
func (a Action) String() string {
	switch a.Kind {
	case FillAction:
		if a.Secret {
			return "fill <redacted>"
		}
		return fmt.Sprintf("fill %q", a.Text)
	case ClickAction:
		return "click"
	default:
		return string(a.Kind)
	}
}

// Marker is the observed state of a transient UI signal.
type Marker int

const (
	MarkerAbsent Marker = iota
	MarkerPresent
)

func (m Marker) String() string {
	if m == MarkerPresent {
		return "present"
	}
	return "absent"
}
