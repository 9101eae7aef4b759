package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Default values for new sessions.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
)

// DefaultArgs are the Chromium flags a meeting bot needs: media permission
// prompts are auto-accepted and fake camera/microphone devices are used.
var DefaultArgs = []string{
	"--use-fake-ui-for-media-stream",
	"--use-fake-device-for-media-stream",
	"--no-sandbox",
	"--disable-setuid-sandbox",
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout is the default timeout for page operations
	Timeout time.Duration

	// Install downloads the Playwright driver and Chromium before launch
	Install bool

	// Args overrides DefaultArgs when non-nil
	Args []string

	// Permissions granted to the meeting origin (default camera and microphone)
	Permissions []string
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Session is a Playwright backed Driver: one Playwright process, one
// Chromium instance, one context and one page for one join attempt.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	headless   bool
	timeout    time.Duration
	currentURL string

	closeOnce sync.Once
	closed    bool
}

var _ Driver = (*Session)(nil)

// Launch starts Playwright and opens a fresh browser session.
func Launch(opts SessionOptions) (*Session, error) {
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Args == nil {
		opts.Args = DefaultArgs
	}
	if opts.Permissions == nil {
		opts.Permissions = []string{"camera", "microphone"}
	}

	// Keep Playwright quiet so it does not interfere with the console reporter or TUI
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	s := &Session{
		pw:         pw,
		headless:   opts.Headless,
		timeout:    opts.Timeout,
		currentURL: "about:blank",
	}

	s.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args:     opts.Args,
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	s.context, err = s.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
		Permissions: opts.Permissions,
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	s.page, err = s.context.NewPage()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	s.page.SetDefaultTimeout(toMillis(opts.Timeout))

	return s, nil
}

// Navigate navigates the session's page to url.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(s.millis(timeout)),
	})
	if err != nil {
		return classify(fmt.Sprintf("navigation to %s", url), err)
	}

	s.currentURL = s.page.URL()
	return nil
}

// Find waits for the located element and returns a handle to it.
func (s *Session) Find(ctx context.Context, loc Locator, timeout time.Duration) (Element, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	l, err := s.locator(loc)
	if err != nil {
		return nil, err
	}

	// Tags are checked for presence only: media elements are often rendered
	// off-screen in headless mode.
	state := playwright.WaitForSelectorState("visible")
	if loc.Kind == ByTagKind {
		state = playwright.WaitForSelectorState("attached")
	}

	err = l.WaitFor(playwright.LocatorWaitForOptions{
		State:   &state,
		Timeout: playwright.Float(s.millis(timeout)),
	})
	if err != nil {
		return nil, classify(fmt.Sprintf("wait for %s", loc), err)
	}

	return &element{loc: loc, locator: l}, nil
}

// Act applies action to el.
func (s *Session) Act(ctx context.Context, el Element, action Action) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	e, ok := el.(*element)
	if !ok || e == nil {
		return fmt.Errorf("element %v was not located by this session", el)
	}

	timeout := playwright.Float(s.millis(0))

	switch action.Kind {
	case FillAction:
		if err := e.locator.Fill(action.Text, playwright.LocatorFillOptions{Timeout: timeout}); err != nil {
			return classify(fmt.Sprintf("fill %s", e.loc), err)
		}
	case ClickAction:
		if err := e.locator.Click(playwright.LocatorClickOptions{Timeout: timeout}); err != nil {
			return classify(fmt.Sprintf("click %s", e.loc), err)
		}
		// Clicking may navigate
		s.currentURL = s.page.URL()
	default:
		return fmt.Errorf("unsupported action: %s", action.Kind)
	}

	return nil
}

// WaitForMarker waits for the located marker to become visible.
func (s *Session) WaitForMarker(ctx context.Context, loc Locator, timeout time.Duration) (Marker, error) {
	if err := s.ready(ctx); err != nil {
		return MarkerAbsent, err
	}

	l, err := s.locator(loc)
	if err != nil {
		return MarkerAbsent, err
	}

	state := playwright.WaitForSelectorState("visible")
	err = l.WaitFor(playwright.LocatorWaitForOptions{
		State:   &state,
		Timeout: playwright.Float(s.millis(timeout)),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return MarkerAbsent, nil
		}
		return MarkerAbsent, fmt.Errorf("wait for %s failed: %w", loc, err)
	}

	return MarkerPresent, nil
}

// Screenshot writes a PNG of the current page to path.
func (s *Session) Screenshot(ctx context.Context, path string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create screenshot directory: %w", err)
		}
	}

	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	s.currentURL = s.page.URL()
	return nil
}

// Close closes the page, context and browser and stops Playwright.
// Calls after the first are no-ops.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed = true

		var errs []error
		if s.page != nil {
			s.currentURL = s.page.URL()
			if closeErr := s.page.Close(); closeErr != nil {
				errs = append(errs, closeErr)
			}
		}
		if s.context != nil {
			if closeErr := s.context.Close(); closeErr != nil {
				errs = append(errs, closeErr)
			}
		}
		if s.browser != nil {
			if closeErr := s.browser.Close(); closeErr != nil {
				errs = append(errs, closeErr)
			}
		}
		if s.pw != nil {
			if stopErr := s.pw.Stop(); stopErr != nil {
				errs = append(errs, fmt.Errorf("failed to stop playwright: %w", stopErr))
			}
		}
		err = errors.Join(errs...)
	})
	return err
}

// Info describes the session. After Close it reports the last page URL
// seen, which reveals redirects taken during login.
func (s *Session) Info() SessionInfo {
	url := s.currentURL
	if !s.closed && s.page != nil {
		url = s.page.URL()
	}
	return SessionInfo{CurrentURL: url, Headless: s.headless}
}

func (s *Session) ready(ctx context.Context) error {
	if s.closed || s.page == nil {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *Session) locator(loc Locator) (playwright.Locator, error) {
	switch loc.Kind {
	case ByRoleKind:
		return s.page.GetByRole(playwright.AriaRole(loc.Role), playwright.PageGetByRoleOptions{
			Name: loc.Value,
		}).First(), nil
	case ByPlaceholderKind:
		return s.page.GetByPlaceholder(loc.Value).First(), nil
	case ByTextKind:
		return s.page.GetByText(loc.Value).First(), nil
	case ByTagKind:
		return s.page.Locator(loc.Value).First(), nil
	default:
		return nil, fmt.Errorf("unsupported locator kind: %q", loc.Kind)
	}
}

func (s *Session) millis(timeout time.Duration) float64 {
	if timeout <= 0 {
		timeout = s.timeout
	}
	return toMillis(timeout)
}

// classify maps Playwright timeouts onto ErrTimeout and wraps everything else.
func classify(op string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type element struct {
	loc     Locator
	locator playwright.Locator
}

func (e *element) Locator() Locator {
	return e.loc
}

func (e *element) String() string {
	return e.loc.String()
}
