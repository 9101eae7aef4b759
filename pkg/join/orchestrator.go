package join

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/autojoin/pkg/browser"
	"github.com/entrhq/autojoin/pkg/meeting"
)

// UI labels of the supported meeting page.
const (
	NameFieldLabel    = "Enter your name"
	JoinButtonLabel   = "Join Meeting"
	AuthMarkerText    = "Authentication required"
	UserFieldHint     = "User identifier"
	PasswordFieldHint = "Password"
	LoginButtonLabel  = "Login"
	MediaElementTag   = "video"
)

// Timeouts bounds each kind of wait in the workflow.
type Timeouts struct {
	Navigate time.Duration
	Step     time.Duration
	Auth     time.Duration
	Media    time.Duration
}

// DefaultTimeouts returns the stock timeouts.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Navigate: 30 * time.Second,
		Step:     10 * time.Second,
		Auth:     10 * time.Second,
		Media:    20 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Navigate <= 0 {
		t.Navigate = d.Navigate
	}
	if t.Step <= 0 {
		t.Step = d.Step
	}
	if t.Auth <= 0 {
		t.Auth = d.Auth
	}
	if t.Media <= 0 {
		t.Media = d.Media
	}
	return t
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithEvents sets the event sink.
func WithEvents(sink EventSink) Option {
	return func(o *Orchestrator) {
		if sink != nil {
			o.events = sink
		}
	}
}

// WithTimeouts overrides step timeouts. Zero fields keep their defaults.
func WithTimeouts(t Timeouts) Option {
	return func(o *Orchestrator) {
		o.timeouts = t.withDefaults()
	}
}

// WithHeartbeat sets the heartbeat interval and screenshot path.
func WithHeartbeat(interval time.Duration, screenshotPath string) Option {
	return func(o *Orchestrator) {
		o.interval = interval
		o.screenshotPath = screenshotPath
	}
}

// WithTickHandler registers a callback invoked after every heartbeat tick.
func WithTickHandler(fn func(Tick)) Option {
	return func(o *Orchestrator) {
		o.onTick = fn
	}
}

// Orchestrator runs one join attempt: it sequences the steps, decides per
// step whether a failure ends the attempt, then keeps the session alive.
//
// An Orchestrator is single-use and exclusively owns its driver. The driver
// is closed on every exit path of Run.
type Orchestrator struct {
	cfg    meeting.Config
	driver browser.Driver
	exec   *StepExecutor
	events EventSink

	timeouts       Timeouts
	interval       time.Duration
	screenshotPath string
	onTick         func(Tick)

	mu      sync.Mutex
	state   State
	results []StepResult
	started bool

	stop     chan struct{}
	stopOnce sync.Once
}

// New validates its inputs and returns an idle orchestrator.
func New(cfg meeting.Config, driver browser.Driver, opts ...Option) (*Orchestrator, error) {
	if cfg.IsZero() {
		return nil, fmt.Errorf("%w: config must be built with meeting.NewConfig", meeting.ErrConfigInvalid)
	}
	if driver == nil {
		return nil, errors.New("browser driver is required")
	}

	o := &Orchestrator{
		cfg:      cfg,
		driver:   driver,
		events:   discardSink{},
		timeouts: DefaultTimeouts(),
		interval: DefaultHeartbeatInterval,
		state:    StateIdle,
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.exec = NewStepExecutor(driver, o.events)
	o.exec.stateFn = o.State
	return o, nil
}

// RunJoinAttempt builds an orchestrator and runs it until ctx is cancelled
// or a fatal step fails. ctx is the attempt's single cancellation handle:
// cancelling it before Active fails the attempt with KindCancelled, and
// cancelling it during the heartbeat closes it. Callers that need Stop use
// New and Run instead. The driver is handed over and always closed. The
// error is non-nil only when the attempt could not start.
func RunJoinAttempt(ctx context.Context, cfg meeting.Config, driver browser.Driver, opts ...Option) (Outcome, error) {
	o, err := New(cfg, driver, opts...)
	if err != nil {
		if driver != nil {
			_ = driver.Close()
		}
		return failedOutcome(KindConfigInvalid, err.Error()), err
	}
	return o.Run(ctx), nil
}

// Stop requests the end of the attempt. It interrupts a waiting step or
// ends the heartbeat at the next boundary. Safe to call from any goroutine,
// more than once.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		close(o.stop)
	})
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Results returns the step results recorded so far, in execution order.
func (o *Orchestrator) Results() []StepResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]StepResult, len(o.results))
	copy(out, o.results)
	return out
}

// Run executes the workflow and blocks until the attempt terminates.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		o.emit(LevelError, "Run called twice on the same orchestrator")
		return failedOutcome(KindConfigInvalid, "orchestrator already used; create a new one per attempt")
	}
	o.started = true
	o.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-o.stop:
			cancel()
		case <-runCtx.Done():
		}
	}()

	defer func() {
		if err := o.driver.Close(); err != nil {
			o.emit(LevelError, fmt.Sprintf("Failed to close browser: %v", err))
		} else {
			o.emit(LevelDebug, "Browser session released")
		}
		o.transition(StateTerminated)
	}()

	o.emit(LevelInfo, fmt.Sprintf("Starting join attempt: %s", o.cfg))

	if r, halt := o.navigate(runCtx); halt {
		return o.terminate(r)
	}
	if r, halt := o.enterName(runCtx); halt {
		return o.terminate(r)
	}
	if r, halt := o.join(runCtx); halt {
		return o.terminate(r)
	}

	authRequired, r, halt := o.detectAuth(runCtx)
	if halt {
		return o.terminate(r)
	}
	if authRequired {
		if r, halt := o.authenticate(runCtx); halt {
			return o.terminate(r)
		}
	}

	if r, halt := o.verifyMedia(runCtx); halt {
		return o.terminate(r)
	}

	o.transition(StateActive)
	o.emit(LevelInfo, "Joined meeting")

	hb := &Heartbeat{
		Driver:   o.driver,
		Interval: o.interval,
		Path:     o.screenshotPath,
		Events:   o.events,
	}
	outcome := hb.Run(runCtx, o.stop, o.onTick)
	outcome.Joined = true
	return outcome
}

func (o *Orchestrator) navigate(ctx context.Context) (StepResult, bool) {
	o.transition(StateNavigating)
	return o.record(o.exec.Navigate(ctx, Step{
		Name:    StepNavigate,
		Timeout: o.timeouts.Navigate,
		Policy:  PolicyFatal,
	}, o.cfg.MeetingURL()))
}

// Some deployments skip the pre-join screen, so the name field is optional.
func (o *Orchestrator) enterName(ctx context.Context) (StepResult, bool) {
	o.transition(StateEnteringName)
	return o.record(o.exec.Execute(ctx, Step{
		Name:       StepFillName,
		Locate:     browser.ByRole("textbox", NameFieldLabel),
		Action:     browser.Fill(o.cfg.DisplayName()),
		Timeout:    o.timeouts.Step,
		Policy:     PolicyTolerated,
		MissReason: "no pre-join name field",
	}))
}

func (o *Orchestrator) join(ctx context.Context) (StepResult, bool) {
	o.transition(StateJoining)
	return o.record(o.exec.Execute(ctx, Step{
		Name:    StepClickJoin,
		Locate:  browser.ByRole("button", JoinButtonLabel),
		Action:  browser.Click(),
		Timeout: o.timeouts.Step,
		Policy:  PolicyFatal,
	}))
}

// detectAuth waits once for the authentication prompt. Not seeing it, or
// failing to look for it, both mean no authentication is required.
func (o *Orchestrator) detectAuth(ctx context.Context) (bool, StepResult, bool) {
	o.transition(StateDetectingAuth)
	r, halt := o.record(o.exec.Await(ctx, Step{
		Name:       StepDetectAuth,
		Locate:     browser.ByText(AuthMarkerText),
		Timeout:    o.timeouts.Auth,
		Policy:     PolicyTolerated,
		MissReason: "no auth required",
	}))
	return r.Succeeded(), r, halt
}

// authenticate fills the login form. The three steps form one tolerated
// unit: each is attempted once whatever happened to the previous one.
func (o *Orchestrator) authenticate(ctx context.Context) (StepResult, bool) {
	o.transition(StateAuthenticating)

	user, password, ok := o.cfg.Credentials()
	if !ok {
		o.emit(LevelError, "Authentication required but no credentials are configured")
		var last StepResult
		for _, name := range []StepName{StepFillUser, StepFillPassword, StepClickLogin} {
			last, _ = o.record(StepResult{
				Step:   name,
				Status: StatusSkipped,
				Policy: PolicyTolerated,
				Reason: "no credentials configured",
			})
		}
		o.hintManualLogin()
		return last, false
	}

	steps := []Step{
		{
			Name:    StepFillUser,
			Locate:  browser.ByPlaceholder(UserFieldHint),
			Action:  browser.Fill(user),
			Timeout: o.timeouts.Step,
		},
		{
			Name:    StepFillPassword,
			Locate:  browser.ByPlaceholder(PasswordFieldHint),
			Action:  browser.FillSecret(password),
			Timeout: o.timeouts.Step,
		},
		{
			Name:    StepClickLogin,
			Locate:  browser.ByRole("button", LoginButtonLabel),
			Action:  browser.Click(),
			Timeout: o.timeouts.Step,
		},
	}

	var last StepResult
	allOK := true
	for _, step := range steps {
		step.Policy = PolicyTolerated
		step.MissLevel = LevelError

		r, halt := o.record(o.exec.Execute(ctx, step))
		if halt {
			return r, true
		}
		allOK = allOK && r.Succeeded()
		last = r
	}

	if allOK {
		o.emit(LevelInfo, "Submitted login credentials")
	} else {
		o.hintManualLogin()
	}
	return last, false
}

func (o *Orchestrator) hintManualLogin() {
	if !o.cfg.Headless() {
		o.emit(LevelInfo, "Login did not complete; finish signing in from the browser window")
	}
}

// verifyMedia looks for a video element. It confirms the join but is not
// required to keep the session open.
func (o *Orchestrator) verifyMedia(ctx context.Context) (StepResult, bool) {
	o.transition(StateVerifyingMedia)
	return o.record(o.exec.Await(ctx, Step{
		Name:       StepVerifyMedia,
		Locate:     browser.ByTag(MediaElementTag),
		Timeout:    o.timeouts.Media,
		Policy:     PolicyTolerated,
		MissReason: "no video element yet",
	}))
}

// record stores r and reports whether the attempt must stop.
func (o *Orchestrator) record(r StepResult) (StepResult, bool) {
	o.mu.Lock()
	o.results = append(o.results, r)
	o.mu.Unlock()

	halt := r.Status == StatusFailed && (r.Policy == PolicyFatal || r.Kind == KindCancelled)
	return r, halt
}

func (o *Orchestrator) terminate(r StepResult) Outcome {
	if r.Kind == KindCancelled {
		return failedOutcome(KindCancelled, fmt.Sprintf("join cancelled during %s", r.Step))
	}
	return failedOutcome(r.Kind, fmt.Sprintf("%s: %s", r.Step, r.Detail))
}

// transition moves the machine forward. Backward moves are ignored: no
// state is ever re-entered.
func (o *Orchestrator) transition(next State) {
	o.mu.Lock()
	prev := o.state
	if next <= prev {
		o.mu.Unlock()
		return
	}
	o.state = next
	o.mu.Unlock()

	o.emit(LevelDebug, fmt.Sprintf("State %s -> %s", prev, next))
}

func (o *Orchestrator) emit(level Level, msg string) {
	o.events.Emit(Event{
		Time:      time.Now(),
		Level:     level,
		Component: ComponentOrchestrator,
		Message:   msg,
		State:     o.State(),
	})
}
