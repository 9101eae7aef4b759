package join

import (
	"fmt"
	"time"
)

// StepName identifies one step of the join workflow.
type StepName string

const (
	StepNavigate     StepName = "navigate"
	StepFillName     StepName = "fill_name"
	StepClickJoin    StepName = "click_join"
	StepDetectAuth   StepName = "detect_auth"
	StepFillUser     StepName = "fill_user"
	StepFillPassword StepName = "fill_password"
	StepClickLogin   StepName = "click_login"
	StepVerifyMedia  StepName = "verify_media"
)

// Policy decides whether a failed step ends the attempt.
type Policy int

const (
	// PolicyFatal terminates the attempt on failure.
	PolicyFatal Policy = iota
	// PolicyTolerated logs the failure and moves on.
	PolicyTolerated
)

func (p Policy) String() string {
	if p == PolicyTolerated {
		return "tolerated"
	}
	return "fatal"
}

// Status is the variant of a StepResult.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// ErrorKind classifies a failure.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindTimeout       ErrorKind = "timeout"
	KindDriverError   ErrorKind = "driver_error"
	KindConfigInvalid ErrorKind = "config_invalid"
	KindCancelled     ErrorKind = "cancelled"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Step     StepName
	Status   Status
	Policy   Policy
	Reason   string    // set for skipped results
	Kind     ErrorKind // set for failed results
	Detail   string    // set for failed results
	Duration time.Duration
}

// Succeeded reports whether the step completed.
func (r StepResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

func (r StepResult) String() string {
	switch r.Status {
	case StatusSkipped:
		return fmt.Sprintf("%s skipped: %s", r.Step, r.Reason)
	case StatusFailed:
		return fmt.Sprintf("%s failed (%s): %s", r.Step, r.Kind, r.Detail)
	default:
		return fmt.Sprintf("%s succeeded", r.Step)
	}
}

// State is a node of the join state machine.
type State int

const (
	StateIdle State = iota
	StateNavigating
	StateEnteringName
	StateJoining
	StateDetectingAuth
	StateAuthenticating
	StateVerifyingMedia
	StateActive
	StateTerminated
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateNavigating:     "navigating",
	StateEnteringName:   "entering_name",
	StateJoining:        "joining",
	StateDetectingAuth:  "detecting_auth",
	StateAuthenticating: "authenticating",
	StateVerifyingMedia: "verifying_media",
	StateActive:         "active",
	StateTerminated:     "terminated",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// OutcomeStatus is the terminal status of an attempt.
type OutcomeStatus string

const (
	OutcomeClosed OutcomeStatus = "closed"
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is the terminal result of a join attempt.
type Outcome struct {
	Status OutcomeStatus
	Kind   ErrorKind
	Reason string

	// Joined is true once the attempt reached the active state.
	Joined bool

	// Heartbeats is the number of heartbeat ticks completed.
	Heartbeats int
}

// Failed reports whether the attempt ended in failure.
func (o Outcome) Failed() bool {
	return o.Status == OutcomeFailed
}

func (o Outcome) String() string {
	if o.Failed() {
		return fmt.Sprintf("failed (%s): %s", o.Kind, o.Reason)
	}
	return fmt.Sprintf("closed after %d heartbeat(s)", o.Heartbeats)
}

func failedOutcome(kind ErrorKind, reason string) Outcome {
	return Outcome{Status: OutcomeFailed, Kind: kind, Reason: reason}
}
