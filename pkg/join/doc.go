// Package join implements the auto-join workflow for a meeting room.
//
// The workflow is a single-use state machine driven by an Orchestrator:
//
//	Idle → Navigating → EnteringName → Joining → DetectingAuth
//	     → [Authenticating] → VerifyingMedia → Active → Terminated
//
// Each state runs one or more steps through a StepExecutor. Every step
// declares a Policy: a Fatal failure terminates the attempt, a Tolerated one
// is logged and the workflow moves on. The step table is:
//
//	Step            Locate                                 Policy
//	navigate        meeting URL                            fatal
//	fill_name       textbox "Enter your name"              tolerated
//	click_join      button "Join Meeting"                  fatal
//	detect_auth     text "Authentication required" (10s)   tolerated, absence = no auth
//	fill_user       placeholder "User identifier"          tolerated, logged as error
//	fill_password   placeholder "Password"                 tolerated, logged as error
//	click_login     button "Login"                         tolerated, logged as error
//	verify_media    <video> element (20s)                  tolerated
//
// Once active, a Heartbeat captures a screenshot on every tick until the
// attempt is stopped through its context or Orchestrator.Stop.
//
// The package only talks to the browser through browser.Driver and only
// reports through EventSink, so it can be exercised without a browser.
package join
