package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/entrhq/autojoin/pkg/browser"
	"github.com/entrhq/autojoin/pkg/config"
	"github.com/entrhq/autojoin/pkg/join"
	"github.com/entrhq/autojoin/pkg/logging"
	"github.com/entrhq/autojoin/pkg/report"
)

// errAttemptFailed is returned when the attempt ran and failed. The console
// has already reported it.
var errAttemptFailed = errors.New("join attempt failed")

type joinOptions struct {
	file       string
	url        string
	baseURL    string
	meetingID  string
	name       string
	user       string
	headless   bool
	noInstall  bool
	interval   time.Duration
	screenshot string
	verbosity  string
	artifacts  string
}

func newJoinCmd(root *rootOptions, deps *Dependencies) *cobra.Command {
	opts := &joinOptions{}

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join the configured meeting and stay until interrupted",
		Long: "Join merges the stored settings, an optional YAML attempt file, the flags " +
			"below and the AUTOJOIN_USER_NAME / AUTOJOIN_USER_PASSWORD environment " +
			"variables, in that order, then joins and keeps the session alive until " +
			"SIGINT or SIGTERM.",
		Example: "  autojoin join --url https://meet.jit.si/standup --name Recorder\n" +
			"  autojoin join --file attempt.yaml --headless=false --verbosity verbose",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := root.manager()
			if err != nil {
				return err
			}
			overrides := opts.overrides(cmd)
			return runJoin(cmd.Context(), cmd.OutOrStdout(), manager, opts, overrides, deps)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "YAML attempt file")
	f.StringVar(&opts.url, "url", "", "full meeting URL")
	f.StringVar(&opts.baseURL, "base-url", "", "meeting server URL, combined with --meeting-id")
	f.StringVar(&opts.meetingID, "meeting-id", "", "meeting room name")
	f.StringVarP(&opts.name, "name", "n", "", "display name shown to participants")
	f.StringVar(&opts.user, "user", "", "login user name; the password is read from "+config.EnvUserPassword)
	f.BoolVar(&opts.headless, "headless", true, "run the browser without a window")
	f.BoolVar(&opts.noInstall, "no-install", false, "do not download the browser before launch")
	f.DurationVar(&opts.interval, "interval", 0, "heartbeat interval (default from settings)")
	f.StringVar(&opts.screenshot, "screenshot", "", "heartbeat screenshot path")
	f.StringVar(&opts.verbosity, "verbosity", "", "console verbosity: quiet, normal, verbose or debug")
	f.StringVar(&opts.artifacts, "artifacts", "", "directory for attempt.json and summary.md")

	return cmd
}

// overrides keeps only the flags the user actually set.
func (o *joinOptions) overrides(cmd *cobra.Command) config.Overrides {
	ov := config.Overrides{
		MeetingURL:        o.url,
		BaseURL:           o.baseURL,
		MeetingID:         o.meetingID,
		DisplayName:       o.name,
		UserName:          o.user,
		HeartbeatInterval: o.interval,
		ScreenshotPath:    o.screenshot,
	}
	if cmd.Flags().Changed("headless") {
		headless := o.headless
		ov.Headless = &headless
	}
	if o.noInstall {
		install := false
		ov.Install = &install
	}
	return ov
}

// runJoin performs one join attempt and writes its artifacts.
func runJoin(ctx context.Context, out io.Writer, manager *config.Manager, opts *joinOptions, overrides config.Overrides, deps *Dependencies) error {
	var attempt *config.AttemptFile
	if opts.file != "" {
		var err error
		if attempt, err = config.LoadAttemptFile(opts.file); err != nil {
			return err
		}
	}

	resolved, err := config.ResolveFrom(manager, attempt, overrides)
	if err != nil {
		return err
	}

	logSettings := config.Logging(manager).Settings()
	verbosity := logSettings.Verbosity
	if opts.verbosity != "" {
		verbosity = opts.verbosity
	}
	console := report.NewConsole(report.ParseVerbosity(verbosity))
	console.SetOutput(out, isTerminal(out))

	logger, err := logging.NewLogger("autojoin", logging.Options{
		Dir:    logSettings.Dir,
		Level:  logSettings.Level,
		Format: logSettings.Format,
	})
	if err != nil {
		console.Warningf("Log file unavailable, logging to stderr: %v", err)
	}
	defer logger.Close()

	console.Header(fmt.Sprintf("Joining %s as %q", resolved.Meeting.MeetingURL(), resolved.Meeting.DisplayName()))
	logger.Infof("Join attempt for %s", resolved.Meeting)

	summary := report.NewSummary(resolved.Meeting)
	summary.LogPath = logger.LogPath()
	summary.SessionID = logger.SessionID()

	artifactsDir := logSettings.ArtifactsDir
	if opts.artifacts != "" {
		artifactsDir = opts.artifacts
	}
	artifacts := report.NewArtifactWriter(artifactsDir)

	outcome, results := attemptJoin(ctx, resolved, logger, console, summary, deps)

	summary.Finish(outcome, results)
	console.Summary(summary)
	logger.Infof("Attempt finished: %s", outcome)

	if err := artifacts.WriteAll(summary); err != nil {
		console.Warningf("Could not write artifacts: %v", err)
		logger.Warnf("Could not write artifacts: %v", err)
	}

	if outcome.Failed() {
		return errAttemptFailed
	}
	return nil
}

func attemptJoin(ctx context.Context, resolved config.Resolved, logger *logging.Logger, console *report.Console, summary *report.AttemptSummary, deps *Dependencies) (join.Outcome, []join.StepResult) {
	settings := resolved.Browser

	driver, err := deps.Launch(settings.SessionOptions())
	if err != nil {
		reason := fmt.Sprintf("could not start browser: %v", err)
		console.Errorf("%s", reason)
		logger.Errorf("%s", reason)
		return join.Outcome{Status: join.OutcomeFailed, Kind: join.KindDriverError, Reason: reason}, nil
	}

	o, err := join.New(resolved.Meeting, driver,
		join.WithEvents(join.MultiSink(console, newLogSink(logger.WithComponent("join")))),
		join.WithTimeouts(settings.Timeouts()),
		join.WithHeartbeat(settings.HeartbeatInterval, settings.ScreenshotPath),
		join.WithTickHandler(summary.ObserveTick),
	)
	if err != nil {
		_ = driver.Close()
		return join.Outcome{Status: join.OutcomeFailed, Kind: join.KindConfigInvalid, Reason: err.Error()}, nil
	}

	outcome := o.Run(ctx)
	if inspector, ok := driver.(browser.Inspector); ok {
		summary.FinalURL = inspector.Info().CurrentURL
	}
	return outcome, o.Results()
}
