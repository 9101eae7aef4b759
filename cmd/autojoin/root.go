package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/entrhq/autojoin/pkg/browser"
	"github.com/entrhq/autojoin/pkg/config"
	"github.com/entrhq/autojoin/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "none"
)

// Dependencies are the process-level collaborators of the commands.
type Dependencies struct {
	// Launch starts a browser for one join attempt.
	Launch func(browser.SessionOptions) (browser.Driver, error)

	// Settings runs the settings window and reports whether a join was
	// requested.
	Settings func(*config.Manager) (bool, error)
}

func defaultDependencies() *Dependencies {
	return &Dependencies{
		Launch: func(opts browser.SessionOptions) (browser.Driver, error) {
			return browser.Launch(opts)
		},
		Settings: func(m *config.Manager) (bool, error) {
			return tui.Run(m)
		},
	}
}

type rootOptions struct {
	configPath string
}

// manager loads the settings file named by --config, or the default one.
func (o *rootOptions) manager() (*config.Manager, error) {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return config.New(path)
}

// newRootCmd builds the autojoin command tree.
func newRootCmd(deps *Dependencies) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "autojoin",
		Short: "Join a video meeting with a headless browser and stay in it",
		Long: "autojoin opens a Jitsi meeting in Chromium, enters a display name, " +
			"logs in when the server asks for it and keeps the session alive with " +
			"periodic screenshots until interrupted.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("autojoin %s (commit %s)\n", version, commit))

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (default ~/.autojoin/config.json)")

	rootCmd.AddCommand(newJoinCmd(opts, deps))
	rootCmd.AddCommand(newSettingsCmd(opts, deps))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "autojoin %s (commit %s)\n", version, commit)
		},
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
