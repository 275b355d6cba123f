package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/spiderweb/internal/app"
)

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintf(os.Stderr, "spiderweb: %v\n\n%s", err, cmd.UsageString())
			return 2
		}
		fmt.Fprintf(os.Stderr, "spiderweb: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var (
		target     string
		watch      string
		configPath string
		pollMS     int
	)

	cmd := &cobra.Command{
		Use:   "spiderweb (--target <host> | --watch <log>)",
		Short: "Live indicator dashboard for scan logs",
		Long: `spiderweb follows a scan log and groups the indicators it finds
(IP addresses, emails, domains, onion addresses, keys, credentials)
into a live terminal dashboard.

With --target it starts a SpiderFoot scan writing to a temp log and opens
a new terminal window watching it. With --watch it shows the dashboard for
an existing log in the current terminal.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{fmt.Sprintf("unexpected argument %q", args[0])}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (target == "") == (watch == "") {
				return usageError{"exactly one of --target or --watch is required"}
			}
			if pollMS < 0 {
				return usageError{"--poll must not be negative"}
			}

			opts := app.Options{
				ConfigPath:   configPath,
				PollInterval: time.Duration(pollMS) * time.Millisecond,
				Out:          cmd.ErrOrStderr(),
			}
			if watch != "" {
				return app.Watch(cmd.Context(), watch, opts)
			}
			return app.Launch(cmd.Context(), target, opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err.Error()}
	})

	flags := cmd.Flags()
	flags.StringVarP(&target, "target", "t", "", "start a scan of this target and open the live view in a new terminal")
	flags.StringVarP(&watch, "watch", "w", "", "show the live view for an existing log file")
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/spiderweb/config.toml)")
	flags.IntVar(&pollMS, "poll", 0, "log poll interval in milliseconds (default from config)")
	return cmd
}
