// Command client drives the session coordinator against the mock backend:
// log in, inspect the profile, fire concurrent calls and log out.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-admin-session/internal/config"
)

var (
	baseURL string
	verbose bool
)

func rootCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "admin-client",
		Short:         "Admin dashboard session client",
		Long:          "Logs in to the admin backend and exercises token refresh, routing and logout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).Level(level)
		},
	}

	cmd.PersistentFlags().StringVar(&baseURL, "base-url", cfg.GetAPIBaseURL(), "API base URL including the prefix")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		loginCmd(cfg),
		whoamiCmd(cfg),
		burstCmd(cfg),
		logoutCmd(cfg),
		settingsCmd(cfg),
	)
	return cmd
}

func execute() error {
	ctx, cancelOnSignal := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancelOnSignal()

	if err := rootCmd(config.New()).ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
