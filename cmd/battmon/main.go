package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/client"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/config"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/display"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/source"
)

var (
	logLevel   = "info"
	configPath = config.DefaultFileName
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, display.ErrNotTerminal):
		fmt.Fprintln(os.Stderr, "\nError: the gauge needs an interactive console")
		fmt.Fprintln(os.Stderr, "  - Run battmon directly in a terminal window")
		fmt.Fprintln(os.Stderr, "  - Or pass '--force' to draw anyway")
	case errors.Is(err, source.ErrNoBattery):
		fmt.Fprintln(os.Stderr, "\nError: no battery was found on this machine")
	case errors.Is(err, client.ErrMonitorNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: battmon is not running at the given address")
		fmt.Fprintln(os.Stderr, "Was it started with '--listen'?")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Check the permissions of the socket file")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battmon",
		Short: "battmon is a console battery gauge",
		Long: `battmon is a console battery gauge.

It shows the battery status, charge rate, capacities, an estimate of the
time remaining and a bar of the current charge, refreshed in place. The
window is brought to the front when the battery status changes.

Run without a command to start the gauge. Press <Esc> to exit.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	monitorCmd := NewMonitorCommand()
	// The gauge is the default action.
	cmd.RunE = monitorCmd.RunE
	cmd.Flags().AddFlagSet(monitorCmd.Flags())

	cmd.AddCommand(
		monitorCmd,
		NewStatusCommand(),
		NewConfigCommand(),
		NewVersionCommand(),
	)

	return cmd
}
