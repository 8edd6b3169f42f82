package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/api"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/config"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/display"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/events"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/gauge"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/monitor"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/source"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/version"
)

const (
	windowTitle = "BatteryMonitor"
	logFileName = "battmon.log"
	maxLogMB    = 10
	maxBackups  = 3
)

var (
	refreshMs  int
	listenAddr string
	forceDraw  bool
	exitKey    string
)

// NewMonitorCommand .
func NewMonitorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "monitor",
		Short:   "Show the battery gauge until <Esc> is pressed",
		GroupID: gBasic,
		Long: `Show the battery gauge until <Esc> is pressed.

The gauge is redrawn every refresh interval. While it runs, logs are written
to battmon.log next to the config file when logging is enabled in the config,
and discarded otherwise.

With --listen, the current frame, snapshot, config and tick history are also
served over HTTP, on a unix socket (unix:///path/to/sock) or a TCP address
(127.0.0.1:8080).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMonitor(cmd)
		},
	}

	f := cmd.Flags()
	f.IntVar(&refreshMs, "refresh", 0, "refresh interval in milliseconds (default from config, 3000)")
	f.StringVar(&listenAddr, "listen", "", "serve the status API on this address")
	f.BoolVar(&forceDraw, "force", false, "draw even if the output is not a terminal")
	f.StringVar(&exitKey, "exit-key", "esc", "key that exits the gauge (esc, q, x, ...)")

	return cmd
}

func parseExitKey(s string) (byte, error) {
	switch s {
	case "", "esc", "escape":
		return monitor.KeyEscape, nil
	}
	if len(s) != 1 || s[0] < 0x20 || s[0] > 0x7e {
		return 0, pkgerrors.Errorf("invalid exit key %q: must be esc or a single printable character", s)
	}
	return s[0], nil
}

// redirectLogs sends logs to a rotating file while the gauge owns the
// console. The returned func restores stderr.
func redirectLogs(conf config.Config, path string) func() {
	if !conf.Logging() {
		logrus.SetOutput(io.Discard)
		return func() { logrus.SetOutput(os.Stderr) }
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(filepath.Dir(path), logFileName),
		MaxSize:    maxLogMB,
		MaxBackups: maxBackups,
	}
	logrus.SetOutput(lj)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return func() {
		logrus.SetOutput(os.Stderr)
		if err := lj.Close(); err != nil {
			logrus.Warnf("failed to close log file: %v", err)
		}
	}
}

func runMonitor(cmd *cobra.Command) error {
	key, err := parseExitKey(exitKey)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("refresh") && refreshMs <= 0 {
		return pkgerrors.Errorf("invalid refresh interval %d: must be positive", refreshMs)
	}

	conf, err := config.NewFile(configPath)
	if err != nil {
		return err
	}
	if !conf.Exists() {
		logrus.Infof("creating default config at %s", conf.Path())
		if err := conf.Save(); err != nil {
			logrus.Warnf("failed to create config: %v", err)
		}
	}
	if cmd.Flags().Changed("refresh") {
		conf.SetRefreshMs(refreshMs)
	}

	restoreLogs := redirectLogs(conf, conf.Path())
	defer restoreLogs()

	logrus.WithFields(logrus.Fields{
		"version": version.Version,
		"commit":  version.GitCommit,
	}).Info("battmon starting")
	logrus.WithFields(conf.LogrusFields()).Info("config loaded")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := os.Stdout
	surface := display.NewTerminal(out, windowTitle, func() bool {
		return term.IsTerminal(int(out.Fd()))
	}, forceDraw)

	mem := gauge.NewRateMemory(conf.LastRateMw())
	hub := events.NewEventHub()
	style := gauge.Style{
		DrawChar:    conf.DrawChar(),
		UseOutline:  conf.UseOutline(),
		ShowPercent: conf.ShowPercent(),
	}
	mon := monitor.New(source.NewSystem(), surface, mem, monitor.Options{
		Interval:     time.Duration(conf.RefreshMs()) * time.Millisecond,
		BarWidth:     conf.BarWidth(),
		Style:        style,
		ClampPercent: conf.ClampPercent(),
	}, hub)

	if listenAddr != "" {
		srv := api.NewServer(mon, conf, hub)
		if err := srv.Start(listenAddr); err != nil {
			return err
		}
		defer func() {
			if err := srv.Shutdown(); err != nil {
				logrus.Error(err)
			}
		}()
	}

	fd := int(os.Stdin.Fd())
	var oldState *term.State
	if term.IsTerminal(fd) {
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			logrus.Warnf("failed to put the console in raw mode: %v", err)
		}
	}

	session := &monitor.Session{
		Monitor: mon,
		Surface: surface,
		Input:   os.Stdin,
		ExitKey: key,
	}
	elapsed, runErr := session.Run(ctx)

	if oldState != nil {
		if err := term.Restore(fd, oldState); err != nil {
			logrus.Warnf("failed to restore console mode: %v", err)
		}
	}

	if runErr != nil && elapsed == 0 {
		// The display never started; nothing was learned.
		return runErr
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, " ⚠️ Battery Monitor Closing ⚠️ ")
	fmt.Fprintf(out, " Elapsed time: %s\n", elapsed.Round(time.Second))

	conf.SetLastRateMw(mem.LastKnownDischargeRateMw)
	conf.SetFirstRun(false)
	conf.SetTime(time.Now())
	conf.SetVersion(version.Version)
	if err := conf.Save(); err != nil {
		logrus.Errorf("failed to save config: %v", err)
	}

	return runErr
}
