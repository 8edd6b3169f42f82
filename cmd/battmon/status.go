package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/client"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/config"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/gauge"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/source"
)

const snapshotTimeout = 10 * time.Second

type statusJSON struct {
	Snapshot powerinfo.Snapshot `json:"snapshot"`
	Frame    gauge.Frame        `json:"frame"`
}

// NewStatusCommand .
func NewStatusCommand() *cobra.Command {
	var (
		asJSON bool
		remote string
	)

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Print the battery status once",
		Long: `Print the battery status once.

The time estimate uses the discharge rate remembered in the config file, which
is not updated. With --remote, the last frame of a running 'battmon monitor
--listen' is printed instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if remote != "" {
				return printRemoteStatus(cmd, remote, asJSON)
			}

			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), snapshotTimeout)
			defer cancel()

			snap, err := source.NewSystem().Snapshot(ctx)
			if err != nil {
				return err
			}

			// A copy; status never persists what it learns.
			mem := gauge.NewRateMemory(conf.LastRateMw())
			mem.LastStatus = snap.Status
			frame := gauge.Compute(snap, mem, gauge.Options{
				BarWidth:     conf.BarWidth(),
				ClampPercent: conf.ClampPercent(),
			})

			if asJSON {
				return printJSON(cmd, statusJSON{Snapshot: snap, Frame: frame})
			}

			printStatus(cmd, snap, frame)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&asJSON, "json", false, "print JSON")
	f.StringVar(&remote, "remote", "", "address of a running monitor (unix:///path or host:port)")

	return cmd
}

func printStatus(cmd *cobra.Command, snap powerinfo.Snapshot, frame gauge.Frame) {
	cmd.Println(bold("Battery status:"))
	cmd.Printf("  State: %s\n", bold("%s", stateText(snap.Status)))
	if frame.Percentage != nil {
		cmd.Printf("  Current charge: %s\n", bold("%d%%", *frame.Percentage))
	} else {
		cmd.Printf("  Current charge: %s\n", bold("unknown"))
	}
	cmd.Printf("  Charge rate: %s\n", rateText(snap.ChargeRateMw))
	cmd.Printf("  Design capacity: %s\n", bold("%sh", gauge.FormatMilliwatts(snap.DesignCapacityMwh)))
	cmd.Printf("  Full charge capacity: %s\n", bold("%sh", gauge.FormatMilliwatts(snap.FullChargeCapacityMwh)))
	cmd.Printf("  Remaining capacity: %s\n", bold("%sh", gauge.FormatMilliwatts(snap.RemainingCapacityMwh)))

	switch frame.Estimate.Source {
	case gauge.EstimateLive:
		cmd.Printf("  Time remaining: %s\n", bold("%s", estimateText(frame.Estimate)))
	case gauge.EstimateRemembered:
		cmd.Printf("  Time remaining (estimated): %s\n", bold("%s", estimateText(frame.Estimate)))
	}
}

func printRemoteStatus(cmd *cobra.Command, addr string, asJSON bool) error {
	c, err := client.NewClient(addr)
	if err != nil {
		return err
	}

	f, err := c.GetFrame()
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(cmd, f)
	}

	if f.Error != "" {
		cmd.Printf("%s %s\n", color.YellowString("Last tick failed:"), f.Error)
	}
	cmd.Printf("%s %s\n", bold("Last tick:"), f.At.Local().Format(time.Kitchen))
	for _, l := range f.Lines {
		cmd.Println(l)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(b))
	return nil
}

func estimateText(e gauge.Estimate) string {
	if !e.Valid {
		return "unknown"
	}
	return gauge.FormatRemaining(e.TotalMinutes)
}

func stateText(s powerinfo.Status) string {
	switch s {
	case powerinfo.Charging:
		return color.GreenString("charging")
	case powerinfo.Discharging:
		return color.RedString("discharging")
	default:
		return strings.ToLower(s.String())
	}
}

func rateText(mw *int) string {
	if mw == nil {
		return bold("unknown")
	}
	watts := float64(*mw) / 1e3
	switch {
	case watts > 0:
		return color.New(color.Bold, color.FgGreen).Sprintf("%+.1f W", watts)
	case watts < 0:
		return color.New(color.Bold, color.FgRed).Sprintf("%+.1f W", watts)
	default:
		return bold("%+.1f W", watts)
	}
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
