package main

import (
	"github.com/spf13/cobra"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/config"
)

// NewConfigCommand .
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		GroupID: gAdvanced,
		Short:   "Show the config file and the settings in effect",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			cmd.Printf("%s %s", bold("Config file:"), conf.Path())
			if !conf.Exists() {
				cmd.Print(" (not created yet, showing defaults)")
			}
			cmd.Println()
			cmd.Println()

			cmd.Println(bold("Gauge:"))
			cmd.Printf("  Refresh interval: %s\n", bold("%d ms", conf.RefreshMs()))
			cmd.Printf("  Bar width: %s\n", bold("%d", conf.BarWidth()))
			cmd.Printf("  Bar character: %s\n", bold("%c", conf.DrawChar()))
			cmd.Printf("  Outline: %s\n", bool2Text(conf.UseOutline()))
			cmd.Printf("  Show percentage: %s\n", bool2Text(conf.ShowPercent()))
			cmd.Printf("  Clamp percentage to 0-100: %s\n", bool2Text(conf.ClampPercent()))
			cmd.Println()

			cmd.Println(bold("State:"))
			cmd.Printf("  Remembered discharge rate: %s\n", bold("%d mW", conf.LastRateMw()))
			cmd.Printf("  Logging to file: %s\n", bool2Text(conf.Logging()))
			cmd.Printf("  First run: %s\n", bool2Text(conf.FirstRun()))
			if t := conf.Time(); !t.IsZero() {
				cmd.Printf("  Last closed: %s\n", bold("%s", t.Local().Format("2006-01-02 15:04:05")))
			}
			if v := conf.Version(); v != "" {
				cmd.Printf("  Last version: %s\n", bold("%s", v))
			}
			return nil
		},
	}

	return cmd
}
