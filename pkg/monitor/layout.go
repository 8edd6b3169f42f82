package monitor

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/gauge"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
)

const (
	headerRule = "════════════════════════════════════"
	timeLayout = "3:04:05 PM"
)

// statusText colours a status for display.
func statusText(s powerinfo.Status) string {
	switch s {
	case powerinfo.Charging:
		return color.GreenString(s.String())
	case powerinfo.Discharging:
		return color.RedString(s.String())
	case powerinfo.NotPresent, powerinfo.Unknown:
		return color.YellowString(s.String())
	default:
		return s.String()
	}
}

// Layout renders the full screen for one tick: a header, the report
// fields, the time estimate and, when the percentage is known, the bar.
func Layout(at time.Time, snap powerinfo.Snapshot, frame gauge.Frame, width int, style gauge.Style) ([]string, error) {
	lines := []string{
		fmt.Sprintf(" 📝 Battery Report %s", at.Format(timeLayout)),
		headerRule,
		fmt.Sprintf(" Status............: %s", statusText(frame.Status)),
		fmt.Sprintf(" ChargeRate........: %s", gauge.FormatMilliwatts(snap.ChargeRateMw)),
		fmt.Sprintf(" DesignCapacity....: %sh", gauge.FormatMilliwatts(snap.DesignCapacityMwh)),
		fmt.Sprintf(" FullChargeCapacity: %sh", gauge.FormatMilliwatts(snap.FullChargeCapacityMwh)),
		fmt.Sprintf(" RemainingCapacity.: %sh", gauge.FormatMilliwatts(snap.RemainingCapacityMwh)),
		frame.EstimateText,
	}

	if frame.Percentage == nil {
		return lines, nil
	}

	bar, err := gauge.DrawBar(*frame.Percentage, width, style)
	if err != nil {
		return nil, err
	}

	return append(lines, bar...), nil
}
