package gauge

import (
	"fmt"
	"math"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
)

const (
	// DefaultDischargeRateMw is the remembered discharge rate used before a
	// live discharge rate has ever been observed.
	DefaultDischargeRateMw = 17000
	// BlankLineWidth is the width of the placeholder written when no time
	// estimate can be made, so a previous estimate does not linger on screen.
	BlankLineWidth = 50
	// DefaultBarWidth is the fill width of the bar, borders excluded.
	DefaultBarWidth = 35

	liveLabel       = " TimeRemaining.....: "
	rememberedLabel = " EstimatedRemaining: "
	invalidEstimate = "Invalid power consumption value."
)

// RateMemory is the state carried from one tick to the next. It is owned by
// a single polling loop and is not safe for concurrent use.
type RateMemory struct {
	// LastKnownDischargeRateMw is the magnitude of the last live discharge
	// rate observed, in mW.
	LastKnownDischargeRateMw int
	// LastStatus is the battery status seen on the previous tick.
	LastStatus powerinfo.Status
}

// NewRateMemory returns a RateMemory seeded with lastRateMw. A non-positive
// rate falls back to DefaultDischargeRateMw. The initial status is
// NotPresent, so the first real reading raises attention.
func NewRateMemory(lastRateMw int) *RateMemory {
	if lastRateMw <= 0 {
		lastRateMw = DefaultDischargeRateMw
	}
	return &RateMemory{
		LastKnownDischargeRateMw: lastRateMw,
		LastStatus:               powerinfo.NotPresent,
	}
}

// EstimateSource tells where the rate behind a time estimate came from.
type EstimateSource int

const (
	// EstimateNone means no rate was available.
	EstimateNone EstimateSource = iota
	// EstimateLive means the rate reported by this snapshot was used.
	EstimateLive
	// EstimateRemembered means the rate from RateMemory was used.
	EstimateRemembered
)

func (s EstimateSource) String() string {
	switch s {
	case EstimateLive:
		return "live"
	case EstimateRemembered:
		return "remembered"
	default:
		return "none"
	}
}

func (s EstimateSource) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *EstimateSource) UnmarshalText(b []byte) error {
	switch string(b) {
	case "live":
		*s = EstimateLive
	case "remembered":
		*s = EstimateRemembered
	case "none", "":
		*s = EstimateNone
	default:
		return fmt.Errorf("unknown estimate source %q", b)
	}
	return nil
}

// Estimate is the time remaining until the battery is empty.
type Estimate struct {
	Source EstimateSource `json:"source"`
	// Valid is false when a rate was available but the remaining capacity
	// was not.
	Valid        bool `json:"valid"`
	RateMw       int  `json:"rateMw"`
	TotalMinutes int  `json:"totalMinutes"`
	Hours        int  `json:"hours"`
	Minutes      int  `json:"minutes"`
}

// Text renders the estimate as a display line.
func (e Estimate) Text() string {
	var label string
	switch e.Source {
	case EstimateLive:
		label = liveLabel
	case EstimateRemembered:
		label = rememberedLabel
	default:
		return spaces(BlankLineWidth)
	}

	if !e.Valid {
		return padRight(label+invalidEstimate, BlankLineWidth)
	}
	return padRight(label+FormatRemaining(e.TotalMinutes), BlankLineWidth)
}

// Options tune Compute.
type Options struct {
	// BarWidth is the fill width used to compute Frame.BarLength.
	BarWidth int
	// ClampPercent clamps the percentage to [0, 100]. When false,
	// inconsistent capacities pass through (e.g. 142%).
	ClampPercent bool
}

// Frame is the derived, per-tick result of Compute.
type Frame struct {
	Status powerinfo.Status `json:"status"`
	// Percentage is nil when remaining or full charge capacity is unknown
	// or full charge capacity is zero. No bar is drawn in that case.
	Percentage   *int     `json:"percentage,omitempty"`
	BarLength    int      `json:"barLength"`
	Estimate     Estimate `json:"estimate"`
	EstimateText string   `json:"estimateText"`
	// Attention is true on the tick where the status differs from the
	// previous tick's.
	Attention bool `json:"attention"`
}

// Compute derives a Frame from snap and updates mem in place: the
// remembered discharge rate when a live one is reported, and the last
// status.
func Compute(snap powerinfo.Snapshot, mem *RateMemory, opts Options) Frame {
	width := opts.BarWidth
	if width <= 0 {
		width = DefaultBarWidth
	}

	f := Frame{Status: snap.Status}

	if pct, ok := Percentage(snap.RemainingCapacityMwh, snap.FullChargeCapacityMwh); ok {
		if opts.ClampPercent {
			pct = clamp(pct, 0, 100)
		}
		f.Percentage = &pct
		f.BarLength = BarLength(pct, width)
	}

	f.Estimate = estimate(snap, mem)
	f.EstimateText = f.Estimate.Text()

	f.Attention = snap.Status != mem.LastStatus
	mem.LastStatus = snap.Status

	return f
}

// Percentage returns round(remaining / full * 100), rounding half away from
// zero. ok is false when either value is nil or full is zero.
func Percentage(remaining, full *int) (pct int, ok bool) {
	if remaining == nil || full == nil || *full == 0 {
		return 0, false
	}
	return int(math.Round(float64(*remaining) / float64(*full) * 100)), true
}

func estimate(snap powerinfo.Snapshot, mem *RateMemory) Estimate {
	var e Estimate

	switch {
	case snap.ChargeRateMw != nil && *snap.ChargeRateMw < 0:
		e.Source = EstimateLive
		e.RateMw = -*snap.ChargeRateMw
		mem.LastKnownDischargeRateMw = e.RateMw
	case mem.LastKnownDischargeRateMw > 0:
		e.Source = EstimateRemembered
		e.RateMw = mem.LastKnownDischargeRateMw
	default:
		return e
	}

	if snap.RemainingCapacityMwh == nil {
		return e
	}

	e.Valid = true
	e.TotalMinutes = int(math.Floor(float64(*snap.RemainingCapacityMwh) * 60.0 / float64(e.RateMw)))
	e.Hours = e.TotalMinutes / 60
	e.Minutes = e.TotalMinutes % 60

	return e
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
