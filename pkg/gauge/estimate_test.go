package gauge

import (
	"strings"
	"testing"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/utils/ptr"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		remaining *int
		full      *int
		want      int
		wantOK    bool
	}{
		{name: "half", remaining: ptr.To(50), full: ptr.To(100), want: 50, wantOK: true},
		{name: "quarter", remaining: ptr.To(17), full: ptr.To(68), want: 25, wantOK: true},
		{name: "empty", remaining: ptr.To(0), full: ptr.To(100), want: 0, wantOK: true},
		{name: "rounds half away from zero", remaining: ptr.To(1), full: ptr.To(200), want: 1, wantOK: true},
		{name: "rounds down", remaining: ptr.To(333), full: ptr.To(1000), want: 33, wantOK: true},
		{name: "over full passes through", remaining: ptr.To(71), full: ptr.To(50), want: 142, wantOK: true},
		{name: "missing full", remaining: ptr.To(50), full: nil, wantOK: false},
		{name: "missing remaining", remaining: nil, full: ptr.To(100), wantOK: false},
		{name: "zero full", remaining: ptr.To(50), full: ptr.To(0), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Percentage(tt.remaining, tt.full)
			if ok != tt.wantOK {
				t.Fatalf("Percentage() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Percentage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeLiveEstimate(t *testing.T) {
	mem := NewRateMemory(DefaultDischargeRateMw)
	snap := powerinfo.Snapshot{
		Status:                powerinfo.Discharging,
		ChargeRateMw:          ptr.To(-17000),
		FullChargeCapacityMwh: ptr.To(17000),
		RemainingCapacityMwh:  ptr.To(8500),
	}

	f := Compute(snap, mem, Options{})

	if f.Estimate.Source != EstimateLive {
		t.Fatalf("Estimate.Source = %v, want %v", f.Estimate.Source, EstimateLive)
	}
	if f.Estimate.TotalMinutes != 30 || f.Estimate.Hours != 0 || f.Estimate.Minutes != 30 {
		t.Errorf("Estimate = %+v, want 30 minutes", f.Estimate)
	}
	if !strings.Contains(f.EstimateText, "TimeRemaining") || !strings.Contains(f.EstimateText, "0 hours & 30 minutes") {
		t.Errorf("EstimateText = %q", f.EstimateText)
	}
	if f.Percentage == nil || *f.Percentage != 50 {
		t.Errorf("Percentage = %v, want 50", f.Percentage)
	}
}

func TestComputeRemembersDischargeRate(t *testing.T) {
	mem := NewRateMemory(DefaultDischargeRateMw)

	Compute(powerinfo.Snapshot{
		Status:               powerinfo.Discharging,
		ChargeRateMw:         ptr.To(-8000),
		RemainingCapacityMwh: ptr.To(40000),
	}, mem, Options{})
	if mem.LastKnownDischargeRateMw != 8000 {
		t.Fatalf("LastKnownDischargeRateMw = %d, want 8000", mem.LastKnownDischargeRateMw)
	}

	// Charging: the remembered rate is kept and used.
	f := Compute(powerinfo.Snapshot{
		Status:               powerinfo.Charging,
		ChargeRateMw:         ptr.To(25000),
		RemainingCapacityMwh: ptr.To(40000),
	}, mem, Options{})
	if mem.LastKnownDischargeRateMw != 8000 {
		t.Errorf("LastKnownDischargeRateMw = %d, want 8000", mem.LastKnownDischargeRateMw)
	}
	if f.Estimate.Source != EstimateRemembered {
		t.Errorf("Estimate.Source = %v, want %v", f.Estimate.Source, EstimateRemembered)
	}
	if f.Estimate.TotalMinutes != 300 {
		t.Errorf("Estimate.TotalMinutes = %d, want 300", f.Estimate.TotalMinutes)
	}
}

func TestComputeRememberedEstimate(t *testing.T) {
	mem := NewRateMemory(17000)
	f := Compute(powerinfo.Snapshot{
		Status:               powerinfo.Idle,
		RemainingCapacityMwh: ptr.To(17000),
	}, mem, Options{})

	if f.Estimate.Source != EstimateRemembered {
		t.Fatalf("Estimate.Source = %v, want %v", f.Estimate.Source, EstimateRemembered)
	}
	if f.Estimate.TotalMinutes != 60 || f.Estimate.Hours != 1 || f.Estimate.Minutes != 0 {
		t.Errorf("Estimate = %+v, want 60 minutes", f.Estimate)
	}
	if !strings.HasPrefix(f.EstimateText, " EstimatedRemaining: 1 hours & 0 minutes") {
		t.Errorf("EstimateText = %q", f.EstimateText)
	}
}

func TestComputeNoRateWritesBlankLine(t *testing.T) {
	mem := &RateMemory{LastStatus: powerinfo.Charging}
	f := Compute(powerinfo.Snapshot{
		Status:               powerinfo.Charging,
		RemainingCapacityMwh: ptr.To(17000),
	}, mem, Options{})

	if f.Estimate.Source != EstimateNone {
		t.Errorf("Estimate.Source = %v, want %v", f.Estimate.Source, EstimateNone)
	}
	if f.EstimateText != strings.Repeat(" ", BlankLineWidth) {
		t.Errorf("EstimateText = %q, want %d spaces", f.EstimateText, BlankLineWidth)
	}
}

func TestComputeMissingRemaining(t *testing.T) {
	mem := NewRateMemory(0)
	f := Compute(powerinfo.Snapshot{
		Status:       powerinfo.Discharging,
		ChargeRateMw: ptr.To(-5000),
	}, mem, Options{})

	if f.Percentage != nil {
		t.Errorf("Percentage = %v, want nil", *f.Percentage)
	}
	if f.Estimate.Valid {
		t.Errorf("Estimate.Valid = true, want false")
	}
	if !strings.Contains(f.EstimateText, invalidEstimate) {
		t.Errorf("EstimateText = %q", f.EstimateText)
	}
	if mem.LastKnownDischargeRateMw != 5000 {
		t.Errorf("LastKnownDischargeRateMw = %d, want 5000", mem.LastKnownDischargeRateMw)
	}
}

func TestComputeMissingDenominator(t *testing.T) {
	mem := NewRateMemory(0)
	f := Compute(powerinfo.Snapshot{
		Status:               powerinfo.Discharging,
		RemainingCapacityMwh: ptr.To(100),
	}, mem, Options{})

	if f.Percentage != nil {
		t.Errorf("Percentage = %v, want nil", *f.Percentage)
	}
	if f.BarLength != 0 {
		t.Errorf("BarLength = %d, want 0", f.BarLength)
	}
}

func TestComputeClampPolicy(t *testing.T) {
	snap := powerinfo.Snapshot{
		Status:                powerinfo.Charging,
		FullChargeCapacityMwh: ptr.To(50000),
		RemainingCapacityMwh:  ptr.To(71000),
	}

	tests := []struct {
		name  string
		clamp bool
		want  int
	}{
		{name: "pass through", clamp: false, want: 142},
		{name: "clamped", clamp: true, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Compute(snap, NewRateMemory(0), Options{ClampPercent: tt.clamp, BarWidth: 35})
			if f.Percentage == nil || *f.Percentage != tt.want {
				t.Fatalf("Percentage = %v, want %d", f.Percentage, tt.want)
			}
			if f.BarLength != 35 {
				t.Errorf("BarLength = %d, want 35", f.BarLength)
			}
		})
	}
}

func TestComputeAttention(t *testing.T) {
	tests := []struct {
		name     string
		initial  powerinfo.Status
		statuses []powerinfo.Status
		want     []bool
	}{
		{
			name:     "memory starts unknown",
			initial:  powerinfo.Unknown,
			statuses: []powerinfo.Status{powerinfo.Charging, powerinfo.Charging, powerinfo.Discharging},
			want:     []bool{true, false, true},
		},
		{
			name:     "memory starts charging",
			initial:  powerinfo.Charging,
			statuses: []powerinfo.Status{powerinfo.Charging, powerinfo.Charging, powerinfo.Discharging},
			want:     []bool{false, false, true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := &RateMemory{LastKnownDischargeRateMw: 17000, LastStatus: tt.initial}
			for i, s := range tt.statuses {
				f := Compute(powerinfo.Snapshot{Status: s}, mem, Options{})
				if f.Attention != tt.want[i] {
					t.Errorf("tick %d: Attention = %v, want %v", i, f.Attention, tt.want[i])
				}
				if mem.LastStatus != s {
					t.Errorf("tick %d: LastStatus = %v, want %v", i, mem.LastStatus, s)
				}
			}
		})
	}
}

func TestNewRateMemory(t *testing.T) {
	mem := NewRateMemory(-1)
	if mem.LastKnownDischargeRateMw != DefaultDischargeRateMw {
		t.Errorf("LastKnownDischargeRateMw = %d, want %d", mem.LastKnownDischargeRateMw, DefaultDischargeRateMw)
	}
	if mem.LastStatus != powerinfo.NotPresent {
		t.Errorf("LastStatus = %v, want %v", mem.LastStatus, powerinfo.NotPresent)
	}
}
