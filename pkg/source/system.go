package source

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
)

// System reads the host batteries and aggregates them into one snapshot,
// the way the OS presents a single aggregate battery.
type System struct {
	// getAll is replaced in tests.
	getAll func() ([]*battery.Battery, error)
	now    func() time.Time
}

// NewSystem returns a Source backed by the host battery provider.
func NewSystem() *System {
	return &System{
		getAll: battery.GetAll,
		now:    time.Now,
	}
}

var _ Source = &System{}

func (s *System) Snapshot(ctx context.Context) (powerinfo.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return powerinfo.Snapshot{}, err
	}

	batteries, err := s.getAll()
	if err != nil {
		// Partial errors still come with usable batteries.
		usable := usableBatteries(batteries)
		if len(usable) == 0 {
			return powerinfo.Snapshot{}, pkgerrors.Wrapf(err, "failed to read batteries")
		}
		logrus.WithError(err).Debug("some battery fields could not be read")
		batteries = usable
	}

	if len(batteries) == 0 {
		return powerinfo.Snapshot{Status: powerinfo.NotPresent, Timestamp: s.now()}, nil
	}

	readings := make([]reading, 0, len(batteries))
	for _, b := range batteries {
		if b == nil {
			continue
		}
		readings = append(readings, reading{
			state:      b.State.String(),
			current:    b.Current,
			full:       b.Full,
			design:     b.Design,
			chargeRate: b.ChargeRate,
		})
	}

	return aggregate(readings, s.now()), nil
}

// reading holds the fields of one provider battery that a snapshot needs.
// Energies are in mWh and the rate in mW.
type reading struct {
	state      string
	current    float64
	full       float64
	design     float64
	chargeRate float64
}

func usableBatteries(batteries []*battery.Battery) []*battery.Battery {
	var out []*battery.Battery
	for _, b := range batteries {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

func aggregate(readings []reading, ts time.Time) powerinfo.Snapshot {
	var (
		current, full, design, rate float64
		status                      = powerinfo.Unknown
		haveRate                    bool
	)

	for _, r := range readings {
		current += r.current
		full += r.full
		design += r.design

		st := convertState(r.state)
		status = mergeStatus(status, st)

		if r.chargeRate != 0 {
			haveRate = true
			// The provider reports the magnitude; the sign comes from the state.
			v := math.Abs(r.chargeRate)
			if st == powerinfo.Discharging {
				v = -v
			}
			rate += v
		}
	}

	snap := powerinfo.Snapshot{
		Status:    status,
		Timestamp: ts,
	}
	if full > 0 {
		snap.FullChargeCapacityMwh = intPtr(full)
		snap.RemainingCapacityMwh = intPtr(current)
	} else if current > 0 {
		snap.RemainingCapacityMwh = intPtr(current)
	}
	if design > 0 {
		snap.DesignCapacityMwh = intPtr(design)
	}
	if haveRate {
		snap.ChargeRateMw = intPtr(rate)
	}

	return snap
}

// convertState maps the provider's state name to a Status. Names are
// matched rather than constants so that platform-specific states fall back
// cleanly to Unknown.
func convertState(name string) powerinfo.Status {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "charging":
		return powerinfo.Charging
	case "discharging", "empty":
		return powerinfo.Discharging
	case "full", "idle", "not charging":
		return powerinfo.Idle
	default:
		return powerinfo.Unknown
	}
}

// mergeStatus combines the status of several batteries: any discharging
// battery makes the aggregate discharging, then charging, then idle.
func mergeStatus(a, b powerinfo.Status) powerinfo.Status {
	rank := func(s powerinfo.Status) int {
		switch s {
		case powerinfo.Discharging:
			return 4
		case powerinfo.Charging:
			return 3
		case powerinfo.Idle:
			return 2
		case powerinfo.Unknown:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

func intPtr(v float64) *int {
	i := int(math.Round(v))
	return &i
}
