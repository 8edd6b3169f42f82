package powerinfo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status represents the reported state of the battery.
type Status int

const (
	// Unknown indicates the provider could not tell the state.
	Unknown Status = iota
	// Idle indicates the battery is neither charging nor discharging.
	Idle
	// Charging indicates the battery is charging.
	Charging
	// Discharging indicates the battery is discharging.
	Discharging
	// NotPresent indicates there is no battery.
	NotPresent
)

var statusNames = [...]string{"Unknown", "Idle", "Charging", "Discharging", "NotPresent"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus converts a status name (case-insensitive) into a Status.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Status(i), nil
		}
	}
	return Unknown, fmt.Errorf("invalid battery status %q", name)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Snapshot is a single point-in-time battery reading.
// Units:
// - ChargeRateMw: mW (negative when discharging, positive when charging)
// - *CapacityMwh: mWh
// A nil field means the provider did not report it. RemainingCapacityMwh is
// expected, but not guaranteed, to be at most FullChargeCapacityMwh.
type Snapshot struct {
	Status                Status    `json:"status"`
	ChargeRateMw          *int      `json:"chargeRateMw,omitempty"`
	DesignCapacityMwh     *int      `json:"designCapacityMwh,omitempty"`
	FullChargeCapacityMwh *int      `json:"fullChargeCapacityMwh,omitempty"`
	RemainingCapacityMwh  *int      `json:"remainingCapacityMwh,omitempty"`
	Timestamp             time.Time `json:"timestamp"`
}

// HasCapacity reports whether both remaining and full charge capacity are
// known and full charge capacity is non-zero.
func (s Snapshot) HasCapacity() bool {
	return s.RemainingCapacityMwh != nil && s.FullChargeCapacityMwh != nil && *s.FullChargeCapacityMwh != 0
}
