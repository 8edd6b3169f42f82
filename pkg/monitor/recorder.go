package monitor

import (
	"sync"
	"time"
)

// TickRecorder records the times of the last N completed ticks.
type TickRecorder struct {
	MaxRecordCount int
	LastTickTimes  []time.Time
	mu             *sync.Mutex
}

// NewTickRecorder returns a new TickRecorder.
func NewTickRecorder(maxRecordCount int) *TickRecorder {
	return &TickRecorder{
		MaxRecordCount: maxRecordCount,
		LastTickTimes:  make([]time.Time, 0),
		mu:             &sync.Mutex{},
	}
}

// AddRecord adds a new record.
func (r *TickRecorder) AddRecord(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strip monotonic clock reading.
	// This will prevent time.Since from returning values that are not accurate (especially when the system is in sleep mode).
	t = t.Round(0)

	if r.MaxRecordCount > 0 && len(r.LastTickTimes) >= r.MaxRecordCount {
		r.LastTickTimes = r.LastTickTimes[1:]
	}
	r.LastTickTimes = append(r.LastTickTimes, t)
}

// GetRecords returns a copy of the records.
func (r *TickRecorder) GetRecords() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]time.Time(nil), r.LastTickTimes...)
}

// GetLastRecord returns the last record.
func (r *TickRecorder) GetLastRecord() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.LastTickTimes) == 0 {
		return time.Time{}
	}

	return r.LastTickTimes[len(r.LastTickTimes)-1]
}

// GetRecordsIn returns the number of continuous records in the last
// duration. Two adjacent records are continuous when they are less than
// interval+1s apart. It returns 0 if the newest record is itself older than
// interval+1s, i.e. the loop is stalled.
func (r *TickRecorder) GetRecordsIn(last, interval time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	gap := interval + time.Second

	if len(r.LastTickTimes) > 0 && time.Since(r.LastTickTimes[len(r.LastTickTimes)-1]) >= gap {
		return 0
	}

	count := 0
	for i := len(r.LastTickTimes) - 1; i >= 0; i-- {
		record := r.LastTickTimes[i]
		if time.Since(record) > last {
			break
		}

		theRecordAfter := record
		if i+1 < len(r.LastTickTimes) {
			theRecordAfter = r.LastTickTimes[i+1]
		}

		if theRecordAfter.Sub(record) >= gap {
			break
		}
		count++
	}

	return count
}
