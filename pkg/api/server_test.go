package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/config"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/display"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/events"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/gauge"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/monitor"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/source"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/utils/ptr"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/version"
)

func newTestServer(t *testing.T, tick bool) (*Server, *events.EventHub) {
	t.Helper()

	conf, err := config.NewFile(filepath.Join(t.TempDir(), config.DefaultFileName))
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}

	src := source.NewStatic(source.Step{Snapshot: powerinfo.Snapshot{
		Status:                powerinfo.Discharging,
		ChargeRateMw:          ptr.To(-10000),
		FullChargeCapacityMwh: ptr.To(40000),
		RemainingCapacityMwh:  ptr.To(10000),
	}})
	hub := events.NewEventHub()
	mon := monitor.New(src, &display.Buffer{}, nil, monitor.Options{Style: gauge.DefaultStyle()}, hub)
	if tick {
		if res := mon.Tick(context.Background()); res.Err != nil {
			t.Fatalf("Tick() error = %v", res.Err)
		}
	}

	return NewServer(mon, conf, hub), hub
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		network string
		address string
		wantErr bool
	}{
		{"unix:///tmp/battmon.sock", "unix", "/tmp/battmon.sock", false},
		{"127.0.0.1:8080", "tcp", "127.0.0.1:8080", false},
		{":9000", "tcp", ":9000", false},
		{"unix://", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			network, address, err := ParseAddress(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if network != tt.network || address != tt.address {
				t.Errorf("ParseAddress() = %q, %q, want %q, %q", network, address, tt.network, tt.address)
			}
		})
	}
}

func TestGetFrame(t *testing.T) {
	s, _ := newTestServer(t, true)

	w := get(t, s, "/frame")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /frame = %d, want %d", w.Code, http.StatusOK)
	}

	var resp FrameResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Frame.Percentage == nil || *resp.Frame.Percentage != 25 {
		t.Errorf("percentage = %v, want 25", resp.Frame.Percentage)
	}
	if resp.Frame.Status != powerinfo.Discharging {
		t.Errorf("status = %v, want %v", resp.Frame.Status, powerinfo.Discharging)
	}
	if len(resp.Lines) == 0 {
		t.Errorf("no lines returned")
	}
}

func TestGetSnapshot(t *testing.T) {
	t.Run("before first tick", func(t *testing.T) {
		s, _ := newTestServer(t, false)
		if w := get(t, s, "/snapshot"); w.Code != http.StatusServiceUnavailable {
			t.Errorf("GET /snapshot = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})

	t.Run("after tick", func(t *testing.T) {
		s, _ := newTestServer(t, true)
		w := get(t, s, "/snapshot")
		if w.Code != http.StatusOK {
			t.Fatalf("GET /snapshot = %d, want %d", w.Code, http.StatusOK)
		}
		var snap powerinfo.Snapshot
		if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if snap.RemainingCapacityMwh == nil || *snap.RemainingCapacityMwh != 10000 {
			t.Errorf("remaining = %v, want 10000", snap.RemainingCapacityMwh)
		}
	})
}

func TestGetConfigAndVersion(t *testing.T) {
	s, _ := newTestServer(t, false)

	w := get(t, s, "/config")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /config = %d, want %d", w.Code, http.StatusOK)
	}
	var rc config.RawFileConfig
	if err := json.Unmarshal(w.Body.Bytes(), &rc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if rc.Refresh == nil || *rc.Refresh != 3000 {
		t.Errorf("refresh = %v, want 3000", rc.Refresh)
	}

	w = get(t, s, "/version")
	var v string
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil || v != version.Version {
		t.Errorf("GET /version = %q (%v), want %q", v, err, version.Version)
	}
}

func TestGetTicks(t *testing.T) {
	s, _ := newTestServer(t, true)

	if w := get(t, s, "/ticks?lastSeconds=abc"); w.Code != http.StatusBadRequest {
		t.Errorf("GET /ticks?lastSeconds=abc = %d, want %d", w.Code, http.StatusBadRequest)
	}

	w := get(t, s, "/ticks")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /ticks = %d, want %d", w.Code, http.StatusOK)
	}
	var resp TicksResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(resp.Records) != 1 || resp.Continuous != 1 {
		t.Errorf("records = %d, continuous = %d, want 1, 1", len(resp.Records), resp.Continuous)
	}
	if resp.State != monitor.Idle.String() {
		t.Errorf("state = %q, want %q", resp.State, monitor.Idle.String())
	}
}

func TestStreamEvents(t *testing.T) {
	s, hub := newTestServer(t, true)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/events")
	if err != nil {
		t.Fatalf("GET /events error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	deadline := time.Now().Add(5 * time.Second)
	for hub.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	hub.Publish(events.BatteryStatus, events.StatusChangedEvent{From: "Charging", To: "Discharging"})
	hub.Close()

	body := make([]byte, 0, 512)
	buf := make([]byte, 512)
	for {
		n, err := resp.Body.Read(buf)
		body = append(body, buf[:n]...)
		if err != nil {
			break
		}
	}

	got := string(body)
	for _, want := range []string{"event:hello", "event:battery.status", `"to":"Discharging"`} {
		if !strings.Contains(got, want) {
			t.Errorf("stream %q does not contain %q", got, want)
		}
	}
}
