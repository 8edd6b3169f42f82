package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/config"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/gauge"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/powerinfo"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/version"
)

var errNoTick = errors.New("no tick has completed yet")

// FrameResponse is returned by GET /frame.
type FrameResponse struct {
	At    time.Time   `json:"at"`
	Frame gauge.Frame `json:"frame"`
	Lines []string    `json:"lines"`
	Error string      `json:"error,omitempty"`
}

// TicksResponse is returned by GET /ticks.
type TicksResponse struct {
	State      string      `json:"state"`
	IntervalMs int64       `json:"intervalMs"`
	Last       time.Time   `json:"last"`
	Continuous int         `json:"continuous"`
	Records    []time.Time `json:"records"`
}

func (s *Server) getSnapshot(c *gin.Context) {
	res, ok := s.mon.Latest()
	if !ok {
		c.IndentedJSON(http.StatusServiceUnavailable, errNoTick.Error())
		_ = c.AbortWithError(http.StatusServiceUnavailable, errNoTick)
		return
	}
	if res.Err != nil {
		c.IndentedJSON(http.StatusServiceUnavailable, res.Err.Error())
		_ = c.AbortWithError(http.StatusServiceUnavailable, res.Err)
		return
	}

	c.IndentedJSON(http.StatusOK, res.Snapshot)
}

func (s *Server) getFrame(c *gin.Context) {
	res, ok := s.mon.Latest()
	if !ok {
		c.IndentedJSON(http.StatusServiceUnavailable, errNoTick.Error())
		_ = c.AbortWithError(http.StatusServiceUnavailable, errNoTick)
		return
	}

	resp := FrameResponse{
		At:    res.At,
		Frame: res.Frame,
		Lines: res.Lines,
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	c.IndentedJSON(http.StatusOK, resp)
}

func (s *Server) getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(s.conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func (s *Server) getTicks(c *gin.Context) {
	last := 5 * time.Minute
	if v := c.Query("lastSeconds"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.IndentedJSON(http.StatusBadRequest, "lastSeconds must be a positive integer")
			_ = c.AbortWithError(http.StatusBadRequest, errors.New("invalid lastSeconds"))
			return
		}
		last = time.Duration(n) * time.Second
	}

	rec := s.mon.Recorder()
	c.IndentedJSON(http.StatusOK, TicksResponse{
		State:      s.mon.State().String(),
		IntervalMs: s.mon.Interval().Milliseconds(),
		Last:       rec.GetLastRecord(),
		Continuous: rec.GetRecordsIn(last, s.mon.Interval()),
		Records:    rec.GetRecords(),
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

// streamEvents relays hub events as server-sent events until the client
// goes away or the hub is closed.
func (s *Server) streamEvents(c *gin.Context) {
	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	logrus.WithField("subscribers", s.hub.Subscribers()).Debug("event stream opened")

	// Send the current status up front so clients need not wait for a change.
	if res, ok := s.mon.Latest(); ok && res.Err == nil {
		c.SSEvent("hello", gin.H{"status": res.Snapshot.Status})
	} else {
		c.SSEvent("hello", gin.H{"status": powerinfo.Unknown})
	}
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		}
	})
}
