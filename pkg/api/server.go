// Package api serves the monitor's state over HTTP on a unix socket or a
// TCP address.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/config"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/events"
	"github.com/GuildOfCalamity/ConsoleBattery/pkg/monitor"
)

const (
	unixPrefix      = "unix://"
	shutdownTimeout = 5 * time.Second
)

// ParseAddress splits a listen address into a network and an address.
// "unix:///path/to/sock" is a unix socket; anything else is TCP.
func ParseAddress(addr string) (network, address string, err error) {
	if addr == "" {
		return "", "", errors.New("empty address")
	}
	if strings.HasPrefix(addr, unixPrefix) {
		p := strings.TrimPrefix(addr, unixPrefix)
		if p == "" {
			return "", "", pkgerrors.Errorf("missing socket path in %q", addr)
		}
		return "unix", p, nil
	}
	return "tcp", addr, nil
}

// Server exposes a running monitor.
type Server struct {
	mon    *monitor.Monitor
	conf   config.Config
	hub    *events.EventHub
	router *gin.Engine
	srv    *http.Server
	ln     net.Listener
}

// NewServer builds the router. hub may be nil, in which case /events is
// not served.
func NewServer(mon *monitor.Monitor, conf config.Config, hub *events.EventHub) *Server {
	s := &Server{
		mon:  mon,
		conf: conf,
		hub:  hub,
	}
	s.router = s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/snapshot", s.getSnapshot)
	router.GET("/frame", s.getFrame)
	router.GET("/config", s.getConfig)
	router.GET("/ticks", s.getTicks)
	router.GET("/version", getVersion)
	if s.hub != nil {
		router.GET("/events", s.streamEvents)
	}

	return router
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves in the background. A stale unix socket
// file is removed first.
func (s *Server) Start(addr string) error {
	network, address, err := ParseAddress(addr)
	if err != nil {
		return pkgerrors.Wrapf(err, "invalid listen address")
	}

	if network == "unix" {
		if err := os.Remove(address); err != nil && !os.IsNotExist(err) {
			return pkgerrors.Wrapf(err, "failed to remove stale socket %s", address)
		}
	}

	l, err := net.Listen(network, address)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", addr)
	}
	s.ln = l
	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("http server stopped: %v", err)
		}
	}()

	return nil
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops the server. Open event streams are ended by closing the
// hub first.
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}

	logrus.Info("shutting down http server")
	s.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return pkgerrors.Wrapf(err, "failed to shutdown http server")
	}
	return nil
}
