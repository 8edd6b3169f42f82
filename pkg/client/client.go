// Package client talks to the status server of a running monitor.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/api"
)

const requestTimeout = 5 * time.Second

// Client is a struct for communicating with a running monitor
type Client struct {
	addr       string
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for addr, which is either "unix:///path" or
// "host:port".
func NewClient(addr string) (*Client, error) {
	network, address, err := api.ParseAddress(addr)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid address")
	}

	baseURL := "http://unix"
	if network == "tcp" {
		baseURL = "http://" + address
	}

	dialer := &net.Dialer{}
	return &Client{
		addr:    addr,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
					conn, err := dialer.DialContext(ctx, network, address)
					if err != nil {
						return nil, classifyDialError(err)
					}
					return conn, nil
				},
			},
		},
	}, nil
}

func classifyDialError(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, syscall.ECONNREFUSED):
		return ErrMonitorNotRunning
	case errors.Is(err, os.ErrPermission):
		return ErrPermissionDenied
	default:
		logrus.Errorf("failed to connect to monitor: %v", err)
		return err
	}
}

// Get sends a GET request and returns the response body.
func (c *Client) Get(path string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"method": http.MethodGet,
		"path":   path,
		"addr":   c.addr,
	}).Debug("sending request")

	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		for _, sentinel := range []error{ErrMonitorNotRunning, ErrPermissionDenied} {
			if errors.Is(err, sentinel) {
				return "", sentinel
			}
		}
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Errorf("failed to close response body: %v", err)
		}
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	body := string(b)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", fmt.Errorf("%w: %s", ErrNoData, body)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", fmt.Errorf("got %d: %s", resp.StatusCode, body)
	}

	return body, nil
}
