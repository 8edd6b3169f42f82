package client

import "errors"

var (
	// ErrMonitorNotRunning is returned when nothing listens on the address
	ErrMonitorNotRunning = errors.New("monitor not running")

	// ErrPermissionDenied is returned when the socket cannot be opened by this user
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when 404 is returned from the monitor
	ErrNotFound = errors.New("404 not found")

	// ErrNoData is returned when the monitor has not completed a tick yet
	ErrNoData = errors.New("no data available yet")
)
