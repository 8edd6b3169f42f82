package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Config interface {
	// RefreshMs is the polling interval in milliseconds.
	RefreshMs() int
	// LastRateMw is the remembered discharge rate in mW.
	LastRateMw() int
	Logging() bool
	FirstRun() bool
	Version() string
	Time() time.Time

	BarWidth() int
	DrawChar() rune
	UseOutline() bool
	ShowPercent() bool
	ClampPercent() bool

	SetRefreshMs(int)
	SetLastRateMw(int)
	SetLogging(bool)
	SetFirstRun(bool)
	SetVersion(string)
	SetTime(time.Time)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
