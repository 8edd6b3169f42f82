package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/GuildOfCalamity/ConsoleBattery/pkg/utils/ptr"
)

// DefaultFileName is the config file name used when no path is given.
const DefaultFileName = "battmonConfig.json"

var (
	defaultFileConfig = &RawFileConfig{
		FirstRun:     ptr.To(true),
		Logging:      ptr.To(true),
		LastRate:     ptr.To(17000),
		Refresh:      ptr.To(3000),
		BarWidth:     ptr.To(35),
		DrawChar:     ptr.To("░"),
		UseOutline:   ptr.To(true),
		ShowPercent:  ptr.To(true),
		ClampPercent: ptr.To(false),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	Version      *string    `json:"version,omitempty"`
	Time         *time.Time `json:"time,omitempty"`
	FirstRun     *bool      `json:"firstrun,omitempty"`
	Logging      *bool      `json:"logging,omitempty"`
	LastRate     *int       `json:"lastrate,omitempty"`
	Refresh      *int       `json:"refresh,omitempty"`
	BarWidth     *int       `json:"barWidth,omitempty"`
	DrawChar     *string    `json:"drawChar,omitempty"`
	UseOutline   *bool      `json:"useOutline,omitempty"`
	ShowPercent  *bool      `json:"showPercent,omitempty"`
	ClampPercent *bool      `json:"clampPercent,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		Version:      ptr.To(c.Version()),
		Time:         ptr.To(c.Time()),
		FirstRun:     ptr.To(c.FirstRun()),
		Logging:      ptr.To(c.Logging()),
		LastRate:     ptr.To(c.LastRateMw()),
		Refresh:      ptr.To(c.RefreshMs()),
		BarWidth:     ptr.To(c.BarWidth()),
		DrawChar:     ptr.To(string(c.DrawChar())),
		UseOutline:   ptr.To(c.UseOutline()),
		ShowPercent:  ptr.To(c.ShowPercent()),
		ClampPercent: ptr.To(c.ClampPercent()),
	}

	return rawConfig, nil
}

// Path returns the file the config is loaded from and saved to.
func (f *File) Path() string {
	return f.filepath
}

func (f *File) RefreshMs() int {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	refresh := ptr.Deref(f.c.Refresh, *defaultFileConfig.Refresh)
	if refresh <= 0 {
		refresh = *defaultFileConfig.Refresh
	}

	return refresh
}

func (f *File) LastRateMw() int {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.LastRate, *defaultFileConfig.LastRate)
}

func (f *File) Logging() bool {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.Logging, *defaultFileConfig.Logging)
}

func (f *File) FirstRun() bool {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.FirstRun, *defaultFileConfig.FirstRun)
}

func (f *File) Version() string {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.Version, "")
}

func (f *File) Time() time.Time {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.Time, time.Time{})
}

func (f *File) BarWidth() int {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	width := ptr.Deref(f.c.BarWidth, *defaultFileConfig.BarWidth)
	if width <= 0 {
		width = *defaultFileConfig.BarWidth
	}

	return width
}

// DrawChar returns the first rune of the configured glyph.
func (f *File) DrawChar() rune {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	s := ptr.Deref(f.c.DrawChar, *defaultFileConfig.DrawChar)
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		r, _ = utf8.DecodeRuneInString(*defaultFileConfig.DrawChar)
	}

	return r
}

func (f *File) UseOutline() bool {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.UseOutline, *defaultFileConfig.UseOutline)
}

func (f *File) ShowPercent() bool {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.ShowPercent, *defaultFileConfig.ShowPercent)
}

func (f *File) ClampPercent() bool {
	f.mustLoaded()

	f.mu.RLock()
	defer f.mu.RUnlock()

	return ptr.Deref(f.c.ClampPercent, *defaultFileConfig.ClampPercent)
}

func (f *File) SetRefreshMs(i int) {
	f.mustLoaded()

	if i <= 0 {
		panic("refresh must be positive")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Refresh = &i
}

func (f *File) SetLastRateMw(i int) {
	f.mustLoaded()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.LastRate = &i
}

func (f *File) SetLogging(b bool) {
	f.mustLoaded()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Logging = &b
}

func (f *File) SetFirstRun(b bool) {
	f.mustLoaded()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.FirstRun = &b
}

func (f *File) SetVersion(v string) {
	f.mustLoaded()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Version = &v
}

func (f *File) SetTime(t time.Time) {
	f.mustLoaded()

	// Strip monotonic clock reading.
	t = t.Round(0)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Time = &t
}

// Exists reports whether the config file is present on disk.
func (f *File) Exists() bool {
	_, err := os.Stat(f.filepath)
	return err == nil
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

// Save writes every setting, defaults included, so the file documents
// what is in effect.
func (f *File) Save() error {
	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	raw, err := NewRawFileConfigFromConfig(f)
	if err != nil {
		return err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(raw)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	f.mustLoaded()

	return logrus.Fields{
		"refreshMs":    f.RefreshMs(),
		"lastRateMw":   f.LastRateMw(),
		"logging":      f.Logging(),
		"firstRun":     f.FirstRun(),
		"barWidth":     f.BarWidth(),
		"drawChar":     string(f.DrawChar()),
		"useOutline":   f.UseOutline(),
		"showPercent":  f.ShowPercent(),
		"clampPercent": f.ClampPercent(),
	}
}

func (f *File) mustLoaded() {
	if f.c == nil {
		panic("config is nil")
	}
}
