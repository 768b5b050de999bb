// Package theme is the single owner of the day/night colour state. The
// settings form and the toggle control both go through a Holder.
package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ErrUnknownMode is returned for anything other than "day" or "night".
var ErrUnknownMode = errors.New("unknown theme mode")

// Mode is the active colour scheme.
type Mode int

const (
	Day Mode = iota
	Night
)

// RGB triples written to the two colour variables.
const (
	inkDark  = "10, 10, 20"
	inkLight = "255, 255, 255"
)

func (m Mode) String() string {
	switch m {
	case Day:
		return "day"
	case Night:
		return "night"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Night {
		return Day
	}
	return Night
}

// ParseMode accepts "day" or "night", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return Day, nil
	case "night":
		return Night, nil
	default:
		return Day, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Vars are the dark-ink and light-ink colour variables.
type Vars struct {
	DarkInk  string
	LightInk string
}

// VarsFor maps a mode to its variable pair. Night swaps the inks.
func VarsFor(m Mode) Vars {
	switch m {
	case Night:
		return Vars{DarkInk: inkLight, LightInk: inkDark}
	default:
		return Vars{DarkInk: inkDark, LightInk: inkLight}
	}
}

// Holder keeps the current mode and notifies subscribers on every change.
type Holder struct {
	mu          sync.RWMutex
	mode        Mode
	subscribers []func(Mode)
	initOnce    sync.Once
}

// NewHolder starts in day mode.
func NewHolder() *Holder {
	return &Holder{mode: Day}
}

// Mode returns the current mode.
func (h *Holder) Mode() Mode {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mode
}

// Vars returns the variable pair for the current mode.
func (h *Holder) Vars() Vars {
	return VarsFor(h.Mode())
}

// SetMode switches to m and notifies subscribers.
func (h *Holder) SetMode(m Mode) {
	h.mu.Lock()
	h.mode = m
	subs := append([]func(Mode){}, h.subscribers...)
	h.mu.Unlock()

	for _, fn := range subs {
		fn(m)
	}
}

// Update parses s and switches to it. Unknown values leave the mode as is.
func (h *Holder) Update(s string) error {
	m, err := ParseMode(s)
	if err != nil {
		return err
	}
	h.SetMode(m)
	return nil
}

// Toggle flips the mode and returns the new one.
func (h *Holder) Toggle() Mode {
	next := h.Mode().Opposite()
	h.SetMode(next)
	return next
}

// Subscribe registers fn to be called after every mode change.
func (h *Holder) Subscribe(fn func(Mode)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, fn)
}

// Initialize sets the starting mode from prefersDark. Only the first call
// detects; later calls return the current mode.
func (h *Holder) Initialize(prefersDark func() bool) Mode {
	h.initOnce.Do(func() {
		if prefersDark != nil && prefersDark() {
			h.SetMode(Night)
			return
		}
		h.SetMode(Day)
	})
	return h.Mode()
}

// Detector returns the preference function for a configured theme setting:
// "night" and "day" are fixed, anything else asks the terminal.
func Detector(setting string) func() bool {
	switch strings.ToLower(setting) {
	case "night":
		return func() bool { return true }
	case "day":
		return func() bool { return false }
	default:
		return lipgloss.HasDarkBackground
	}
}
