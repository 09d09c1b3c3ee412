package clock

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Clock reports the current instant in the organization's fixed offset.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// NewSystem returns a Clock backed by the wall clock, presented in loc.
func NewSystem(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Location() *time.Location {
	return c.loc
}

// Fixed is a settable Clock for tests and replays.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fixed) Location() *time.Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now.Location()
}

func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// ParseOffset parses "+07:00", "-03:30" or "UTC" into a fixed zone.
func ParseOffset(offset string) (*time.Location, error) {
	offset = strings.TrimSpace(offset)
	if offset == "" || strings.EqualFold(offset, "UTC") || offset == "Z" {
		return time.UTC, nil
	}

	sign := 1
	switch offset[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, fmt.Errorf("invalid offset %q: must start with + or -", offset)
	}

	parts := strings.Split(offset[1:], ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid offset %q: expected ±HH:MM", offset)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours > 14 {
		return nil, fmt.Errorf("invalid offset hours in %q", offset)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return nil, fmt.Errorf("invalid offset minutes in %q", offset)
	}

	seconds := sign * (hours*3600 + minutes*60)
	return time.FixedZone("UTC"+offset, seconds), nil
}

// MinutesOfDay returns minutes since local midnight of t, ignoring seconds.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseHHMM converts "08:00" into minutes since midnight.
func ParseHHMM(value string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	return MinutesOfDay(t), nil
}

// DateOf returns the calendar date of t (in t's own location) as midnight UTC,
// which is how DATE columns round-trip through pgx.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
