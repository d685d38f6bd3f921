// Package entities contains the core domain objects for the powercut-bot application
package entities

import (
	"fmt"
	"strings"
	"time"
)

// Accepted layouts for persisted sample dates. SampleDateLayout is the one written back.
const (
	SampleDateTimeLayout = "02/01/2006 15:04"
	SampleDateLayout     = "02/01/2006"
)

// WaterLevelSample represents a single daily reading of the Kariba reservoir
type WaterLevelSample struct {
	Date        time.Time // Calendar day of the reading (midnight UTC)
	Level       float64   // Meters above datum
	PercentFull float64   // Usable storage in percent
}

// WaterLevelReading is a level observation that has not been assigned a date yet
type WaterLevelReading struct {
	Level       float64
	PercentFull float64
}

// DateOf truncates t to its calendar day so samples can be keyed by date
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseSampleDate parses a persisted date in either the with-time or the date-only layout
func ParseSampleDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(SampleDateTimeLayout, value); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(SampleDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised sample date %q", value)
	}
	return DateOf(t), nil
}

// FormatSampleDate renders a sample date the way it is persisted
func FormatSampleDate(t time.Time) string {
	return t.Format(SampleDateLayout)
}
