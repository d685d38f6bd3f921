package repository

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// LocationDirectory maps normalized location names to known fault descriptions.
// It is built once and never mutated afterwards.
type LocationDirectory struct {
	faults    map[string]string
	locations []string
}

// NormalizeLocation returns the lookup key for a user supplied location
func NormalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// LoadLocationDirectory reads lines of the form "location" or "location,fault reason".
// A missing file yields an empty directory.
func LoadLocationDirectory(path string) (*LocationDirectory, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", path).Msg("locations file not found, using empty directory")
		return NewLocationDirectory(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open locations file: %w", err)
	}
	defer f.Close()

	dir := NewLocationDirectory(nil)
	known := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		switch len(parts) {
		case 1:
			// known location with no fault entry, so the computed reason stands
			known[NormalizeLocation(parts[0])] = true
		case 2:
			location := NormalizeLocation(parts[0])
			known[location] = true
			if fault := strings.TrimSpace(parts[1]); fault != "" {
				dir.faults[location] = fault
			}
		default:
			log.Warn().Str("line", line).Msg("skipping invalid line in locations file")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}

	for location := range known {
		dir.locations = append(dir.locations, location)
	}
	sort.Strings(dir.locations)

	log.Info().Int("locations", len(dir.locations)).Int("faults", len(dir.faults)).Msg("loaded location directory")
	return dir, nil
}

// NewLocationDirectory builds a directory from an in-memory fault table
func NewLocationDirectory(faults map[string]string) *LocationDirectory {
	dir := &LocationDirectory{faults: make(map[string]string, len(faults))}
	for location, fault := range faults {
		key := NormalizeLocation(location)
		dir.faults[key] = fault
		dir.locations = append(dir.locations, key)
	}
	sort.Strings(dir.locations)
	return dir
}

// Lookup returns the fault reason recorded for location, if any
func (d *LocationDirectory) Lookup(location string) (string, bool) {
	fault, ok := d.faults[NormalizeLocation(location)]
	return fault, ok
}

// Locations returns all known locations in alphabetical order
func (d *LocationDirectory) Locations() []string {
	out := make([]string, len(d.locations))
	copy(out, d.locations)
	return out
}
