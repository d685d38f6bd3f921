// Package usecases contains the application's business logic
package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abelzeko/powercut-bot/internal/entities"
	"github.com/abelzeko/powercut-bot/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// WaterLevelSource provides today's reading of the reservoir
type WaterLevelSource interface {
	FetchLatest(ctx context.Context) (entities.WaterLevelReading, error)
}

// WaterLevelStore keeps the reservoir series in memory, keyed by calendar date,
// and persists it through a repository after every successful fetch.
type WaterLevelStore struct {
	repo   repository.WaterLevelRepository
	source WaterLevelSource
	now    func() time.Time

	mu      sync.RWMutex
	samples map[time.Time]entities.WaterLevelSample

	// serializes fetch-and-persist so writes to the backing file never interleave
	fetchMu sync.Mutex
	// collapses concurrent refreshes triggered by Latest
	refresh singleflight.Group
}

// NewWaterLevelStore creates an empty store. A nil clock means time.Now.
func NewWaterLevelStore(repo repository.WaterLevelRepository, source WaterLevelSource, now func() time.Time) *WaterLevelStore {
	if now == nil {
		now = time.Now
	}
	return &WaterLevelStore{
		repo:    repo,
		source:  source,
		now:     now,
		samples: make(map[time.Time]entities.WaterLevelSample),
	}
}

// Load replaces the in-memory series with the persisted one. Later rows win
// when the persisted series holds the same date twice.
func (s *WaterLevelStore) Load() error {
	persisted, err := s.repo.LoadSamples()
	if err != nil {
		return fmt.Errorf("failed to load water levels: %w", err)
	}

	samples := make(map[time.Time]entities.WaterLevelSample, len(persisted))
	for _, sample := range persisted {
		sample.Date = entities.DateOf(sample.Date)
		samples[sample.Date] = sample
	}

	s.mu.Lock()
	s.samples = samples
	s.mu.Unlock()

	log.Info().Int("samples", len(samples)).Msg("water level series loaded")
	return nil
}

// FetchLatest reads today's level from the source, upserts it under today's
// date and persists the series. On failure the series is left untouched.
func (s *WaterLevelStore) FetchLatest(ctx context.Context) error {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	reading, err := s.source.FetchLatest(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch lake level")
		return fmt.Errorf("failed to fetch lake level: %w", err)
	}

	today := entities.DateOf(s.now())
	sample := entities.WaterLevelSample{
		Date:        today,
		Level:       reading.Level,
		PercentFull: reading.PercentFull,
	}

	s.mu.Lock()
	previous, existed := s.samples[today]
	s.samples[today] = sample
	snapshot := s.sortedLocked()
	s.mu.Unlock()

	if err := s.repo.SaveSamples(snapshot); err != nil {
		s.mu.Lock()
		if existed {
			s.samples[today] = previous
		} else {
			delete(s.samples, today)
		}
		s.mu.Unlock()
		log.Error().Err(err).Msg("failed to persist lake level")
		return fmt.Errorf("failed to persist lake level: %w", err)
	}

	log.Info().
		Str("date", entities.FormatSampleDate(today)).
		Float64("level", sample.Level).
		Float64("percent_full", sample.PercentFull).
		Msg("saved lake level")
	return nil
}

// Latest returns the newest sample, fetching first when the series has
// nothing for today. Concurrent callers share a single fetch, and a failed
// fetch falls back to the stale data.
func (s *WaterLevelStore) Latest(ctx context.Context) (entities.WaterLevelSample, bool) {
	if s.stale() {
		_, err, _ := s.refresh.Do("latest", func() (interface{}, error) {
			if !s.stale() {
				return nil, nil
			}
			return nil, s.FetchLatest(ctx)
		})
		if err != nil {
			log.Warn().Err(err).Msg("using stale lake level data")
		}
	}
	return s.newest()
}

// stale reports whether the series has nothing for today
func (s *WaterLevelStore) stale() bool {
	newest, ok := s.newest()
	return !ok || newest.Date.Before(entities.DateOf(s.now()))
}

// Trend returns the average daily change over the last windowDays samples,
// or 0 when fewer than two samples are available.
func (s *WaterLevelStore) Trend(windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}
	samples := s.Samples()
	if len(samples) > windowDays {
		samples = samples[len(samples)-windowDays:]
	}
	if len(samples) < 2 {
		return 0
	}
	first := samples[0].Level
	last := samples[len(samples)-1].Level
	return (last - first) / float64(windowDays)
}

// Samples returns the series in chronological order
func (s *WaterLevelStore) Samples() []entities.WaterLevelSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *WaterLevelStore) newest() (entities.WaterLevelSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newest entities.WaterLevelSample
	found := false
	for date, sample := range s.samples {
		if !found || date.After(newest.Date) {
			newest = sample
			found = true
		}
	}
	return newest, found
}

func (s *WaterLevelStore) sortedLocked() []entities.WaterLevelSample {
	out := make([]entities.WaterLevelSample, 0, len(s.samples))
	for _, sample := range s.samples {
		out = append(out, sample)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
