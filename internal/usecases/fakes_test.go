package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abelzeko/powercut-bot/internal/entities"
)

type memoryRepository struct {
	samples []entities.WaterLevelSample
	saveErr error
	saves   int
}

func (r *memoryRepository) LoadSamples() ([]entities.WaterLevelSample, error) {
	return append([]entities.WaterLevelSample(nil), r.samples...), nil
}

func (r *memoryRepository) SaveSamples(samples []entities.WaterLevelSample) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.samples = append([]entities.WaterLevelSample(nil), samples...)
	return nil
}

func (r *memoryRepository) Close() error { return nil }

type fakeSource struct {
	reading entities.WaterLevelReading
	err     error
	delay   time.Duration

	mu    sync.Mutex
	calls int
}

func (s *fakeSource) FetchLatest(context.Context) (entities.WaterLevelReading, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	time.Sleep(s.delay)
	return s.reading, s.err
}

type staticLevels struct {
	sample entities.WaterLevelSample
	ok     bool
}

func (l staticLevels) Latest(context.Context) (entities.WaterLevelSample, bool) {
	return l.sample, l.ok
}

func levelOf(level float64) staticLevels {
	return staticLevels{sample: entities.WaterLevelSample{Date: day(2024, time.March, 1), Level: level}, ok: true}
}

type staticGeneration struct {
	report  entities.GenerationReport
	err     error
	panicky bool
}

func (g staticGeneration) ReadGeneration() (entities.GenerationReport, error) {
	if g.panicky {
		panic("source exploded")
	}
	return g.report, g.err
}

var errBoom = errors.New("boom")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
