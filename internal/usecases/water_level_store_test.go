package usecases

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/abelzeko/powercut-bot/internal/entities"
	"github.com/abelzeko/powercut-bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadDedupesAndSorts(t *testing.T) {
	repo := &memoryRepository{samples: []entities.WaterLevelSample{
		{Date: day(2024, time.March, 3), Level: 477},
		{Date: day(2024, time.March, 1), Level: 480},
		{Date: day(2024, time.March, 2), Level: 479},
		{Date: day(2024, time.March, 3), Level: 476.5},
	}}
	store := NewWaterLevelStore(repo, &fakeSource{}, nil)
	require.NoError(t, store.Load())

	samples := store.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, day(2024, time.March, 1), samples[0].Date)
	assert.Equal(t, day(2024, time.March, 2), samples[1].Date)
	assert.Equal(t, 476.5, samples[2].Level, "last persisted row for a date wins")
}

func TestStoreLoadDropsMalformedPersistedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kariba_levels.csv")
	content := "date,level,percent_full\n" +
		"01/03/2024,480,30\n" +
		"31/02/2024,479,29\n" +
		"garbage,478,28\n" +
		"02/03/2024 07:45,477,27\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	repo, err := repository.NewCSVWaterLevelRepository(path)
	require.NoError(t, err)

	store := NewWaterLevelStore(repo, &fakeSource{}, nil)
	require.NoError(t, store.Load())

	samples := store.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, day(2024, time.March, 1), samples[0].Date)
	assert.Equal(t, day(2024, time.March, 2), samples[1].Date)
}

func TestStoreFetchLatestUpsertsByDate(t *testing.T) {
	repo := &memoryRepository{}
	source := &fakeSource{reading: entities.WaterLevelReading{Level: 477.2, PercentFull: 18}}
	now := time.Date(2024, time.April, 10, 9, 30, 0, 0, time.UTC)
	store := NewWaterLevelStore(repo, source, fixedClock(now))

	require.NoError(t, store.FetchLatest(context.Background()))
	require.NoError(t, store.FetchLatest(context.Background()))

	samples := store.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, day(2024, time.April, 10), samples[0].Date)
	assert.Len(t, repo.samples, 1)

	source.reading = entities.WaterLevelReading{Level: 477.4, PercentFull: 19}
	require.NoError(t, store.FetchLatest(context.Background()))

	samples = store.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, 477.4, samples[0].Level)
	assert.Equal(t, 477.4, repo.samples[0].Level)
	assert.Equal(t, 3, repo.saves)
}

func TestStoreFetchLatestFailureKeepsSeries(t *testing.T) {
	repo := &memoryRepository{samples: []entities.WaterLevelSample{{Date: day(2024, time.April, 9), Level: 477}}}
	source := &fakeSource{err: errBoom}
	store := NewWaterLevelStore(repo, source, fixedClock(day(2024, time.April, 10)))
	require.NoError(t, store.Load())

	err := store.FetchLatest(context.Background())
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, store.Samples(), 1)
	assert.Equal(t, 0, repo.saves)
}

func TestStoreFetchLatestPersistFailureRollsBack(t *testing.T) {
	repo := &memoryRepository{samples: []entities.WaterLevelSample{{Date: day(2024, time.April, 10), Level: 477}}}
	source := &fakeSource{reading: entities.WaterLevelReading{Level: 470}}
	store := NewWaterLevelStore(repo, source, fixedClock(day(2024, time.April, 10)))
	require.NoError(t, store.Load())

	repo.saveErr = errBoom
	assert.Error(t, store.FetchLatest(context.Background()))

	samples := store.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, 477.0, samples[0].Level)
}

func TestStoreLatestFetchesWhenStale(t *testing.T) {
	repo := &memoryRepository{samples: []entities.WaterLevelSample{{Date: day(2024, time.April, 9), Level: 477}}}
	source := &fakeSource{reading: entities.WaterLevelReading{Level: 476.8, PercentFull: 15}}
	store := NewWaterLevelStore(repo, source, fixedClock(time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, store.Load())

	latest, ok := store.Latest(context.Background())
	require.True(t, ok)
	assert.Equal(t, day(2024, time.April, 10), latest.Date)
	assert.Equal(t, 476.8, latest.Level)
	assert.Equal(t, 1, source.calls)

	_, ok = store.Latest(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1, source.calls, "already fetched today")
}

func TestStoreLatestReusesStaleDataOnFailure(t *testing.T) {
	repo := &memoryRepository{samples: []entities.WaterLevelSample{{Date: day(2024, time.April, 9), Level: 477}}}
	source := &fakeSource{err: errBoom}
	store := NewWaterLevelStore(repo, source, fixedClock(day(2024, time.April, 10)))
	require.NoError(t, store.Load())

	latest, ok := store.Latest(context.Background())
	require.True(t, ok)
	assert.Equal(t, day(2024, time.April, 9), latest.Date)
	assert.Equal(t, 1, source.calls)
}

func latestConcurrently(store *WaterLevelStore, callers int) time.Duration {
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			store.Latest(context.Background())
		}()
	}
	began := time.Now()
	close(start)
	wg.Wait()
	return time.Since(began)
}

func TestStoreLatestConcurrentCallersShareOneFetch(t *testing.T) {
	const delay = 200 * time.Millisecond
	repo := &memoryRepository{samples: []entities.WaterLevelSample{{Date: day(2024, time.April, 9), Level: 477}}}
	source := &fakeSource{reading: entities.WaterLevelReading{Level: 476.8, PercentFull: 15}, delay: delay}
	store := NewWaterLevelStore(repo, source, fixedClock(day(2024, time.April, 10)))
	require.NoError(t, store.Load())

	elapsed := latestConcurrently(store, 5)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 1, repo.saves)
	assert.Less(t, elapsed, 3*delay)

	latest, ok := store.Latest(context.Background())
	require.True(t, ok)
	assert.Equal(t, day(2024, time.April, 10), latest.Date)
}

func TestStoreLatestConcurrentFailuresDoNotQueue(t *testing.T) {
	const delay = 200 * time.Millisecond
	repo := &memoryRepository{samples: []entities.WaterLevelSample{{Date: day(2024, time.April, 9), Level: 477}}}
	source := &fakeSource{err: errBoom, delay: delay}
	store := NewWaterLevelStore(repo, source, fixedClock(day(2024, time.April, 10)))
	require.NoError(t, store.Load())

	elapsed := latestConcurrently(store, 5)

	assert.Less(t, elapsed, 3*delay, "callers waited on each other's failed fetches")
	assert.Less(t, source.calls, 5)
	assert.Equal(t, 0, repo.saves)
}

func TestStoreLatestEmpty(t *testing.T) {
	source := &fakeSource{err: errBoom}
	store := NewWaterLevelStore(&memoryRepository{}, source, fixedClock(day(2024, time.April, 10)))

	_, ok := store.Latest(context.Background())
	assert.False(t, ok)
	assert.Equal(t, 1, source.calls)
}

func TestStoreTrend(t *testing.T) {
	repo := &memoryRepository{samples: []entities.WaterLevelSample{
		{Date: day(2024, time.March, 1), Level: 480},
		{Date: day(2024, time.March, 2), Level: 479},
		{Date: day(2024, time.March, 3), Level: 477},
	}}
	store := NewWaterLevelStore(repo, &fakeSource{}, nil)
	require.NoError(t, store.Load())

	assert.Equal(t, -1.0, store.Trend(3))
	assert.Equal(t, -1.0, store.Trend(2))
	assert.InDelta(t, -3.0/7.0, store.Trend(7), 1e-9)
	assert.Equal(t, 0.0, store.Trend(1))
	assert.Equal(t, 0.0, store.Trend(0))
}

func TestStoreTrendSingleSample(t *testing.T) {
	repo := &memoryRepository{samples: []entities.WaterLevelSample{{Date: day(2024, time.March, 1), Level: 480}}}
	store := NewWaterLevelStore(repo, &fakeSource{}, nil)
	require.NoError(t, store.Load())

	assert.Equal(t, 0.0, store.Trend(7))
}
