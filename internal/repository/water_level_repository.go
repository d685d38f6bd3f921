// Package repository provides data access implementations
package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abelzeko/powercut-bot/internal/entities"
	"github.com/rs/zerolog/log"
)

// WaterLevelRepository defines the persistence operations for the reservoir time series
type WaterLevelRepository interface {
	LoadSamples() ([]entities.WaterLevelSample, error)
	SaveSamples(samples []entities.WaterLevelSample) error
	Close() error
}

var csvHeader = []string{"date", "level", "percent_full"}

// CSVWaterLevelRepository stores the series as a CSV table with a date,level,percent_full header
type CSVWaterLevelRepository struct {
	Path string
}

// NewCSVWaterLevelRepository opens the CSV file at path, creating it with a header if it does not exist
func NewCSVWaterLevelRepository(path string) (*CSVWaterLevelRepository, error) {
	if path == "" {
		path = filepath.Join("data", "kariba_levels.csv")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &CSVWaterLevelRepository{Path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("creating empty water level file")
		if err := repo.SaveSamples(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return repo, nil
}

// Close is a no-op; the file is opened per operation
func (r *CSVWaterLevelRepository) Close() error {
	return nil
}

// LoadSamples reads every well-formed row. Rows with an unparseable date or
// non-numeric values are skipped with a warning.
func (r *CSVWaterLevelRepository) LoadSamples() ([]entities.WaterLevelSample, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", r.Path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", r.Path, err)
	}
	columns, err := indexColumns(header)
	if err != nil {
		return nil, fmt.Errorf("invalid header in %s: %w", r.Path, err)
	}

	var samples []entities.WaterLevelSample
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping unreadable water level row")
			continue
		}
		sample, err := decodeCSVRecord(record, columns)
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("skipping malformed water level row")
			continue
		}
		samples = append(samples, sample)
	}

	log.Debug().Int("samples", len(samples)).Str("path", r.Path).Msg("loaded water level samples")
	return samples, nil
}

// SaveSamples rewrites the whole file. It writes to a temporary file first so
// a failed write never truncates the existing series.
func (r *CSVWaterLevelRepository) SaveSamples(samples []entities.WaterLevelSample) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.Path), ".kariba-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range samples {
		record := []string{
			entities.FormatSampleDate(s.Date),
			strconv.FormatFloat(s.Level, 'f', -1, 64),
			strconv.FormatFloat(s.PercentFull, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write sample for %s: %w", record[0], err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush samples: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.Path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.Path, err)
	}

	log.Info().Int("samples", len(samples)).Str("path", r.Path).Msg("saved water level samples")
	return nil
}

type csvColumns struct {
	date, level, percent int
}

func indexColumns(header []string) (csvColumns, error) {
	cols := csvColumns{date: -1, level: -1, percent: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "level":
			cols.level = i
		case "percent_full":
			cols.percent = i
		}
	}
	if cols.date < 0 || cols.level < 0 || cols.percent < 0 {
		return cols, fmt.Errorf("expected columns %v, got %v", csvHeader, header)
	}
	return cols, nil
}

func decodeCSVRecord(record []string, cols csvColumns) (entities.WaterLevelSample, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	date, err := entities.ParseSampleDate(field(cols.date))
	if err != nil {
		return entities.WaterLevelSample{}, err
	}
	level, err := strconv.ParseFloat(field(cols.level), 64)
	if err != nil {
		return entities.WaterLevelSample{}, fmt.Errorf("invalid level %q", field(cols.level))
	}
	percent, err := strconv.ParseFloat(field(cols.percent), 64)
	if err != nil {
		return entities.WaterLevelSample{}, fmt.Errorf("invalid percent_full %q", field(cols.percent))
	}
	return entities.WaterLevelSample{Date: date, Level: level, PercentFull: percent}, nil
}
