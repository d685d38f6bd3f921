package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abelzeko/powercut-bot/internal/entities"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const createWaterLevelsSQL = `
	CREATE TABLE IF NOT EXISTS water_levels (
		date TEXT PRIMARY KEY,
		level DOUBLE PRECISION NOT NULL,
		percent_full DOUBLE PRECISION NOT NULL
	)`

const upsertWaterLevelSQL = `
	INSERT INTO water_levels(date, level, percent_full)
	VALUES(?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
	level=excluded.level,
	percent_full=excluded.percent_full`

type waterLevelRow struct {
	Date        string  `db:"date"`
	Level       float64 `db:"level"`
	PercentFull float64 `db:"percent_full"`
}

// SQLWaterLevelRepository implements WaterLevelRepository on top of SQLite or PostgreSQL
type SQLWaterLevelRepository struct {
	db     *sqlx.DB
	Driver string
}

// NewSQLiteWaterLevelRepository creates and initializes a SQLite backed repository
func NewSQLiteWaterLevelRepository(dbPath string) (*SQLWaterLevelRepository, error) {
	if dbPath == "" {
		dbPath = filepath.Join("data", "kariba_levels.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	log.Info().Str("path", dbPath).Msg("opening sqlite database")
	return newSQLWaterLevelRepository("sqlite3", dbPath)
}

// NewPostgresWaterLevelRepository creates and initializes a PostgreSQL backed repository
func NewPostgresWaterLevelRepository(dsn string) (*SQLWaterLevelRepository, error) {
	log.Info().Msg("connecting to postgres")
	return newSQLWaterLevelRepository("pgx", dsn)
}

func newSQLWaterLevelRepository(driver, dsn string) (*SQLWaterLevelRepository, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(createWaterLevelsSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &SQLWaterLevelRepository{db: db, Driver: driver}, nil
}

// Close closes the database connection
func (r *SQLWaterLevelRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadSamples returns every stored sample, dropping rows whose date cannot be parsed
func (r *SQLWaterLevelRepository) LoadSamples() ([]entities.WaterLevelSample, error) {
	var rows []waterLevelRow
	if err := r.db.Select(&rows, `SELECT date, level, percent_full FROM water_levels`); err != nil {
		return nil, fmt.Errorf("failed to query water levels: %w", err)
	}

	samples := make([]entities.WaterLevelSample, 0, len(rows))
	for _, row := range rows {
		date, err := entities.ParseSampleDate(row.Date)
		if err != nil {
			log.Warn().Err(err).Str("date", row.Date).Msg("skipping malformed water level row")
			continue
		}
		samples = append(samples, entities.WaterLevelSample{
			Date:        date,
			Level:       row.Level,
			PercentFull: row.PercentFull,
		})
	}
	return samples, nil
}

// SaveSamples upserts every sample keyed by date in a single transaction
func (r *SQLWaterLevelRepository) SaveSamples(samples []entities.WaterLevelSample) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Preparex(tx.Rebind(upsertWaterLevelSQL))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		date := entities.FormatSampleDate(s.Date)
		if _, err := stmt.Exec(date, s.Level, s.PercentFull); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert sample for %s: %w", date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().Int("samples", len(samples)).Str("driver", r.Driver).Msg("saved water level samples")
	return nil
}
