package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUnknownDriver = errors.New("unknown results driver")
	ErrClosed        = errors.New("results store closed")
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// MemoryDSN keeps results for the process lifetime only
	MemoryDSN = "file::memory:?cache=shared"
)

// Config selects the results backend
type Config struct {
	Driver string
	DSN    string
}

// Store persists lap and race results through GORM
type Store struct {
	cfg Config
	log zerolog.Logger
	db  *gorm.DB
}

// New returns an unopened store; Init opens it
func New(cfg Config, log zerolog.Logger) *Store {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.DSN == "" && cfg.Driver == DriverSQLite {
		cfg.DSN = MemoryDSN
	}
	return &Store{cfg: cfg, log: log}
}

// Open creates and migrates a store in one call
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	s := New(cfg, log)
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) dialector() (gorm.Dialector, error) {
	switch s.cfg.Driver {
	case DriverSQLite:
		return sqlite.Open(s.cfg.DSN), nil
	case DriverPostgres:
		return postgres.New(postgres.Config{DSN: s.cfg.DSN, PreferSimpleProtocol: true}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, s.cfg.Driver)
	}
}

func (s *Store) Name() string           { return "results" }
func (s *Store) Dependencies() []string { return nil }

// Init connects and migrates the schema
func (s *Store) Init(ctx context.Context) error {
	dial, err := s.dialector()
	if err != nil {
		return err
	}
	db, err := gorm.Open(dial, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open %s results db: %w", s.cfg.Driver, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&RaceResult{}, &LapRecord{}); err != nil {
		return fmt.Errorf("migrate results db: %w", err)
	}
	s.db = db
	s.log.Info().Str("driver", s.cfg.Driver).Msg("results store ready")
	return nil
}

func (s *Store) Start() error { return nil }

// Stop closes the connection pool
func (s *Store) Stop() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return fmt.Errorf("results db handle: %w", err)
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db.WithContext(ctx), nil
}

// SaveLap stores one lap record
func (s *Store) SaveLap(ctx context.Context, lap *LapRecord) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(lap).Error; err != nil {
		return fmt.Errorf("save lap: %w", err)
	}
	return nil
}

// SaveRace stores the result and attaches the session's laps to it
func (s *Store) SaveRace(ctx context.Context, session string, res *RaceResult) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(res).Error; err != nil {
			return fmt.Errorf("save race: %w", err)
		}
		err := tx.Model(&LapRecord{}).
			Where("session = ? AND car = ? AND race_id = 0", session, res.Car).
			Update("race_id", res.ID).Error
		if err != nil {
			return fmt.Errorf("link laps: %w", err)
		}
		return nil
	})
}

// BestLaps returns the fastest laps across all races, fastest first
func (s *Store) BestLaps(ctx context.Context, limit int) ([]LapRecord, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var laps []LapRecord
	if err := db.Order("lap_time ASC").Limit(limit).Find(&laps).Error; err != nil {
		return nil, fmt.Errorf("best laps: %w", err)
	}
	return laps, nil
}

// Race loads a result with its laps
func (s *Store) Race(ctx context.Context, id uint) (*RaceResult, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var res RaceResult
	err = db.Preload("LapTimes", func(tx *gorm.DB) *gorm.DB { return tx.Order("lap ASC") }).
		First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("race %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load race: %w", err)
	}
	return &res, nil
}

// Races returns the most recent results, newest first
func (s *Store) Races(ctx context.Context, limit int) ([]RaceResult, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	var out []RaceResult
	if err := db.Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}
	return out, nil
}
