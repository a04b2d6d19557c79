package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/biraj16/TPBK-V8/internal/config"
	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/pkg/logger"
)

const createSignalLogTable = `
CREATE TABLE IF NOT EXISTS signal_log (
	id              BIGSERIAL PRIMARY KEY,
	instrument_id   TEXT        NOT NULL,
	recorded_at     TIMESTAMPTZ NOT NULL,
	previous_signal TEXT        NOT NULL,
	new_signal      TEXT        NOT NULL,
	thesis          TEXT        NOT NULL,
	confidence      INTEGER     NOT NULL,
	ltp             DOUBLE PRECISION NOT NULL,
	dominant_player TEXT        NOT NULL,
	bullish_drivers TEXT        NOT NULL DEFAULT '',
	bearish_drivers TEXT        NOT NULL DEFAULT '',
	narrative       TEXT        NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_signal_log_instrument_time
	ON signal_log (instrument_id, recorded_at DESC);
`

// SignalLog is the PostgreSQL-backed durable log of signal transitions
type SignalLog struct {
	db *sql.DB
}

// NewSignalLog opens the database connection and ensures the signal_log
// table exists
func NewSignalLog(cfg config.DatabaseConfig) (*SignalLog, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createSignalLogTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure signal_log table: %w", err)
	}

	logger.Info("Signal log initialized",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
	)

	return &SignalLog{db: db}, nil
}

// LogSignal records one primary-signal transition
func (s *SignalLog) LogSignal(ctx context.Context, snap *models.SignalSnapshot, previous models.PrimarySignal) error {
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signal_log (
			instrument_id, recorded_at, previous_signal, new_signal,
			thesis, confidence, ltp, dominant_player,
			bullish_drivers, bearish_drivers, narrative
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		snap.InstrumentID, ts, string(previous), string(snap.PrimarySignal),
		string(snap.Thesis), snap.Confidence, snap.LTP, string(snap.DominantPlayer),
		snap.BullishDrivers, snap.BearishDrivers, snap.Narrative,
	)
	if err != nil {
		return fmt.Errorf("failed to insert signal log row: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SignalLog) Close() error {
	return s.db.Close()
}
