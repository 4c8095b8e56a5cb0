package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	applogger "FinDash/pkg/logger"
	"FinDash/pkg/util"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS bars (
		symbol   TEXT NOT NULL,
		resolution TEXT NOT NULL,
		date     TEXT NOT NULL,
		open     REAL NOT NULL,
		high     REAL NOT NULL,
		low      REAL NOT NULL,
		close    REAL NOT NULL,
		volume   INTEGER,
		PRIMARY KEY (symbol, resolution, date)
	)`,
	`CREATE TABLE IF NOT EXISTS observations (
		series_id TEXT NOT NULL,
		date      TEXT NOT NULL,
		value     REAL NOT NULL,
		PRIMARY KEY (series_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS signals (
		symbol     TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// SQLiteStore implements Storage on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
	l  *applogger.Logger
}

// NewSQLiteStore opens path; ":memory:" gives a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db, l: applogger.Nop()}, nil
}

// SetLogger injects a structured logger.
func (s *SQLiteStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *SQLiteStore) Init(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite init: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, iv domrepo.Interval, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	start := time.Now()
	err := s.inTx(ctx, `INSERT OR REPLACE INTO bars (symbol, resolution, date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, func(stmt *sql.Stmt) error {
		for _, b := range bars {
			var vol sql.NullInt64
			if b.Volume != nil {
				vol = sql.NullInt64{Int64: *b.Volume, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, symbol, string(iv), b.Date.UTC().Format(util.DateLayout),
				b.Open, b.High, b.Low, b.Close, vol); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.l.Error("sqlite save_bars error", applogger.String("symbol", symbol), applogger.Error(err))
		return fmt.Errorf("save bars: %w", err)
	}
	s.l.Debug("sqlite save_bars ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(bars)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (s *SQLiteStore) Bars(ctx context.Context, symbol string, iv domrepo.Interval, from time.Time, limit int) ([]models.PriceBar, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT date, open, high, low, close, volume FROM bars
		WHERE symbol = ? AND resolution = ? AND date >= ?
		ORDER BY date DESC LIMIT ?`, symbol, string(iv), from.UTC().Format(util.DateLayout), limit)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var out []models.PriceBar
	for rows.Next() {
		var (
			b    models.PriceBar
			date string
			vol  sql.NullInt64
		)
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &vol); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Date = util.ParseTimeDefault(date, time.Time{})
		if vol.Valid {
			v := vol.Int64
			b.Volume = &v
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	reverse(out)
	return out, nil
}

func (s *SQLiteStore) SaveObservations(ctx context.Context, seriesID string, points []models.ObservationPoint) error {
	if len(points) == 0 {
		return nil
	}
	err := s.inTx(ctx, `INSERT OR REPLACE INTO observations (series_id, date, value) VALUES (?, ?, ?)`,
		func(stmt *sql.Stmt) error {
			for _, p := range points {
				if _, err := stmt.ExecContext(ctx, seriesID, p.Date.UTC().Format(util.DateLayout), p.Value); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("save observations: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Observations(ctx context.Context, seriesID string, limit int) ([]models.ObservationPoint, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT date, value FROM observations
		WHERE series_id = ? ORDER BY date DESC LIMIT ?`, seriesID, limit)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []models.ObservationPoint
	for rows.Next() {
		var (
			p    models.ObservationPoint
			date string
		)
		if err := rows.Scan(&date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		p.Date = util.ParseTimeDefault(date, time.Time{})
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	reverse(out)
	return out, nil
}

func (s *SQLiteStore) SaveSignal(ctx context.Context, sig *models.TechnicalSignal) error {
	payload, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO signals (symbol, payload, updated_at) VALUES (?, ?, ?)`,
		sig.Symbol, string(payload), sig.Timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save signal: %w", err)
	}
	return nil
}

// LatestSignal returns nil, nil when nothing was stored for symbol.
func (s *SQLiteStore) LatestSignal(ctx context.Context, symbol string) (*models.TechnicalSignal, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM signals WHERE symbol = ?`, symbol).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest signal: %w", err)
	}
	var sig models.TechnicalSignal
	if err := json.Unmarshal([]byte(payload), &sig); err != nil {
		return nil, fmt.Errorf("decode signal: %w", err)
	}
	return &sig, nil
}

func (s *SQLiteStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) inTx(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	if err := fn(stmt); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func reverse[T any](xs []T) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}
