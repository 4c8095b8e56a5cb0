package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"FinDash/internal/domain/models"
	domrepo "FinDash/internal/domain/repository"
	pkgch "FinDash/pkg/clickhouse"
	applogger "FinDash/pkg/logger"
)

// ClickHouseSchema is applied by Init. ReplacingMergeTree keeps the newest row per key,
// so reads use FINAL.
var ClickHouseSchema = []string{
	`CREATE DATABASE IF NOT EXISTS findash`,
	`CREATE TABLE IF NOT EXISTS findash.bars (
		symbol     LowCardinality(String),
		resolution LowCardinality(String),
		date       Date,
		open       Float64,
		high       Float64,
		low        Float64,
		close      Float64,
		volume     Nullable(Int64),
		inserted   DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(inserted)
	ORDER BY (symbol, resolution, date)`,
	`CREATE TABLE IF NOT EXISTS findash.observations (
		series_id LowCardinality(String),
		date      Date,
		value     Float64,
		inserted  DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(inserted)
	ORDER BY (series_id, date)`,
	`CREATE TABLE IF NOT EXISTS findash.signals (
		symbol    LowCardinality(String),
		ts        DateTime64(3),
		type      LowCardinality(String),
		strength  Float64,
		payload   String
	) ENGINE = MergeTree
	ORDER BY (symbol, ts)`,
}

// CHStore implements Storage backed by ClickHouse.
type CHStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

func NewCHStore(ch *pkgch.Client) *CHStore {
	return &CHStore{ch: ch, db: ch.DB(), l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *CHStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, ClickHouseSchema)
}

func (s *CHStore) SaveBars(ctx context.Context, symbol string, iv domrepo.Interval, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	start := time.Now()
	err := s.batch(ctx, `INSERT INTO findash.bars (symbol, resolution, date, open, high, low, close, volume)`, func(stmt *sql.Stmt) error {
		for _, b := range bars {
			if _, err := stmt.ExecContext(ctx, symbol, string(iv), b.Date.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.l.Error("clickhouse save_bars error", applogger.String("symbol", symbol), applogger.Error(err))
		return fmt.Errorf("save bars: %w", err)
	}
	s.l.Debug("clickhouse save_bars ok",
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(bars)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (s *CHStore) Bars(ctx context.Context, symbol string, iv domrepo.Interval, from time.Time, limit int) ([]models.PriceBar, error) {
	if limit <= 0 {
		limit = 100000
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT date, open, high, low, close, volume
        FROM findash.bars FINAL
        WHERE symbol = ? AND resolution = ? AND date >= ?
        ORDER BY date DESC
        LIMIT ?`, symbol, string(iv), from.UTC(), limit)
	if err != nil {
		s.l.Error("clickhouse bars query error", applogger.String("symbol", symbol), applogger.Error(err))
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var out []models.PriceBar
	for rows.Next() {
		var (
			b   models.PriceBar
			vol sql.NullInt64
		)
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &vol); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
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

func (s *CHStore) SaveObservations(ctx context.Context, seriesID string, points []models.ObservationPoint) error {
	if len(points) == 0 {
		return nil
	}
	err := s.batch(ctx, `INSERT INTO findash.observations (series_id, date, value)`, func(stmt *sql.Stmt) error {
		for _, p := range points {
			if _, err := stmt.ExecContext(ctx, seriesID, p.Date.UTC(), p.Value); err != nil {
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

func (s *CHStore) Observations(ctx context.Context, seriesID string, limit int) ([]models.ObservationPoint, error) {
	if limit <= 0 {
		limit = 100000
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT date, value
        FROM findash.observations FINAL
        WHERE series_id = ?
        ORDER BY date DESC
        LIMIT ?`, seriesID, limit)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []models.ObservationPoint
	for rows.Next() {
		var p models.ObservationPoint
		if err := rows.Scan(&p.Date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	reverse(out)
	return out, nil
}

// SaveSignal appends; the signals table is a history, LatestSignal reads its tail.
func (s *CHStore) SaveSignal(ctx context.Context, sig *models.TechnicalSignal) error {
	payload, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO findash.signals (symbol, ts, type, strength, payload) VALUES (?, ?, ?, ?, ?)`,
		sig.Symbol, sig.Timestamp.UTC(), string(sig.Type), sig.Strength, string(payload))
	if err != nil {
		return fmt.Errorf("save signal: %w", err)
	}
	return nil
}

func (s *CHStore) LatestSignal(ctx context.Context, symbol string) (*models.TechnicalSignal, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM findash.signals WHERE symbol = ? ORDER BY ts DESC LIMIT 1`, symbol).Scan(&payload)
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

func (s *CHStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *CHStore) Close() error {
	return s.ch.Close()
}

// batch runs a block insert: clickhouse-go buffers Exec calls on a prepared
// statement and sends them on Commit.
func (s *CHStore) batch(ctx context.Context, insert string, fn func(*sql.Stmt) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insert)
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
