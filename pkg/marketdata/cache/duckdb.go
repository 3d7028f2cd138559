package cache

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/tradelens/chart-image/internal/logger"
	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
)

// DuckDBCache is a BarCache backed by a local DuckDB database file.
type DuckDBCache struct {
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

// NewDuckDBCache opens (or creates) the cache database at the given path.
// Pass ":memory:" for an ephemeral cache.
func NewDuckDBCache(path string, log *logger.Logger) (*DuckDBCache, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCacheUnavailable, "failed to open cache database", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			ticker TEXT NOT NULL,
			interval TEXT NOT NULL,
			time TIMESTAMP NOT NULL,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE,
			PRIMARY KEY (ticker, interval, time)
		)
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeCacheUnavailable, "failed to create bars table", err)
	}

	return &DuckDBCache{
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Lookup implements BarCache. Cached bar timestamps are stored as UTC
// instants, so hits produce a UTC-aware series.
func (c *DuckDBCache) Lookup(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) (optional.Option[*types.Series], error) {
	query, args, err := c.sq.
		Select("time", "open", "high", "low", "close", "volume").
		From("bars").
		Where(squirrel.Eq{"ticker": ticker, "interval": string(interval)}).
		Where(squirrel.GtOrEq{"time": start.UTC()}).
		Where(squirrel.LtOrEq{"time": end.UTC()}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return optional.None[*types.Series](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to build cache query", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return optional.None[*types.Series](), errors.Wrap(errors.ErrCodeQueryFailed, "cache query failed", err)
	}

	defer rows.Close()

	var bars []types.MarketData

	for rows.Next() {
		var bar types.MarketData
		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return optional.None[*types.Series](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan cached bar", err)
		}

		bar.Time = bar.Time.UTC()
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return optional.None[*types.Series](), errors.Wrap(errors.ErrCodeQueryFailed, "cache row iteration failed", err)
	}

	if len(bars) == 0 {
		return optional.None[*types.Series](), nil
	}

	c.log.Debug("cache hit",
		zap.String("ticker", ticker),
		zap.String("interval", string(interval)),
		zap.Int("bars", len(bars)),
	)

	return optional.Some(types.NewSeries(bars, time.UTC)), nil
}

// Store implements BarCache. Bars landing on already-cached timestamps are
// replaced so re-warming a window is idempotent.
func (c *DuckDBCache) Store(ctx context.Context, ticker string, interval types.Interval, bars []types.MarketData) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin cache transaction", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars (ticker, interval, time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to prepare cache insert", err)
	}

	defer stmt.Close()

	for _, bar := range bars {
		_, err := stmt.ExecContext(ctx, ticker, string(interval), bar.Time.UTC(), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
		if err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert cached bar", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit cache transaction", err)
	}

	c.log.Debug("cache store",
		zap.String("ticker", ticker),
		zap.String("interval", string(interval)),
		zap.Int("bars", len(bars)),
	)

	return nil
}

// Close implements BarCache.
func (c *DuckDBCache) Close() error {
	return c.db.Close()
}
