package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Ping checks the database is reachable, with its own 5s timeout
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close shuts the pool down. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		log.Debug().Msg("[DATABASE] Pool is already closed or was never initialized")
		return nil
	}

	log.Info().Msg("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
	log.Info().Msg("[DATABASE] Connection pool closed")

	return nil
}

// PoolStats is a snapshot of pool metrics, reported by the health endpoint
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
	AcquireCount  int64 `json:"acquire_count"`
	// Average time spent waiting for a connection, in milliseconds
	AvgAcquireMs float64 `json:"avg_acquire_ms"`
}

// Stats returns a snapshot of the pool statistics
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:    raw.TotalConns(),
		IdleConns:     raw.IdleConns(),
		AcquiredConns: raw.AcquiredConns(),
		MaxConns:      raw.MaxConns(),
		AcquireCount:  raw.AcquireCount(),
		AvgAcquireMs:  avgMillis(raw.AcquireDuration(), raw.AcquireCount()),
	}, nil
}

func avgMillis(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total.Microseconds()) / float64(count) / 1000
}
