package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

// Storage owns the database pool and the tables built on it. Create it once
// at startup and Close it on shutdown.
type Storage struct {
	DB           *sql.DB
	Transactions sqlconfig.ITransactionTable
}

// NewStorage opens the Postgres pool and verifies it is reachable.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	return &Storage{
		DB:           db,
		Transactions: sqlconfig.NewTransactionsTable(db),
	}, nil
}

func (s *Storage) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
