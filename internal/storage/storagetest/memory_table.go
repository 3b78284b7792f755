// Package storagetest provides an in-memory transactions table for tests that
// need real ledger behaviour without Postgres.
package storagetest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

var _ sqlconfig.ITransactionTable = (*MemoryTable)(nil)

// Errors returned for values the Postgres column types cannot hold, worded
// like the server's own messages.
var (
	ErrValueTooLong    = errors.New("pq: value too long for type character varying(255)")
	ErrNumericOverflow = errors.New("pq: numeric field overflow")
)

var maxAmount = decimal.New(1, 8)

// MemoryTable mirrors the ordering, defaults, rounding and column limits of
// the Postgres transactions table.
type MemoryTable struct {
	mu     sync.Mutex
	nextID int64
	rows   []sqlconfig.Transaction

	// Now supplies created_at. Defaults to time.Now.
	Now func() time.Time
	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryTable() *MemoryTable {
	return &MemoryTable{Now: time.Now}
}

func (m *MemoryTable) Insert(_ context.Context, create *sqlconfig.TransactionCreate) (*sqlconfig.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, text := range []string{create.UserID, create.Title, create.Category} {
		if utf8.RuneCountInString(text) > 255 {
			return nil, ErrValueTooLong
		}
	}
	amount := create.Amount.Round(2)
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return nil, ErrNumericOverflow
	}

	m.nextID++
	now := m.Now().UTC()
	row := sqlconfig.Transaction{
		ID:        m.nextID,
		UserID:    create.UserID,
		Title:     create.Title,
		Amount:    amount,
		Category:  create.Category,
		CreatedAt: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
	m.rows = append(m.rows, row)
	return &row, nil
}

func (m *MemoryTable) ListByUser(_ context.Context, userID string) ([]*sqlconfig.Transaction, error) {
	return m.list(func(row sqlconfig.Transaction) bool { return row.UserID == userID })
}

func (m *MemoryTable) ListAll(_ context.Context) ([]*sqlconfig.Transaction, error) {
	return m.list(func(sqlconfig.Transaction) bool { return true })
}

func (m *MemoryTable) list(keep func(sqlconfig.Transaction) bool) ([]*sqlconfig.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	result := []*sqlconfig.Transaction{}
	for _, row := range m.rows {
		if keep(row) {
			row := row
			result = append(result, &row)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (m *MemoryTable) DeleteByID(_ context.Context, id int64, ownerID string) (*sqlconfig.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for i, row := range m.rows {
		if row.ID != id || (ownerID != "" && row.UserID != ownerID) {
			continue
		}
		m.rows = append(m.rows[:i], m.rows[i+1:]...)
		return &row, nil
	}
	return nil, nil
}

func (m *MemoryTable) SumWhere(_ context.Context, userID string, filter sqlconfig.AmountFilter) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return decimal.Zero, m.Err
	}

	total := decimal.Zero
	for _, row := range m.rows {
		if row.UserID != userID {
			continue
		}
		switch {
		case filter == sqlconfig.AmountPositive && !row.Amount.IsPositive():
			continue
		case filter == sqlconfig.AmountNegative && !row.Amount.IsNegative():
			continue
		}
		total = total.Add(row.Amount)
	}
	return total, nil
}
