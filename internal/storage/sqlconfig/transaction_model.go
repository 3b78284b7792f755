package sqlconfig

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionsTableName = "transactions"

	ColumnID        = "id"
	ColumnUserID    = "user_id"
	ColumnTitle     = "title"
	ColumnAmount    = "amount"
	ColumnCategory  = "category"
	ColumnCreatedAt = "created_at"
)

var transactionColumns = []any{
	ColumnID, ColumnUserID, ColumnTitle, ColumnAmount, ColumnCategory, ColumnCreatedAt,
}

// Transaction represents a row of the transactions table.
type Transaction struct {
	ID        int64           `db:"id"`
	UserID    string          `db:"user_id"`
	Title     string          `db:"title"`
	Amount    decimal.Decimal `db:"amount"`
	Category  string          `db:"category"`
	CreatedAt time.Time       `db:"created_at"`
}

// TransactionCreate is the input for creating a new transaction. The id and
// created_at columns are always assigned by the database.
type TransactionCreate struct {
	UserID   string
	Title    string
	Amount   decimal.Decimal
	Category string
}

// AmountFilter restricts which rows contribute to a sum.
type AmountFilter int

const (
	AmountAny AmountFilter = iota
	AmountPositive
	AmountNegative
)

func (f AmountFilter) String() string {
	switch f {
	case AmountPositive:
		return "positive"
	case AmountNegative:
		return "negative"
	default:
		return "any"
	}
}

// ITransactionTable defines the interface for transaction storage operations.
// Every method issues exactly one SQL statement.
type ITransactionTable interface {
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*Transaction, error)
	ListAll(ctx context.Context) ([]*Transaction, error)
	// DeleteByID removes the row and returns it, or returns nil when no row
	// matched. A non-empty ownerID also requires the row to belong to it.
	DeleteByID(ctx context.Context, id int64, ownerID string) (*Transaction, error)
	// SumWhere returns the sum of amount over the user's rows that pass
	// filter, or zero when there are none.
	SumWhere(ctx context.Context, userID string, filter AmountFilter) (decimal.Decimal, error)
}
