package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a transaction in the service layer. A negative
// Amount is an expense and a positive one is income.
type Transaction struct {
	ID        int64
	UserID    string
	Title     string
	Amount    decimal.Decimal
	Category  string
	CreatedAt time.Time
}

// NewTransaction is the caller supplied part of a transaction. The sign of
// Amount is taken as given. Text fields hold at most 255 characters and the
// amount, once rounded to cents, must stay below MaxAmount in magnitude.
type NewTransaction struct {
	UserID   string          `json:"user_id" validate:"required,max=255"`
	Title    string          `json:"title" validate:"required,max=255"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Category string          `json:"category" validate:"required,max=255"`
}

// MaxAmount is the first magnitude a DECIMAL(10,2) amount column cannot hold.
var MaxAmount = decimal.New(1, 8)

// Summary aggregates a user's transactions. Balance is the sum of all
// amounts, Income of the positive ones and Expenses of the negative ones.
type Summary struct {
	Balance  decimal.Decimal
	Income   decimal.Decimal
	Expenses decimal.Decimal
}
