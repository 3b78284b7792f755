package service

import (
	"context"
	"strconv"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

// TransactionService handles transaction business logic.
type TransactionService struct {
	storage  *storage.Storage
	validate *inputValidator
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store *storage.Storage) *TransactionService {
	return &TransactionService{
		storage:  store,
		validate: newValidator(),
	}
}

// CreateTransaction validates the input and stores it, returning the stored
// row with its assigned id and creation date.
func (s *TransactionService) CreateTransaction(ctx context.Context, input NewTransaction) (*Transaction, error) {
	input, err := s.validate.newTransaction(input)
	if err != nil {
		return nil, err
	}

	row, err := s.storage.Transactions.Insert(ctx, &sqlconfig.TransactionCreate{
		UserID:   input.UserID,
		Title:    input.Title,
		Amount:   input.Amount,
		Category: input.Category,
	})
	if err != nil {
		return nil, &StoreError{Op: "Transactions.Insert", Err: err}
	}

	return fromRow(row), nil
}

// ListUserTransactions returns the user's transactions, newest first. A user
// without transactions yields ErrNotFound.
func (s *TransactionService) ListUserTransactions(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := s.storage.Transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, &StoreError{Op: "Transactions.ListByUser", Err: err}
	}

	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	return fromRows(rows), nil
}

// ListTransactions returns every transaction, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := s.storage.Transactions.ListAll(ctx)
	if err != nil {
		return nil, &StoreError{Op: "Transactions.ListAll", Err: err}
	}

	return fromRows(rows), nil
}

// DeleteTransaction removes the transaction identified by rawID and returns
// it. When ownerID is non-empty only that user's transaction can match.
func (s *TransactionService) DeleteTransaction(ctx context.Context, rawID string, ownerID string) (*Transaction, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, ErrInvalidID
	}

	row, err := s.storage.Transactions.DeleteByID(ctx, id, ownerID)
	if err != nil {
		return nil, &StoreError{Op: "Transactions.DeleteByID", Err: err}
	}

	if row == nil {
		return nil, ErrNotFound
	}

	return fromRow(row), nil
}

// Summarize computes balance, income and expenses for the user. Each figure
// is its own query and defaults to zero.
func (s *TransactionService) Summarize(ctx context.Context, userID string) (*Summary, error) {
	balance, err := s.storage.Transactions.SumWhere(ctx, userID, sqlconfig.AmountAny)
	if err != nil {
		return nil, &StoreError{Op: "Transactions.SumWhere.balance", Err: err}
	}

	income, err := s.storage.Transactions.SumWhere(ctx, userID, sqlconfig.AmountPositive)
	if err != nil {
		return nil, &StoreError{Op: "Transactions.SumWhere.income", Err: err}
	}

	expenses, err := s.storage.Transactions.SumWhere(ctx, userID, sqlconfig.AmountNegative)
	if err != nil {
		return nil, &StoreError{Op: "Transactions.SumWhere.expenses", Err: err}
	}

	return &Summary{
		Balance:  balance,
		Income:   income,
		Expenses: expenses,
	}, nil
}

func fromRow(row *sqlconfig.Transaction) *Transaction {
	return &Transaction{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Amount:    row.Amount,
		Category:  row.Category,
		CreatedAt: row.CreatedAt,
	}
}

func fromRows(rows []*sqlconfig.Transaction) []Transaction {
	converted := make([]Transaction, len(rows))
	for i, row := range rows {
		converted[i] = *fromRow(row)
	}
	return converted
}
