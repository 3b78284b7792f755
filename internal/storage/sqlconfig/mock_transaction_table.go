package sqlconfig

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockITransactionTable is a testify mock of ITransactionTable.
type MockITransactionTable struct {
	mock.Mock
}

// NewMockITransactionTable creates a mock whose expectations are asserted
// when the test finishes.
func NewMockITransactionTable(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockITransactionTable {
	m := &MockITransactionTable{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockITransactionTable) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	args := m.Called(ctx, create)
	row, _ := args.Get(0).(*Transaction)
	return row, args.Error(1)
}

func (m *MockITransactionTable) ListByUser(ctx context.Context, userID string) ([]*Transaction, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]*Transaction)
	return rows, args.Error(1)
}

func (m *MockITransactionTable) ListAll(ctx context.Context) ([]*Transaction, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]*Transaction)
	return rows, args.Error(1)
}

func (m *MockITransactionTable) DeleteByID(ctx context.Context, id int64, ownerID string) (*Transaction, error) {
	args := m.Called(ctx, id, ownerID)
	row, _ := args.Get(0).(*Transaction)
	return row, args.Error(1)
}

func (m *MockITransactionTable) SumWhere(ctx context.Context, userID string, filter AmountFilter) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, filter)
	total, _ := args.Get(0).(decimal.Decimal)
	return total, args.Error(1)
}
