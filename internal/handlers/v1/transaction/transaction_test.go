package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/identity"
	"github.com/carson-networks/ledger-server/internal/service"
)

type mockTransactionService struct {
	mock.Mock
}

func (m *mockTransactionService) CreateTransaction(ctx context.Context, input service.NewTransaction) (*service.Transaction, error) {
	args := m.Called(ctx, input)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) ListUserTransactions(ctx context.Context, userID string) ([]service.Transaction, error) {
	args := m.Called(ctx, userID)
	txs, _ := args.Get(0).([]service.Transaction)
	return txs, args.Error(1)
}

func (m *mockTransactionService) ListTransactions(ctx context.Context) ([]service.Transaction, error) {
	args := m.Called(ctx)
	txs, _ := args.Get(0).([]service.Transaction)
	return txs, args.Error(1)
}

func (m *mockTransactionService) DeleteTransaction(ctx context.Context, rawID string, ownerID string) (*service.Transaction, error) {
	args := m.Called(ctx, rawID, ownerID)
	tx, _ := args.Get(0).(*service.Transaction)
	return tx, args.Error(1)
}

func (m *mockTransactionService) Summarize(ctx context.Context, userID string) (*service.Summary, error) {
	args := m.Called(ctx, userID)
	summary, _ := args.Get(0).(*service.Summary)
	return summary, args.Error(1)
}

// newTestAPI registers every transaction handler against a humatest API.
func newTestAPI(t *testing.T, svc *mockTransactionService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateTransactionHandler(svc).Register(api)
	NewListUserTransactionsHandler(svc).Register(api)
	NewListTransactionsHandler(svc).Register(api)
	NewDeleteTransactionHandler(svc).Register(api)
	NewSummaryHandler(svc).Register(api)
	return api
}

// newAuthenticatedTestAPI behaves like newTestAPI for a caller verified as userID.
func newAuthenticatedTestAPI(t *testing.T, svc *mockTransactionService, userID string) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, identity.WithUserID(ctx.Context(), userID)))
	})
	NewCreateTransactionHandler(svc).Register(api)
	NewListUserTransactionsHandler(svc).Register(api)
	NewListTransactionsHandler(svc).Register(api)
	NewDeleteTransactionHandler(svc).Register(api)
	NewSummaryHandler(svc).Register(api)
	return api
}

func decodeError(t *testing.T, body []byte) apierror.Error {
	t.Helper()
	var apiErr apierror.Error
	require.NoError(t, json.Unmarshal(body, &apiErr))
	return apiErr
}

var lunch = service.Transaction{
	ID:        1,
	UserID:    "u1",
	Title:     "Lunch",
	Amount:    decimal.RequireFromString("-12.5"),
	Category:  "Food",
	CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
}

// -- create --

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(in service.NewTransaction) bool {
		return in.UserID == "u1" &&
			in.Title == "Lunch" &&
			in.Amount.Equal(decimal.RequireFromString("-12.50")) &&
			in.Category == "Food"
	})).Return(&lunch, nil)

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"user_id":  "u1",
		"title":    "Lunch",
		"amount":   "-12.50",
		"category": "Food",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, Transaction{
		ID:        1,
		UserID:    "u1",
		Title:     "Lunch",
		Amount:    "-12.50",
		Category:  "Food",
		CreatedAt: "2025-06-01",
	}, body)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_NumericAmount(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(in service.NewTransaction) bool {
		return in.Amount.Equal(decimal.RequireFromString("1500.25"))
	})).Return(&lunch, nil)

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"user_id":  "u1",
		"title":    "Salary",
		"amount":   1500.25,
		"category": "Income",
		"extra":    "ignored",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_MissingFields(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(nil, &service.ValidationError{Fields: []string{"title", "amount"}})

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"user_id":  "u1",
		"category": "Food",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, msgMissingFields, apiErr.Message)
	assert.Equal(t, []string{"title is required", "amount is required"}, apiErr.Details)
}

func TestHTTP_CreateTransaction_NullAmountIsMissing(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(in service.NewTransaction) bool {
		return in.Amount.IsZero()
	})).Return(nil, &service.ValidationError{Fields: []string{"amount"}})

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"user_id":  "u1",
		"title":    "Lunch",
		"amount":   nil,
		"category": "Food",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, msgMissingFields, apiErr.Message)
	assert.Equal(t, []string{"amount is required"}, apiErr.Details)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_InvalidFields(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(nil, &service.ValidationError{Invalid: []string{"title", "amount"}})

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"user_id":  "u1",
		"title":    strings.Repeat("t", 300),
		"amount":   123456789.99,
		"category": "Food",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, msgInvalidFields, apiErr.Message)
	assert.Equal(t, []string{
		"title must be at most 255 characters",
		"amount must be less than 100000000 in magnitude",
	}, apiErr.Details)
}

func TestHTTP_CreateTransaction_MissingAndInvalidFields(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(nil, &service.ValidationError{Fields: []string{"category"}, Invalid: []string{"title"}})

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"user_id": "u1",
		"title":   strings.Repeat("t", 300),
		"amount":  1,
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, msgMissingFields, apiErr.Message)
	assert.Equal(t, []string{"category is required", "title must be at most 255 characters"}, apiErr.Details)
}

func TestHTTP_CreateTransaction_WrongTypeIsBadRequest(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"user_id":  "u1",
		"title":    42,
		"amount":   "lots",
		"category": "Food",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NotEmpty(t, decodeError(t, resp.Body.Bytes()).Details)
	mockSvc.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
}

func TestHTTP_CreateTransaction_ServiceError(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything).
		Return(nil, &service.StoreError{Op: "Transactions.Insert", Err: errors.New("database unavailable")})

	resp := newTestAPI(t, mockSvc).Post("/api/transactions", map[string]any{
		"user_id":  "u1",
		"title":    "Lunch",
		"amount":   -12.5,
		"category": "Food",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	apiErr := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, msgCreateFailed, apiErr.Message)
	assert.NotContains(t, resp.Body.String(), "database unavailable")
}

func TestHTTP_CreateTransaction_VerifiedIdentity(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(in service.NewTransaction) bool {
		return in.UserID == "u1"
	})).Return(&lunch, nil)
	api := newAuthenticatedTestAPI(t, mockSvc, "u1")

	resp := api.Post("/api/transactions", map[string]any{"title": "Lunch", "amount": -12.5, "category": "Food"})
	assert.Equal(t, http.StatusCreated, resp.Code, "user_id defaults to the caller")

	resp = api.Post("/api/transactions", map[string]any{"user_id": "u2", "title": "Lunch", "amount": -12.5, "category": "Food"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockSvc.AssertNumberOfCalls(t, "CreateTransaction", 1)
}

// -- list --

func TestHTTP_ListUserTransactions_Success(t *testing.T) {
	salary := lunch
	salary.ID = 2
	salary.Title = "Salary"
	salary.Amount = decimal.NewFromInt(1000)

	mockSvc := new(mockTransactionService)
	mockSvc.On("ListUserTransactions", mock.Anything, "u1").
		Return([]service.Transaction{salary, lunch}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions/u1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body []Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, int64(2), body[0].ID)
	assert.Equal(t, "1000.00", body[0].Amount)
	assert.Equal(t, int64(1), body[1].ID)
}

func TestHTTP_ListUserTransactions_EmptyIsNotFound(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("ListUserTransactions", mock.Anything, "ghost").Return(nil, service.ErrNotFound)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions/ghost")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, msgUserNotFound, decodeError(t, resp.Body.Bytes()).Message)
}

func TestHTTP_ListUserTransactions_OtherUserForbidden(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newAuthenticatedTestAPI(t, mockSvc, "u1").Get("/api/transactions/u2")

	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockSvc.AssertNotCalled(t, "ListUserTransactions", mock.Anything, mock.Anything)
}

func TestHTTP_ListTransactions_EmptyArray(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("ListTransactions", mock.Anything).Return([]service.Transaction{}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestHTTP_ListTransactions_ServiceError(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("ListTransactions", mock.Anything).
		Return(nil, &service.StoreError{Op: "Transactions.ListAll", Err: errors.New("timeout")})

	resp := newTestAPI(t, mockSvc).Get("/api/transactions")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, msgListFailed, decodeError(t, resp.Body.Bytes()).Message)
}

func TestHTTP_ListTransactions_ForbiddenWithIdentity(t *testing.T) {
	mockSvc := new(mockTransactionService)

	resp := newAuthenticatedTestAPI(t, mockSvc, "u1").Get("/api/transactions")

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

// -- delete --

func TestHTTP_DeleteTransaction_Success(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("DeleteTransaction", mock.Anything, "1", "").Return(&lunch, nil)

	resp := newTestAPI(t, mockSvc).Delete("/api/transactions/1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body DeleteTransactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, msgDeleted, body.Message)
	assert.Equal(t, "Lunch", body.Transaction.Title)
}

func TestHTTP_DeleteTransaction_InvalidID(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("DeleteTransaction", mock.Anything, "abc", "").Return(nil, service.ErrInvalidID)

	resp := newTestAPI(t, mockSvc).Delete("/api/transactions/abc")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, msgInvalidID, decodeError(t, resp.Body.Bytes()).Message)
}

func TestHTTP_DeleteTransaction_NotFound(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("DeleteTransaction", mock.Anything, "9999", "").Return(nil, service.ErrNotFound)

	resp := newTestAPI(t, mockSvc).Delete("/api/transactions/9999")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"message":"Transaction non trouvée"}`, resp.Body.String())
}

func TestHTTP_DeleteTransaction_ScopedToCaller(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("DeleteTransaction", mock.Anything, "1", "u2").Return(nil, service.ErrNotFound)

	resp := newAuthenticatedTestAPI(t, mockSvc, "u2").Delete("/api/transactions/1")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockSvc.AssertExpectations(t)
}

// -- summary --

func TestHTTP_Summary_Success(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Summarize", mock.Anything, "u1").Return(&service.Summary{
		Balance:  decimal.RequireFromString("987.5"),
		Income:   decimal.NewFromInt(1000),
		Expenses: decimal.RequireFromString("-12.5"),
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions/summary/u1")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, Summary{Balance: "987.50", Income: "1000.00", Expenses: "-12.50"}, body)
}

func TestHTTP_Summary_ZeroForUnknownUser(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Summarize", mock.Anything, "ghost").Return(&service.Summary{}, nil)

	resp := newTestAPI(t, mockSvc).Get("/api/transactions/summary/ghost")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, Summary{Balance: "0.00", Income: "0.00", Expenses: "0.00"}, body)
}

func TestHTTP_Summary_ServiceError(t *testing.T) {
	mockSvc := new(mockTransactionService)
	mockSvc.On("Summarize", mock.Anything, "u1").
		Return(nil, &service.StoreError{Op: "Transactions.SumWhere.balance", Err: errors.New("timeout")})

	resp := newTestAPI(t, mockSvc).Get("/api/transactions/summary/u1")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, msgSummaryFailed, decodeError(t, resp.Body.Bytes()).Message)
}
