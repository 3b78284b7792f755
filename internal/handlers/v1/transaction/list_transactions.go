package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/identity"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// ListTransactionsOutput is the Huma output for both list endpoints.
type ListTransactionsOutput struct {
	Body []Transaction
}

// ListUserTransactionsInput is the Huma input for listing one user's
// transactions.
type ListUserTransactionsInput struct {
	UserID string `path:"userId" doc:"Owner whose transactions are listed"`
}

type userTransactionLister interface {
	ListUserTransactions(ctx context.Context, userID string) ([]service.Transaction, error)
}

// ListUserTransactionsHandler handles GET /api/transactions/{userId}.
type ListUserTransactionsHandler struct {
	TransactionService userTransactionLister
}

// NewListUserTransactionsHandler creates a new ListUserTransactionsHandler.
func NewListUserTransactionsHandler(svc userTransactionLister) *ListUserTransactionsHandler {
	return &ListUserTransactionsHandler{TransactionService: svc}
}

// Register registers the list user transactions endpoint with the Huma API.
func (h *ListUserTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-user-transactions",
		Method:      http.MethodGet,
		Path:        "/api/transactions/{userId}",
		Summary:     "List a user's transactions",
		Description: "Returns the user's transactions, newest first. A user without transactions is answered with 404.",
		Tags:        tags,
	}, h.handle)
}

func (h *ListUserTransactionsHandler) handle(ctx context.Context, input *ListUserTransactionsInput) (*ListTransactionsOutput, error) {
	if err := requireOwner(ctx, input.UserID); err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	stopTimer := logData.AddTiming("listTransactionsMs")
	txs, err := h.TransactionService.ListUserTransactions(ctx, input.UserID)
	stopTimer()
	if err != nil {
		return nil, toAPIError(ctx, err, msgUserNotFound, msgListFailed)
	}

	logData.AddData("transactionCount", len(txs))
	return &ListTransactionsOutput{Body: toTransactions(txs)}, nil
}

type transactionLister interface {
	ListTransactions(ctx context.Context) ([]service.Transaction, error)
}

// ListTransactionsHandler handles GET /api/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/api/transactions",
		Summary:     "List all transactions",
		Description: "Returns every stored transaction, newest first. Unavailable when requests carry verified identity.",
		Tags:        tags,
	}, h.handle)
}

func (h *ListTransactionsHandler) handle(ctx context.Context, _ *struct{}) (*ListTransactionsOutput, error) {
	if _, ok := identity.UserID(ctx); ok {
		return nil, huma.NewError(http.StatusForbidden, msgForbidden)
	}

	logData := logging.GetLogData(ctx)
	stopTimer := logData.AddTiming("listTransactionsMs")
	txs, err := h.TransactionService.ListTransactions(ctx)
	stopTimer()
	if err != nil {
		return nil, toAPIError(ctx, err, msgNotFound, msgListFailed)
	}

	logData.AddData("transactionCount", len(txs))
	return &ListTransactionsOutput{Body: toTransactions(txs)}, nil
}
