package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/identity"
	"github.com/carson-networks/ledger-server/internal/service"
)

// DeleteTransactionInput is the Huma input for deleting a transaction. The id
// stays a string so a malformed id is answered by the handler rather than by
// schema validation.
type DeleteTransactionInput struct {
	ID string `path:"id" doc:"Transaction id"`
}

type DeleteTransactionResponse struct {
	Message     string      `json:"message" doc:"Confirmation message"`
	Transaction Transaction `json:"transaction" doc:"The removed transaction"`
}

// DeleteTransactionOutput is the Huma output for deleting a transaction.
type DeleteTransactionOutput struct {
	Body DeleteTransactionResponse
}

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, rawID string, ownerID string) (*service.Transaction, error)
}

// DeleteTransactionHandler handles DELETE /api/transactions/{id}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
}

// NewDeleteTransactionHandler creates a new DeleteTransactionHandler.
func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

// Register registers the delete transaction endpoint with the Huma API.
func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/api/transactions/{id}",
		Summary:     "Delete transaction",
		Description: "Permanently removes a transaction and returns it.",
		Tags:        tags,
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	// With verified identity other users' rows behave as missing.
	ownerID, _ := identity.UserID(ctx)

	tx, err := h.TransactionService.DeleteTransaction(ctx, input.ID, ownerID)
	if err != nil {
		return nil, toAPIError(ctx, err, msgNotFound, msgDeleteFailed)
	}

	return &DeleteTransactionOutput{Body: DeleteTransactionResponse{
		Message:     msgDeleted,
		Transaction: toTransaction(*tx),
	}}, nil
}
