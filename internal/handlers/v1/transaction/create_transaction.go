package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/identity"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// Amount accepts either a JSON number or a numeric string. null decodes to
// zero and is reported as a missing amount.
type Amount struct {
	decimal.Decimal
}

func (Amount) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: "Signed decimal amount, negative for expenses and positive for income",
		Examples:    []any{-12.5},
		Nullable:    true,
		AnyOf: []*huma.Schema{
			{Type: huma.TypeNumber, Nullable: true},
			{Type: huma.TypeString, Nullable: true, Pattern: `^-?[0-9]+(\.[0-9]+)?$`},
		},
	}
}

// CreateTransactionBody is the request body for creating a transaction. The
// fields are checked together by the service so a single response lists
// every missing one.
type CreateTransactionBody struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	UserID   string   `json:"user_id,omitempty" required:"false" doc:"Owner of the transaction"`
	Title    string   `json:"title,omitempty" required:"false" doc:"Short description"`
	Amount   Amount   `json:"amount" required:"false"`
	Category string   `json:"category,omitempty" required:"false" doc:"Free text category"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody `required:"false"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body Transaction
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, input service.NewTransaction) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /api/transactions.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/api/transactions",
		Summary:       "Create transaction",
		Description:   "Stores a transaction. A negative amount is an expense and a positive amount is income.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	body := input.Body
	if callerID, ok := identity.UserID(ctx); ok && body.UserID == "" {
		body.UserID = callerID
	}
	if err := requireOwner(ctx, body.UserID); err != nil {
		return nil, err
	}

	stopTimer := logging.GetLogData(ctx).AddTiming("createTransactionMs")
	tx, err := h.TransactionService.CreateTransaction(ctx, service.NewTransaction{
		UserID:   body.UserID,
		Title:    body.Title,
		Amount:   body.Amount.Decimal,
		Category: body.Category,
	})
	stopTimer()
	if err != nil {
		return nil, toAPIError(ctx, err, msgNotFound, msgCreateFailed)
	}

	logging.GetLogData(ctx).AddData("transactionID", tx.ID)
	return &CreateTransactionOutput{Body: toTransaction(*tx)}, nil
}
