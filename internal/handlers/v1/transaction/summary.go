package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

type SummaryInput struct {
	UserID string `path:"userId" doc:"Owner whose transactions are summarized"`
}

type Summary struct {
	Balance  string `json:"balance" example:"987.50" doc:"Sum of all amounts"`
	Income   string `json:"income" example:"1000.00" doc:"Sum of positive amounts"`
	Expenses string `json:"expenses" example:"-12.50" doc:"Sum of negative amounts"`
}

type SummaryOutput struct {
	Body Summary
}

type transactionSummarizer interface {
	Summarize(ctx context.Context, userID string) (*service.Summary, error)
}

// SummaryHandler handles GET /api/transactions/summary/{userId}.
type SummaryHandler struct {
	TransactionService transactionSummarizer
}

func NewSummaryHandler(svc transactionSummarizer) *SummaryHandler {
	return &SummaryHandler{TransactionService: svc}
}

func (h *SummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "summarize-transactions",
		Method:      http.MethodGet,
		Path:        "/api/transactions/summary/{userId}",
		Summary:     "Summarize a user's transactions",
		Description: "Returns balance, income and expenses. A user without transactions gets zeros.",
		Tags:        tags,
	}, h.handle)
}

func (h *SummaryHandler) handle(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	if err := requireOwner(ctx, input.UserID); err != nil {
		return nil, err
	}

	stopTimer := logging.GetLogData(ctx).AddTiming("summarizeMs")
	summary, err := h.TransactionService.Summarize(ctx, input.UserID)
	stopTimer()
	if err != nil {
		return nil, toAPIError(ctx, err, msgNotFound, msgSummaryFailed)
	}

	return &SummaryOutput{Body: Summary{
		Balance:  formatAmount(summary.Balance),
		Income:   formatAmount(summary.Income),
		Expenses: formatAmount(summary.Expenses),
	}}, nil
}
