package transaction

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	_ "github.com/carson-networks/ledger-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/ledger-server/internal/identity"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

const (
	msgMissingFields    = "Tous les champs sont réquis"
	msgInvalidFields    = "Champs invalides"
	msgInvalidID        = "ID de transaction invalide"
	msgUserNotFound     = "Aucune transaction trouvée pour cet utilisateur"
	msgNotFound         = "Transaction non trouvée"
	msgDeleted          = "Transaction supprimée avec succès"
	msgForbidden        = "Accès refusé"
	msgCreateFailed     = "Erreur lors de la création de la transaction"
	msgListFailed       = "Erreur lors de la récupération des transactions"
	msgDeleteFailed     = "Erreur lors de la suppression de la transaction"
	msgSummaryFailed    = "Erreur lors de la récupération du résumé"
	dateLayout          = "2006-01-02"
	amountFractionDigit = 2
)

var tags = []string{"Transactions"}

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID        int64  `json:"id" doc:"Server assigned transaction id"`
	UserID    string `json:"user_id" doc:"Owner of the transaction"`
	Title     string `json:"title" doc:"Short description"`
	Amount    string `json:"amount" example:"-12.50" doc:"Signed decimal amount, negative for expenses"`
	Category  string `json:"category" doc:"Free text category"`
	CreatedAt string `json:"created_at" format:"date" doc:"Creation date, YYYY-MM-DD"`
}

func toTransaction(tx service.Transaction) Transaction {
	return Transaction{
		ID:        tx.ID,
		UserID:    tx.UserID,
		Title:     tx.Title,
		Amount:    formatAmount(tx.Amount),
		Category:  tx.Category,
		CreatedAt: tx.CreatedAt.Format(dateLayout),
	}
}

func toTransactions(txs []service.Transaction) []Transaction {
	converted := make([]Transaction, len(txs))
	for i, tx := range txs {
		converted[i] = toTransaction(tx)
	}
	return converted
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(amountFractionDigit)
}

// requireOwner rejects a request naming another user than the verified one.
// Without verified identity every user id is trusted.
func requireOwner(ctx context.Context, userID string) error {
	callerID, ok := identity.UserID(ctx)
	if ok && callerID != userID {
		return huma.NewError(http.StatusForbidden, msgForbidden)
	}
	return nil
}

// toAPIError translates service errors into responses. Unexpected errors are
// recorded on the request log and answered with failureMessage.
func toAPIError(ctx context.Context, err error, notFoundMessage, failureMessage string) error {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		details := make([]error, 0, len(validationErr.Fields)+len(validationErr.Invalid))
		for _, field := range validationErr.Fields {
			details = append(details, errors.New(field+" is required"))
		}
		for _, field := range validationErr.Invalid {
			details = append(details, invalidFieldError(field))
		}
		message := msgMissingFields
		if len(validationErr.Fields) == 0 {
			message = msgInvalidFields
		}
		return huma.NewError(http.StatusBadRequest, message, details...)
	case errors.Is(err, service.ErrInvalidID):
		return huma.NewError(http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, service.ErrNotFound):
		return huma.NewError(http.StatusNotFound, notFoundMessage)
	default:
		logging.GetLogData(ctx).SetError(err)
		return huma.NewError(http.StatusInternalServerError, failureMessage)
	}
}

func invalidFieldError(field string) error {
	if field == "amount" {
		return fmt.Errorf("amount must be less than %s in magnitude", service.MaxAmount)
	}
	return fmt.Errorf("%s must be at most 255 characters", field)
}
