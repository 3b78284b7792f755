package status

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carson-networks/ledger-server/internal/logging"
)

type Response struct {
	Status string `json:"status"`
}

// Handler answers liveness probes. It never touches the database.
type Handler struct{}

func NewHandler() Handler {
	return Handler{}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return errors.New("status: method not GET")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if req.Method == http.MethodHead {
		return nil
	}
	return json.NewEncoder(w).Encode(Response{Status: "ok"})
}
