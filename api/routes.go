package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/status"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/identity"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/ratelimit"
	"github.com/carson-networks/ledger-server/internal/service"
)

const healthPath = "/api/health"

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service

	// Limiter and Verifier are optional.
	Limiter  *ratelimit.Limiter
	Verifier *identity.Verifier

	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// NewHandler builds the full middleware chain and routes.
func (r *Rest) NewHandler() http.Handler {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("Ledger API", "1.0.0")
	config.Info.Description = "Personal finance transactions and summaries."
	// Response bodies keep the plain shape clients already parse, without $schema links.
	config.CreateHooks = nil
	humaAPI := humago.New(mux, config)
	humaAPI.UseMiddleware(logging.HumaMiddleware(r.Logger))

	transactionService := r.Service.Transaction
	transaction.NewCreateTransactionHandler(transactionService).Register(humaAPI)
	transaction.NewListTransactionsHandler(transactionService).Register(humaAPI)
	transaction.NewListUserTransactionsHandler(transactionService).Register(humaAPI)
	transaction.NewDeleteTransactionHandler(transactionService).Register(humaAPI)
	transaction.NewSummaryHandler(transactionService).Register(humaAPI)

	statusHandler := status.NewHandler()
	mux.HandleFunc(healthPath, logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	var handler http.Handler = mux
	if r.Verifier != nil {
		handler = identity.Middleware(r.Verifier, "/api/transactions", r.Logger)(handler)
	}
	if r.Limiter != nil {
		handler = ratelimit.Middleware(r.Limiter, r.Logger, healthPath)(handler)
	}

	origins := r.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(handler)

	handler = middleware.Recoverer(handler)
	handler = middleware.RealIP(handler)
	handler = middleware.RequestID(handler)

	return handler
}

// Serve listens until ctx is cancelled, then drains in-flight requests for
// up to ShutdownTimeout.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.NewHandler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	r.Logger.Info("HttpServer.Serve.shutting down")
	timeout := r.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
