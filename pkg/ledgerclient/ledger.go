package ledgerclient

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Ledger holds one user's transactions and summary as last loaded from the
// API. It is safe for concurrent use.
type Ledger struct {
	client *Client
	userID string

	mu           sync.RWMutex
	transactions []Transaction
	summary      Summary
	loading      bool
}

func NewLedger(client *Client, userID string) *Ledger {
	return &Ledger{client: client, userID: userID}
}

func (l *Ledger) Transactions() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Transaction(nil), l.transactions...)
}

func (l *Ledger) Summary() Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.summary
}

func (l *Ledger) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// LoadData fetches the transaction list and the summary concurrently. A user
// without transactions loads as an empty list. On error the previous state is
// kept.
func (l *Ledger) LoadData(ctx context.Context) error {
	if l.userID == "" {
		return nil
	}

	l.setLoading(true)
	defer l.setLoading(false)

	var (
		transactions []Transaction
		summary      *Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := l.client.ListUserTransactions(gctx, l.userID)
		if IsNotFound(err) {
			transactions = []Transaction{}
			return nil
		}
		transactions = txs
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = l.client.Summary(gctx, l.userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	l.mu.Lock()
	l.transactions = transactions
	l.summary = *summary
	l.mu.Unlock()
	return nil
}

// AddTransaction creates a transaction for the ledger's user and reloads.
func (l *Ledger) AddTransaction(ctx context.Context, input NewTransaction) error {
	input.UserID = l.userID
	if _, err := l.client.CreateTransaction(ctx, input); err != nil {
		return err
	}
	return l.LoadData(ctx)
}

// DeleteTransaction removes a transaction and reloads.
func (l *Ledger) DeleteTransaction(ctx context.Context, id int64) error {
	if _, err := l.client.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	return l.LoadData(ctx)
}

func (l *Ledger) setLoading(loading bool) {
	l.mu.Lock()
	l.loading = loading
	l.mu.Unlock()
}
