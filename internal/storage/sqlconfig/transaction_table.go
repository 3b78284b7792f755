package sqlconfig

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ ITransactionTable = (*TransactionsTable)(nil)

type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(db *sql.DB) *TransactionsTable {
	return &TransactionsTable{exec: bob.NewDB(db)}
}

// Insert stores a new transaction and returns the row as written, including
// the generated id and created_at.
func (t *TransactionsTable) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	query := psql.Insert(
		im.Into(TransactionsTableName, ColumnUserID, ColumnTitle, ColumnAmount, ColumnCategory),
		im.Values(
			psql.Arg(create.UserID),
			psql.Arg(create.Title),
			psql.Arg(create.Amount),
			psql.Arg(create.Category),
		),
		im.Returning(transactionColumns...),
	)

	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns the user's transactions, newest first.
func (t *TransactionsTable) ListByUser(ctx context.Context, userID string) ([]*Transaction, error) {
	return t.list(ctx, sm.Where(psql.Quote(ColumnUserID).EQ(psql.Arg(userID))))
}

// ListAll returns every transaction, newest first.
func (t *TransactionsTable) ListAll(ctx context.Context) ([]*Transaction, error) {
	return t.list(ctx)
}

func (t *TransactionsTable) list(ctx context.Context, queryMods ...bob.Mod[*dialect.SelectQuery]) ([]*Transaction, error) {
	queryMods = append([]bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(TransactionsTableName),
	}, queryMods...)
	// created_at is a DATE, so rows from the same day fall back to id.
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote(ColumnCreatedAt)).Desc(),
		sm.OrderBy(psql.Quote(ColumnID)).Desc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}

	result := make([]*Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

func (t *TransactionsTable) DeleteByID(ctx context.Context, id int64, ownerID string) (*Transaction, error) {
	where := psql.Quote(ColumnID).EQ(psql.Arg(id))
	if ownerID != "" {
		where = where.And(psql.Quote(ColumnUserID).EQ(psql.Arg(ownerID)))
	}

	query := psql.Delete(
		dm.From(TransactionsTableName),
		dm.Where(where),
		dm.Returning(transactionColumns...),
	)

	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[Transaction]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (t *TransactionsTable) SumWhere(ctx context.Context, userID string, filter AmountFilter) (decimal.Decimal, error) {
	where := psql.Quote(ColumnUserID).EQ(psql.Arg(userID))
	switch filter {
	case AmountPositive:
		where = where.And(psql.Quote(ColumnAmount).GT(psql.Arg(0)))
	case AmountNegative:
		where = where.And(psql.Quote(ColumnAmount).LT(psql.Arg(0)))
	}

	query := psql.Select(
		sm.Columns(psql.Raw("COALESCE(SUM(amount), 0)")),
		sm.From(TransactionsTableName),
		sm.Where(where),
	)

	return bob.One(ctx, t.exec, query, scan.SingleColumnMapper[decimal.Decimal])
}
