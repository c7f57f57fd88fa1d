// internal/repository/postgres/transaction_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"ezwallet-service/internal/domain/transaction"
	xerrors "ezwallet-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO transactions (id, username, type, amount) VALUES ($1, $2, $3, $4) RETURNING date`,
		t.ID, t.Username, t.Type, t.Amount,
	).Scan(&t.Date)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := r.db.QueryRow(ctx,
		`SELECT id, username, type, amount, date FROM transactions WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Username, &t.Type, &t.Amount, &t.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return &t, nil
}

func (r *TransactionRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE id = ANY($1)`,
		pq.Array(ids),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *TransactionRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM transactions WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}

// DeleteByUsername removes all of a user's transactions and reports how
// many were dropped.
func (r *TransactionRepository) DeleteByUsername(ctx context.Context, username string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE username = $1`, username)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Retype moves transactions from one category type to another.
func (r *TransactionRepository) Retype(ctx context.Context, oldType, newType string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE transactions SET type = $2 WHERE type = $1`,
		oldType, newType,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to retype transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RetypeMany moves transactions from any of the given types to another.
func (r *TransactionRepository) RetypeMany(ctx context.Context, types []string, newType string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE transactions SET type = $2 WHERE type = ANY($1)`,
		pq.Array(types), newType,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to retype transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List returns transactions joined with their category color, newest
// first, narrowed by the filter.
func (r *TransactionRepository) List(ctx context.Context, f transaction.Filter) ([]transaction.Info, error) {
	query := `
		SELECT t.id, t.username, t.amount, t.type, c.color, t.date
		FROM transactions t
		JOIN categories c ON c.type = t.type
	`

	var (
		where []string
		args  []interface{}
	)

	if f.Username != "" {
		args = append(args, f.Username)
		where = append(where, fmt.Sprintf("t.username = $%d", len(args)))
	}
	if len(f.Usernames) > 0 {
		args = append(args, pq.Array(f.Usernames))
		where = append(where, fmt.Sprintf("t.username = ANY($%d)", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("t.type = $%d", len(args)))
	}
	if f.MinDate != nil {
		args = append(args, *f.MinDate)
		where = append(where, fmt.Sprintf("t.date >= $%d", len(args)))
	}
	if f.MaxDate != nil {
		args = append(args, *f.MaxDate)
		where = append(where, fmt.Sprintf("t.date <= $%d", len(args)))
	}
	if f.MinAmount != nil {
		args = append(args, *f.MinAmount)
		where = append(where, fmt.Sprintf("t.amount >= $%d", len(args)))
	}
	if f.MaxAmount != nil {
		args = append(args, *f.MaxAmount)
		where = append(where, fmt.Sprintf("t.amount <= $%d", len(args)))
	}

	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY t.date DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var infos []transaction.Info
	for rows.Next() {
		var t transaction.Info
		if err := rows.Scan(&t.ID, &t.Username, &t.Amount, &t.Type, &t.Color, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		infos = append(infos, t)
	}
	return infos, rows.Err()
}
