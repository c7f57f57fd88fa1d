// internal/repository/postgres/category_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"ezwallet-service/internal/domain/category"
	xerrors "ezwallet-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (type, color) VALUES ($1, $2) RETURNING created_at`,
		c.Type, c.Color,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByType(ctx context.Context, categoryType string) (*category.Category, error) {
	var c category.Category
	err := r.db.QueryRow(ctx,
		`SELECT type, color, created_at FROM categories WHERE type = $1`,
		categoryType,
	).Scan(&c.Type, &c.Color, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &c, nil
}

// List returns all categories, oldest first.
func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT type, color, created_at FROM categories ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var cats []category.Category
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.Type, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, oldType, newType, color string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE categories SET type = $2, color = $3 WHERE type = $1`,
		oldType, newType, color,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) DeleteByTypes(ctx context.Context, types []string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM categories WHERE type = ANY($1)`,
		pq.Array(types),
	)
	if err != nil {
		return fmt.Errorf("failed to delete categories: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func (r *CategoryRepository) CountByTypes(ctx context.Context, types []string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE type = ANY($1)`,
		pq.Array(types),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

// Oldest returns the earliest-created category.
func (r *CategoryRepository) Oldest(ctx context.Context) (*category.Category, error) {
	var c category.Category
	err := r.db.QueryRow(ctx,
		`SELECT type, color, created_at FROM categories ORDER BY created_at LIMIT 1`,
	).Scan(&c.Type, &c.Color, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find oldest category: %w", err)
	}
	return &c, nil
}

// OldestExcluding returns the earliest-created category outside the given
// type set.
func (r *CategoryRepository) OldestExcluding(ctx context.Context, types []string) (*category.Category, error) {
	var c category.Category
	err := r.db.QueryRow(ctx,
		`SELECT type, color, created_at FROM categories WHERE NOT (type = ANY($1)) ORDER BY created_at LIMIT 1`,
		pq.Array(types),
	).Scan(&c.Type, &c.Color, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find oldest category: %w", err)
	}
	return &c, nil
}
