// internal/repository/postgres/group_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"ezwallet-service/internal/domain/group"
	xerrors "ezwallet-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroupRepository struct {
	db *pgxpool.Pool
}

func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts the group and its initial member set in one transaction.
func (r *GroupRepository) Create(ctx context.Context, g *group.Group) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO groups (name) VALUES ($1) RETURNING created_at`,
		g.Name,
	).Scan(&g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	for _, m := range g.Members {
		if _, err := tx.Exec(ctx,
			`INSERT INTO group_members (group_name, email, user_id) VALUES ($1, $2, $3)`,
			g.Name, m.Email, m.UserID,
		); err != nil {
			return fmt.Errorf("failed to add member %s: %w", m.Email, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *GroupRepository) FindByName(ctx context.Context, name string) (*group.Group, error) {
	var g group.Group
	err := r.db.QueryRow(ctx,
		`SELECT name, created_at FROM groups WHERE name = $1`,
		name,
	).Scan(&g.Name, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}

	members, err := r.members(ctx, g.Name)
	if err != nil {
		return nil, err
	}
	g.Members = members
	return &g, nil
}

// FindByMemberEmail returns the group the email belongs to, if any.
func (r *GroupRepository) FindByMemberEmail(ctx context.Context, email string) (*group.Group, error) {
	var name string
	err := r.db.QueryRow(ctx,
		`SELECT group_name FROM group_members WHERE email = $1`,
		email,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group by member: %w", err)
	}
	return r.FindByName(ctx, name)
}

func (r *GroupRepository) FindAll(ctx context.Context) ([]group.Group, error) {
	rows, err := r.db.Query(ctx, `SELECT name, created_at FROM groups ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []group.Group
	for rows.Next() {
		var g group.Group
		if err := rows.Scan(&g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		members, err := r.members(ctx, groups[i].Name)
		if err != nil {
			return nil, err
		}
		groups[i].Members = members
	}
	return groups, nil
}

// ReplaceMembers swaps the whole member set atomically.
func (r *GroupRepository) ReplaceMembers(ctx context.Context, name string, members []group.Member) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM group_members WHERE group_name = $1`, name); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	for _, m := range members {
		if _, err := tx.Exec(ctx,
			`INSERT INTO group_members (group_name, email, user_id) VALUES ($1, $2, $3)`,
			name, m.Email, m.UserID,
		); err != nil {
			return fmt.Errorf("failed to add member %s: %w", m.Email, err)
		}
	}

	return tx.Commit(ctx)
}

// Delete removes the group and its membership rows.
func (r *GroupRepository) Delete(ctx context.Context, name string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM group_members WHERE group_name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete members: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM groups WHERE name = $1`, name); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *GroupRepository) members(ctx context.Context, name string) ([]group.Member, error) {
	rows, err := r.db.Query(ctx,
		`SELECT email, user_id FROM group_members WHERE group_name = $1 ORDER BY email`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []group.Member
	for rows.Next() {
		var m group.Member
		if err := rows.Scan(&m.Email, &m.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
