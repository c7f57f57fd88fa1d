// internal/service/transaction/service.go
package transaction

import (
	"context"
	"errors"
	"fmt"

	"ezwallet-service/internal/domain/category"
	"ezwallet-service/internal/domain/transaction"
	"ezwallet-service/internal/domain/user"
	xerrors "ezwallet-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

var (
	ErrCategoryNotFound  = xerrors.BadRequest("Category not found")
	ErrUsernameMismatch  = xerrors.BadRequest("usernames mismatch")
	ErrUserNotFound      = xerrors.BadRequest("user not found")
	ErrRouteUserNotFound = xerrors.BadRequest("User not found")
	ErrNotFound          = xerrors.BadRequest("transaction not found")
	ErrOwnershipMismatch = xerrors.BadRequest("Username mismatch")
	ErrSomeNotFound      = xerrors.BadRequest("some transactions are not found")
)

type TransactionRepo interface {
	Create(ctx context.Context, t *transaction.Transaction) error
	FindByID(ctx context.Context, id string) (*transaction.Transaction, error)
	DeleteByID(ctx context.Context, id string) error
	CountByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	List(ctx context.Context, f transaction.Filter) ([]transaction.Info, error)
}

type UserRepo interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindUsernamesByEmails(ctx context.Context, emails []string) ([]string, error)
}

type CategoryRepo interface {
	FindByType(ctx context.Context, categoryType string) (*category.Category, error)
}

type Service struct {
	transactions TransactionRepo
	users        UserRepo
	categories   CategoryRepo
	logger       *zap.Logger
}

func NewService(transactions TransactionRepo, users UserRepo, categories CategoryRepo, logger *zap.Logger) *Service {
	return &Service{
		transactions: transactions,
		users:        users,
		categories:   categories,
		logger:       logger,
	}
}

// Create records a new transaction for the user named in the route.
func (s *Service) Create(ctx context.Context, routeUsername string, req *transaction.CreateRequest) (*transaction.Created, error) {
	if err := s.checkCategory(ctx, req.Type); err != nil {
		return nil, err
	}
	if routeUsername != req.Username {
		return nil, ErrUsernameMismatch
	}
	if _, err := s.users.FindByUsername(ctx, req.Username); errors.Is(err, xerrors.ErrNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	t := &transaction.Transaction{
		ID:       ulid.Make().String(),
		Username: req.Username,
		Type:     req.Type,
		Amount:   *req.Amount,
	}
	if err := s.transactions.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.logger.Info("transaction created",
		zap.String("username", t.Username),
		zap.String("type", t.Type),
	)
	return &transaction.Created{
		Username: t.Username,
		Amount:   t.Amount,
		Type:     t.Type,
		Date:     t.Date,
	}, nil
}

// All returns every transaction in the system.
func (s *Service) All(ctx context.Context) ([]transaction.Info, error) {
	return s.list(ctx, transaction.Filter{})
}

// ByUser returns one user's transactions narrowed by the query filters.
func (s *Service) ByUser(ctx context.Context, username string, q QueryFilters) ([]transaction.Info, error) {
	f := transaction.Filter{Username: username}
	if err := q.Apply(&f); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, username); err != nil {
		return nil, err
	}
	return s.list(ctx, f)
}

// ByUserByCategory returns one user's transactions of one category.
func (s *Service) ByUserByCategory(ctx context.Context, username, categoryType string) ([]transaction.Info, error) {
	if err := s.checkCategory(ctx, categoryType); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, username); err != nil {
		return nil, err
	}
	return s.list(ctx, transaction.Filter{Username: username, Type: categoryType})
}

// ByGroup returns all transactions made by a group's members.
func (s *Service) ByGroup(ctx context.Context, memberEmails []string) ([]transaction.Info, error) {
	if len(memberEmails) == 0 {
		return []transaction.Info{}, nil
	}
	usernames, err := s.users.FindUsernamesByEmails(ctx, memberEmails)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve member usernames: %w", err)
	}
	return s.list(ctx, transaction.Filter{Usernames: usernames})
}

// ByGroupByCategory returns a group's transactions of one category.
func (s *Service) ByGroupByCategory(ctx context.Context, memberEmails []string, categoryType string) ([]transaction.Info, error) {
	if err := s.checkCategory(ctx, categoryType); err != nil {
		return nil, err
	}
	if len(memberEmails) == 0 {
		return []transaction.Info{}, nil
	}
	usernames, err := s.users.FindUsernamesByEmails(ctx, memberEmails)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve member usernames: %w", err)
	}
	return s.list(ctx, transaction.Filter{Usernames: usernames, Type: categoryType})
}

// Delete removes one transaction owned by the user named in the route.
func (s *Service) Delete(ctx context.Context, username, id string) (string, error) {
	if _, err := s.users.FindByUsername(ctx, username); errors.Is(err, xerrors.ErrNotFound) {
		return "", ErrUserNotFound
	} else if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	t, err := s.transactions.FindByID(ctx, id)
	if errors.Is(err, xerrors.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find transaction: %w", err)
	}
	if t.Username != username {
		return "", ErrOwnershipMismatch
	}

	if err := s.transactions.DeleteByID(ctx, id); err != nil {
		return "", fmt.Errorf("failed to delete transaction: %w", err)
	}
	return "transaction deleted", nil
}

// DeleteMany removes a batch of transactions; every id must exist.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (string, error) {
	count, err := s.transactions.CountByIDs(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("failed to count transactions: %w", err)
	}
	if count < int64(len(ids)) {
		return "", ErrSomeNotFound
	}
	if err := s.transactions.DeleteByIDs(ctx, ids); err != nil {
		return "", fmt.Errorf("failed to delete transactions: %w", err)
	}
	return "transactions deleted", nil
}

func (s *Service) list(ctx context.Context, f transaction.Filter) ([]transaction.Info, error) {
	infos, err := s.transactions.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if infos == nil {
		infos = []transaction.Info{}
	}
	return infos, nil
}

func (s *Service) checkUser(ctx context.Context, username string) error {
	if _, err := s.users.FindByUsername(ctx, username); errors.Is(err, xerrors.ErrNotFound) {
		return ErrRouteUserNotFound
	} else if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	return nil
}

func (s *Service) checkCategory(ctx context.Context, categoryType string) error {
	if _, err := s.categories.FindByType(ctx, categoryType); errors.Is(err, xerrors.ErrNotFound) {
		return ErrCategoryNotFound
	} else if err != nil {
		return fmt.Errorf("failed to find category: %w", err)
	}
	return nil
}
