// internal/service/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ezwallet-service/internal/domain/group"
	"ezwallet-service/internal/domain/user"
	xerrors "ezwallet-service/internal/pkg/errors"

	"go.uber.org/zap"
)

var (
	ErrMissingAttributes = xerrors.BadRequest("the request body does not contain all the necessary attributes")
	ErrEmptyEmail        = xerrors.BadRequest("email is an empty string")
	ErrInvalidEmail      = xerrors.BadRequest("email is not in the correct format")
	ErrUserNotFound      = xerrors.BadRequest("User not found")
	ErrAdminNotDeletable = xerrors.BadRequest("Admins cannot be deleted")
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserRepo interface {
	ListAll(ctx context.Context) ([]user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

type GroupRepo interface {
	FindByMemberEmail(ctx context.Context, email string) (*group.Group, error)
	ReplaceMembers(ctx context.Context, name string, members []group.Member) error
	Delete(ctx context.Context, name string) error
}

type TransactionRepo interface {
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}

type Service struct {
	users        UserRepo
	groups       GroupRepo
	transactions TransactionRepo
	logger       *zap.Logger
}

func NewService(users UserRepo, groups GroupRepo, transactions TransactionRepo, logger *zap.Logger) *Service {
	return &Service{
		users:        users,
		groups:       groups,
		transactions: transactions,
		logger:       logger,
	}
}

// List returns every account's public projection.
func (s *Service) List(ctx context.Context) ([]user.Info, error) {
	all, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	infos := make([]user.Info, 0, len(all))
	for i := range all {
		infos = append(infos, all[i].Info())
	}
	return infos, nil
}

// Get returns one account's public projection.
func (s *Service) Get(ctx context.Context, username string) (*user.Info, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	info := u.Info()
	return &info, nil
}

// Delete erases a regular account's data: its transactions are dropped and
// it is removed from its group, the group itself going with it when the
// account was the last member. The account row stays so the username cannot
// be re-registered against orphaned history.
func (s *Service) Delete(ctx context.Context, req *user.DeleteRequest) (*user.DeleteResponse, error) {
	if req.Email == nil {
		return nil, ErrMissingAttributes
	}
	email := *req.Email
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmptyEmail
	}
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if u.Role == user.RoleAdmin {
		return nil, ErrAdminNotDeletable
	}

	deleted, err := s.transactions.DeleteByUsername(ctx, u.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to delete transactions: %w", err)
	}

	deletedFromGroup := false
	g, err := s.groups.FindByMemberEmail(ctx, email)
	if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	if g != nil {
		if len(g.Members) == 1 {
			if err := s.groups.Delete(ctx, g.Name); err != nil {
				return nil, fmt.Errorf("failed to delete group: %w", err)
			}
		} else {
			remaining := make([]group.Member, 0, len(g.Members)-1)
			for _, m := range g.Members {
				if m.Email != email {
					remaining = append(remaining, m)
				}
			}
			if err := s.groups.ReplaceMembers(ctx, g.Name, remaining); err != nil {
				return nil, fmt.Errorf("failed to update group members: %w", err)
			}
		}
		deletedFromGroup = true
	}

	s.logger.Info("user data deleted",
		zap.String("username", u.Username),
		zap.Int64("transactions", deleted),
		zap.Bool("from_group", deletedFromGroup),
	)
	return &user.DeleteResponse{
		DeletedTransactions: deleted,
		DeletedFromGroup:    deletedFromGroup,
	}, nil
}
