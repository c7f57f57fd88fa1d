// internal/service/category/service.go
package category

import (
	"context"
	"errors"
	"fmt"

	"ezwallet-service/internal/domain/category"
	xerrors "ezwallet-service/internal/pkg/errors"

	"go.uber.org/zap"
)

var (
	ErrAlreadyExists     = xerrors.BadRequest("category already exists")
	ErrNotFound          = xerrors.BadRequest("category not found")
	ErrNewTypeTaken      = xerrors.BadRequest("such category already exists")
	ErrUnknownTypes      = xerrors.BadRequest("not all types exist in database")
	ErrOnlyOneCategory   = xerrors.BadRequest("only one category in db")
	ErrNoOldestSurviving = xerrors.BadRequest("cannot find oldest category")
)

type CategoryRepo interface {
	Create(ctx context.Context, c *category.Category) error
	FindByType(ctx context.Context, categoryType string) (*category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
	Update(ctx context.Context, oldType, newType, color string) error
	DeleteByTypes(ctx context.Context, types []string) error
	Count(ctx context.Context) (int64, error)
	CountByTypes(ctx context.Context, types []string) (int64, error)
	Oldest(ctx context.Context) (*category.Category, error)
	OldestExcluding(ctx context.Context, types []string) (*category.Category, error)
}

type TransactionRepo interface {
	Retype(ctx context.Context, oldType, newType string) (int64, error)
	RetypeMany(ctx context.Context, types []string, newType string) (int64, error)
}

type Service struct {
	categories   CategoryRepo
	transactions TransactionRepo
	logger       *zap.Logger
}

func NewService(categories CategoryRepo, transactions TransactionRepo, logger *zap.Logger) *Service {
	return &Service{
		categories:   categories,
		transactions: transactions,
		logger:       logger,
	}
}

// Create adds a new category type.
func (s *Service) Create(ctx context.Context, req *category.CreateRequest) (*category.Info, error) {
	if _, err := s.categories.FindByType(ctx, req.Type); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	c := &category.Category{Type: req.Type, Color: req.Color}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("category created", zap.String("type", c.Type))
	info := c.Info()
	return &info, nil
}

// Update renames and recolors a category, moving its transactions over to
// the new type.
func (s *Service) Update(ctx context.Context, oldType string, req *category.UpdateRequest) (*category.EditResponse, error) {
	if _, err := s.categories.FindByType(ctx, oldType); errors.Is(err, xerrors.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	// The new type must be free; renaming onto itself counts as taken.
	if _, err := s.categories.FindByType(ctx, req.Type); err == nil {
		return nil, ErrNewTypeTaken
	} else if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check new type: %w", err)
	}

	if err := s.categories.Update(ctx, oldType, req.Type, req.Color); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	count, err := s.transactions.Retype(ctx, oldType, req.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to retype transactions: %w", err)
	}

	s.logger.Info("category edited",
		zap.String("from", oldType),
		zap.String("to", req.Type),
		zap.Int64("transactions", count),
	)
	return &category.EditResponse{Message: "Category edited successfully", Count: count}, nil
}

// Delete removes the given category types, reassigning their transactions
// to the oldest surviving category. When every category is listed, the
// oldest one is kept and receives all transactions.
func (s *Service) Delete(ctx context.Context, types []string) (*category.EditResponse, error) {
	inDB, err := s.categories.CountByTypes(ctx, types)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	if inDB < int64(len(types)) {
		return nil, ErrUnknownTypes
	}

	total, err := s.categories.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	if total == 1 {
		return nil, ErrOnlyOneCategory
	}

	var (
		oldestType string
		toDelete   []string
	)
	if total > int64(len(types)) {
		oldest, err := s.categories.OldestExcluding(ctx, types)
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, ErrNoOldestSurviving
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find oldest category: %w", err)
		}
		oldestType = oldest.Type
		toDelete = types
	} else {
		oldest, err := s.categories.Oldest(ctx)
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, ErrNoOldestSurviving
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find oldest category: %w", err)
		}
		oldestType = oldest.Type
		for _, t := range types {
			if t != oldestType {
				toDelete = append(toDelete, t)
			}
		}
	}

	if err := s.categories.DeleteByTypes(ctx, toDelete); err != nil {
		return nil, fmt.Errorf("failed to delete categories: %w", err)
	}
	count, err := s.transactions.RetypeMany(ctx, toDelete, oldestType)
	if err != nil {
		return nil, fmt.Errorf("failed to retype transactions: %w", err)
	}

	s.logger.Info("categories deleted",
		zap.Strings("types", toDelete),
		zap.String("reassigned_to", oldestType),
		zap.Int64("transactions", count),
	)
	return &category.EditResponse{Message: "Success", Count: count}, nil
}

// List returns all categories, oldest first.
func (s *Service) List(ctx context.Context) ([]category.Info, error) {
	all, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	infos := make([]category.Info, 0, len(all))
	for i := range all {
		infos = append(infos, all[i].Info())
	}
	return infos, nil
}
