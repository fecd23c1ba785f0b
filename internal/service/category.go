package service

import (
	"context"
	"fmt"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

// categoryService keeps the category graph an explicit tree: a parent chain
// is walked on every insert and move, and anything that would close a cycle
// is rejected before it reaches storage.
type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidReference)
	}
	if c.ParentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *c.ParentID); err != nil {
			return nil, fmt.Errorf("%w: parent category %d", domain.ErrInvalidReference, *c.ParentID)
		}
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidReference)
	}
	if c.ParentID != nil {
		if *c.ParentID == c.ID {
			return nil, fmt.Errorf("%w: category cannot be its own parent", domain.ErrInvalidReference)
		}
		if err := s.ensureNoCycle(ctx, c.ID, *c.ParentID); err != nil {
			return nil, err
		}
	}
	if err := s.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, c.ID)
}

// ensureNoCycle walks up from the proposed parent; hitting the moved node
// means the move would close a cycle.
func (s *categoryService) ensureNoCycle(ctx context.Context, movedID, parentID int32) error {
	const maxDepth = 100
	current := parentID
	for depth := 0; depth < maxDepth; depth++ {
		parent, err := s.categoryRepo.GetByID(ctx, current)
		if err != nil {
			return fmt.Errorf("%w: parent category %d", domain.ErrInvalidReference, current)
		}
		if parent.ID == movedID {
			return fmt.Errorf("%w: parent chain of %d loops back to %d", domain.ErrInvalidReference, parentID, movedID)
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return fmt.Errorf("%w: category tree deeper than %d levels", domain.ErrInvalidReference, maxDepth)
}
