package service

import (
	"context"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

// lowStockService is a stateless read surface over the reorder-threshold
// predicate; it never mutates anything.
type lowStockService struct {
	itemRepo repository.ItemRepository
}

func NewLowStockService(itemRepo repository.ItemRepository) LowStockService {
	return &lowStockService{itemRepo: itemRepo}
}

func (s *lowStockService) ListLowStock(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	return s.itemRepo.ListLowStock(ctx, ministryID, normalizePage(page), normalizePageSize(pageSize))
}
