package service

import (
	"context"
	"fmt"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/logger"
	"church-inventory-backend/internal/repository"
)

type inventoryService struct {
	uow          repository.UnitOfWork
	itemRepo     repository.ItemRepository
	txRepo       repository.TransactionRepository
	checkoutRepo repository.CheckoutRepository
	ministryRepo repository.MinistryRepository
	locks        *ItemLocks
	opTimeout    time.Duration
	retries      int
}

func NewInventoryService(
	uow repository.UnitOfWork,
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
	checkoutRepo repository.CheckoutRepository,
	ministryRepo repository.MinistryRepository,
	locks *ItemLocks,
	opTimeout time.Duration,
) InventoryService {
	return &inventoryService{
		uow:          uow,
		itemRepo:     itemRepo,
		txRepo:       txRepo,
		checkoutRepo: checkoutRepo,
		ministryRepo: ministryRepo,
		locks:        locks,
		opTimeout:    opTimeout,
		retries:      defaultRetryAttempts,
	}
}

func (s *inventoryService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// CreateItem inserts the item together with its initial ADDITION record in
// one transaction, so no item ever exists with quantity unexplained by the
// ledger. The seed quantity is normally zero.
func (s *inventoryService) CreateItem(ctx context.Context, item *domain.Item, actorID int32) (*domain.Item, *domain.Transaction, error) {
	if item.Quantity < 0 || item.MinQuantity < 0 {
		return nil, nil, fmt.Errorf("%w: quantities must be non-negative", domain.ErrInvalidQuantity)
	}
	if item.UnitValue.IsNegative() {
		return nil, nil, fmt.Errorf("%w: unit value must be non-negative", domain.ErrInvalidQuantity)
	}
	if item.Condition == "" {
		item.Condition = domain.ConditionGood
	}
	if !item.Condition.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown condition %q", domain.ErrInvalidReference, item.Condition)
	}
	if _, err := s.ministryRepo.GetByID(ctx, item.MinistryAreaID); err != nil {
		return nil, nil, fmt.Errorf("%w: ministry area %d", domain.ErrInvalidReference, item.MinistryAreaID)
	}

	var record *domain.Transaction
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err := s.uow.WithinTx(ctx, func(tx *repository.Atomic) error {
		if err := tx.Items.Create(ctx, item); err != nil {
			return err
		}
		rec, err := domain.NewTransaction(item.ID, domain.TransactionTypeAddition, item.Quantity, 0, "initial stock", actorID)
		if err != nil {
			return err
		}
		if err := tx.Transactions.Create(ctx, rec); err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return item, record, nil
}

// AdjustQuantity applies a signed delta inside the item's critical section.
// The ledger append and the quantity write commit in the same transaction:
// both land or neither does. Negative deltas are capped by available (not
// just authoritative) quantity so reserved stock cannot be removed from
// under an outstanding checkout.
func (s *inventoryService) AdjustQuantity(ctx context.Context, itemID, delta int32, txType domain.TransactionType, reason string, actorID int32) (*domain.Item, *domain.Transaction, error) {
	switch txType {
	case domain.TransactionTypeAddition:
		if delta <= 0 {
			return nil, nil, fmt.Errorf("%w: addition requires a positive delta", domain.ErrInvalidDelta)
		}
	case domain.TransactionTypeRemoval:
		if delta >= 0 {
			return nil, nil, fmt.Errorf("%w: removal requires a negative delta", domain.ErrInvalidDelta)
		}
	case domain.TransactionTypeAdjustment:
		if delta == 0 {
			return nil, nil, fmt.Errorf("%w: adjustment delta must be non-zero", domain.ErrInvalidDelta)
		}
	default:
		// Transfer legs only exist through the transfer coordinator.
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransactionType, txType)
	}

	unlock := s.locks.Lock(itemID)
	defer unlock()

	var (
		item   *domain.Item
		record *domain.Transaction
	)
	err := withRetry(ctx, s.retries, func() error {
		opCtx, cancel := s.withTimeout(ctx)
		defer cancel()
		return s.uow.WithinTx(opCtx, func(tx *repository.Atomic) error {
			current, err := tx.Items.GetForUpdate(opCtx, itemID)
			if err != nil {
				return err
			}
			if !current.Active() {
				return domain.ErrItemDeactivated
			}
			if delta < 0 {
				outstanding, err := tx.Checkouts.OutstandingQuantity(opCtx, itemID)
				if err != nil {
					return err
				}
				available := current.Quantity - outstanding
				if -delta > available {
					return &domain.InsufficientStockError{ItemID: itemID, Requested: -delta, Available: available}
				}
			}
			rec, err := domain.NewTransaction(itemID, txType, delta, current.Quantity, reason, actorID)
			if err != nil {
				return err
			}
			if err := tx.Transactions.Create(opCtx, rec); err != nil {
				return err
			}
			if err := tx.Items.UpdateQuantity(opCtx, itemID, rec.NewQuantity); err != nil {
				return err
			}
			current.Quantity = rec.NewQuantity
			item, record = current, rec
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	if domain.IsLowStock(item) {
		logger.Warn("Item below reorder threshold",
			"item_id", item.ID, "quantity", item.Quantity, "min_quantity", item.MinQuantity)
	}
	return item, record, nil
}

// AvailableQuantity is the authoritative quantity minus outstanding checkout
// reservations.
func (s *inventoryService) AvailableQuantity(ctx context.Context, itemID int32) (int32, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return 0, err
	}
	outstanding, err := s.checkoutRepo.OutstandingQuantity(ctx, itemID)
	if err != nil {
		return 0, err
	}
	return item.Quantity - outstanding, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id int32) (*domain.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

func (s *inventoryService) ListItems(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	return s.itemRepo.ListByMinistry(ctx, ministryID, normalizePage(page), normalizePageSize(pageSize))
}

// UpdateItemMetadata changes non-quantity fields only; the repository layer
// has no way to write quantity outside the ledger path.
func (s *inventoryService) UpdateItemMetadata(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item.MinQuantity < 0 {
		return nil, fmt.Errorf("%w: min quantity must be non-negative", domain.ErrInvalidQuantity)
	}
	if item.UnitValue.IsNegative() {
		return nil, fmt.Errorf("%w: unit value must be non-negative", domain.ErrInvalidQuantity)
	}
	if item.Condition != "" && !item.Condition.Valid() {
		return nil, fmt.Errorf("%w: unknown condition %q", domain.ErrInvalidReference, item.Condition)
	}
	current, err := s.itemRepo.GetByID(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if !current.Active() {
		return nil, domain.ErrItemDeactivated
	}
	if err := s.itemRepo.UpdateMetadata(ctx, item); err != nil {
		return nil, err
	}
	return s.itemRepo.GetByID(ctx, item.ID)
}

// DeactivateItem soft-deactivates: ledger and checkout history stay intact,
// the item just stops accepting new operations. Items with outstanding
// reservations must be checked in first.
func (s *inventoryService) DeactivateItem(ctx context.Context, id int32) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.itemRepo.GetByID(ctx, id); err != nil {
		return err
	}
	outstanding, err := s.checkoutRepo.OutstandingQuantity(ctx, id)
	if err != nil {
		return err
	}
	if outstanding > 0 {
		return fmt.Errorf("%w: %d units still checked out", domain.ErrCheckoutsOutstanding, outstanding)
	}
	return s.itemRepo.Deactivate(ctx, id, time.Now())
}

func (s *inventoryService) ListTransactions(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, 0, err
	}
	return s.txRepo.ListByItem(ctx, itemID, normalizePage(page), normalizePageSize(pageSize))
}

func normalizePage(page int32) int32 {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(pageSize int32) int32 {
	if pageSize < 1 || pageSize > 100 {
		return 20
	}
	return pageSize
}
