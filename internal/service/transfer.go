package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/logger"
	"church-inventory-backend/internal/repository"
)

// transferService composes the two legs of a ministry-to-ministry transfer.
// Ministry areas hold independent stock pools, so the destination is a
// sibling item record (same barcode or name) under the receiving ministry,
// created at zero if it does not exist yet. Both legs commit in one SQL
// transaction; the summed quantity across the two records never changes.
type transferService struct {
	uow          repository.UnitOfWork
	itemRepo     repository.ItemRepository
	ministryRepo repository.MinistryRepository
	inventory    InventoryService
	locks        *ItemLocks
	opTimeout    time.Duration
	retries      int
}

func NewTransferService(
	uow repository.UnitOfWork,
	itemRepo repository.ItemRepository,
	ministryRepo repository.MinistryRepository,
	inventory InventoryService,
	locks *ItemLocks,
	opTimeout time.Duration,
) TransferService {
	return &transferService{
		uow:          uow,
		itemRepo:     itemRepo,
		ministryRepo: ministryRepo,
		inventory:    inventory,
		locks:        locks,
		opTimeout:    opTimeout,
		retries:      defaultRetryAttempts,
	}
}

func (s *transferService) Transfer(ctx context.Context, itemID, fromMinistryID, toMinistryID, quantity int32, reason string, actorID int32) (*domain.Transaction, *domain.Transaction, error) {
	if quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidTransfer)
	}
	if fromMinistryID == toMinistryID {
		return nil, nil, fmt.Errorf("%w: source and destination ministry are the same", domain.ErrInvalidTransfer)
	}
	if _, err := s.ministryRepo.GetByID(ctx, fromMinistryID); err != nil {
		return nil, nil, fmt.Errorf("%w: ministry area %d", domain.ErrInvalidReference, fromMinistryID)
	}
	if _, err := s.ministryRepo.GetByID(ctx, toMinistryID); err != nil {
		return nil, nil, fmt.Errorf("%w: ministry area %d", domain.ErrInvalidReference, toMinistryID)
	}

	source, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if source.MinistryAreaID != fromMinistryID {
		return nil, nil, fmt.Errorf("%w: item %d is not owned by ministry %d", domain.ErrInvalidReference, itemID, fromMinistryID)
	}
	if !source.Active() {
		return nil, nil, domain.ErrItemDeactivated
	}

	dest, err := s.resolveDestination(ctx, source, toMinistryID, actorID)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.locks.LockPair(source.ID, dest.ID)
	defer unlock()

	var outRec, inRec *domain.Transaction
	err = withRetry(ctx, s.retries, func() error {
		opCtx, cancel := s.withTimeout(ctx)
		defer cancel()
		return s.uow.WithinTx(opCtx, func(tx *repository.Atomic) error {
			src, dst, err := s.lockBoth(opCtx, tx, source.ID, dest.ID)
			if err != nil {
				return err
			}
			// Re-check both items under the row locks; a deactivation may
			// have landed between the initial read and acquiring them.
			if !src.Active() || !dst.Active() {
				return domain.ErrItemDeactivated
			}
			outstanding, err := tx.Checkouts.OutstandingQuantity(opCtx, src.ID)
			if err != nil {
				return err
			}
			available := src.Quantity - outstanding
			if quantity > available {
				return &domain.InsufficientStockError{ItemID: src.ID, Requested: quantity, Available: available}
			}

			group := uuid.NewString()
			debit, err := domain.NewTransaction(src.ID, domain.TransactionTypeTransferOut, -quantity, src.Quantity, reason, actorID)
			if err != nil {
				return err
			}
			credit, err := domain.NewTransaction(dst.ID, domain.TransactionTypeTransferIn, quantity, dst.Quantity, reason, actorID)
			if err != nil {
				return err
			}
			for _, rec := range []*domain.Transaction{debit, credit} {
				rec.FromMinistryID = &fromMinistryID
				rec.ToMinistryID = &toMinistryID
				rec.TransferGroup = group
			}

			if err := tx.Transactions.Create(opCtx, debit); err != nil {
				return err
			}
			if err := tx.Items.UpdateQuantity(opCtx, src.ID, debit.NewQuantity); err != nil {
				return err
			}
			if err := tx.Transactions.Create(opCtx, credit); err != nil {
				return err
			}
			if err := tx.Items.UpdateQuantity(opCtx, dst.ID, credit.NewQuantity); err != nil {
				return err
			}
			outRec, inRec = debit, credit
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Transfer completed",
		"item_id", itemID, "from_ministry", fromMinistryID, "to_ministry", toMinistryID,
		"quantity", quantity, "transfer_group", outRec.TransferGroup)
	return outRec, inRec, nil
}

func (s *transferService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// resolveDestination finds the receiving ministry's stock pool for the same
// asset identity, seeding an empty sibling (with its own zero-delta initial
// ledger record) when the ministry has never held this item.
func (s *transferService) resolveDestination(ctx context.Context, source *domain.Item, toMinistryID, actorID int32) (*domain.Item, error) {
	dest, err := s.itemRepo.GetSibling(ctx, source, toMinistryID)
	if err == nil {
		return dest, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	sibling := &domain.Item{
		Name:            source.Name,
		Description:     source.Description,
		CategoryID:      source.CategoryID,
		MinistryAreaID:  toMinistryID,
		Quantity:        0,
		MinQuantity:     0,
		UnitValue:       source.UnitValue,
		Condition:       source.Condition,
		Barcode:         source.Barcode,
		AcquisitionDate: source.AcquisitionDate,
	}
	created, _, err := s.inventory.CreateItem(ctx, sibling, actorID)
	if err != nil {
		// A concurrent transfer may have created the sibling first.
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return s.itemRepo.GetSibling(ctx, source, toMinistryID)
		}
		return nil, err
	}
	return created, nil
}

// lockBoth acquires the two row locks in ascending item-ID order, mirroring
// the in-process lock ordering, then returns them as (source, destination).
func (s *transferService) lockBoth(ctx context.Context, tx *repository.Atomic, sourceID, destID int32) (*domain.Item, *domain.Item, error) {
	firstID, secondID := sourceID, destID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}
	first, err := tx.Items.GetForUpdate(ctx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := tx.Items.GetForUpdate(ctx, secondID)
	if err != nil {
		return nil, nil, err
	}
	if first.ID == sourceID {
		return first, second, nil
	}
	return second, first, nil
}
