package service

import (
	"context"
	"fmt"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/logger"
	"church-inventory-backend/internal/repository"
)

// checkoutService tracks temporary reservations. A checkout never writes a
// ledger record; only a check-in shortfall (lost or damaged stock) posts a
// REMOVAL through the same atomic path the registry uses.
type checkoutService struct {
	uow          repository.UnitOfWork
	itemRepo     repository.ItemRepository
	checkoutRepo repository.CheckoutRepository
	locks        *ItemLocks
	opTimeout    time.Duration
	retries      int
	now          func() time.Time
}

func NewCheckoutService(
	uow repository.UnitOfWork,
	itemRepo repository.ItemRepository,
	checkoutRepo repository.CheckoutRepository,
	locks *ItemLocks,
	opTimeout time.Duration,
) CheckoutService {
	return &checkoutService{
		uow:          uow,
		itemRepo:     itemRepo,
		checkoutRepo: checkoutRepo,
		locks:        locks,
		opTimeout:    opTimeout,
		retries:      defaultRetryAttempts,
		now:          time.Now,
	}
}

func (s *checkoutService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Checkout reserves quantity against the item's available (not authoritative)
// stock. The availability read and the reservation insert share the item's
// critical section and one transaction, so two concurrent checkouts cannot
// both observe sufficient stock and jointly over-reserve it.
func (s *checkoutService) Checkout(ctx context.Context, itemID, borrowerID, quantity int32, dueOn time.Time, purpose string) (*domain.Checkout, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: checkout quantity must be positive", domain.ErrInvalidQuantity)
	}
	if !dueOn.After(s.now()) {
		return nil, fmt.Errorf("%w: due %s", domain.ErrInvalidDueDate, dueOn.Format(time.RFC3339))
	}

	unlock := s.locks.Lock(itemID)
	defer unlock()

	var checkout *domain.Checkout
	err := withRetry(ctx, s.retries, func() error {
		opCtx, cancel := s.withTimeout(ctx)
		defer cancel()
		return s.uow.WithinTx(opCtx, func(tx *repository.Atomic) error {
			item, err := tx.Items.GetForUpdate(opCtx, itemID)
			if err != nil {
				return err
			}
			if !item.Active() {
				return domain.ErrItemDeactivated
			}
			outstanding, err := tx.Checkouts.OutstandingQuantity(opCtx, itemID)
			if err != nil {
				return err
			}
			available := item.Quantity - outstanding
			if quantity > available {
				return &domain.InsufficientStockError{ItemID: itemID, Requested: quantity, Available: available}
			}
			c := &domain.Checkout{
				ItemID:     itemID,
				BorrowerID: borrowerID,
				Quantity:   quantity,
				Purpose:    purpose,
				DueOn:      dueOn,
			}
			if err := tx.Checkouts.Create(opCtx, c); err != nil {
				return err
			}
			checkout = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return checkout, nil
}

// Checkin closes the reservation. A shortfall (fewer units returned than
// reserved, or the full reservation when the return condition is DAMAGED)
// is posted as a REMOVAL ledger record in the same transaction that marks
// the checkout returned. Re-checking-in is a typed rejection, never a
// silent no-op.
func (s *checkoutService) Checkin(ctx context.Context, checkoutID, returnedQuantity int32, condition domain.ItemCondition, actorID int32) (*domain.Checkout, error) {
	if condition != "" && !condition.Valid() {
		return nil, fmt.Errorf("%w: unknown condition %q", domain.ErrInvalidReference, condition)
	}

	existing, err := s.checkoutRepo.GetByID(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if returnedQuantity < 0 || returnedQuantity > existing.Quantity {
		return nil, fmt.Errorf("%w: returned %d of %d reserved", domain.ErrInvalidQuantity, returnedQuantity, existing.Quantity)
	}

	unlock := s.locks.Lock(existing.ItemID)
	defer unlock()

	var checkout *domain.Checkout
	err = withRetry(ctx, s.retries, func() error {
		opCtx, cancel := s.withTimeout(ctx)
		defer cancel()
		return s.uow.WithinTx(opCtx, func(tx *repository.Atomic) error {
			c, err := tx.Checkouts.GetForUpdate(opCtx, checkoutID)
			if err != nil {
				return err
			}
			if c.CheckedInOn != nil {
				return domain.ErrAlreadyReturned
			}

			now := s.now()
			if err := tx.Checkouts.MarkReturned(opCtx, c.ID, returnedQuantity, condition, now); err != nil {
				return err
			}
			c.CheckedInOn = &now
			c.ReturnedQuantity = &returnedQuantity
			if condition != "" {
				cond := condition
				c.ReturnCondition = &cond
			}

			writeOff := c.Quantity - returnedQuantity
			if condition == domain.ConditionDamaged {
				// Damaged returns are written off in full: the units came
				// back but are no longer usable stock.
				writeOff = c.Quantity
			}
			if writeOff > 0 {
				item, err := tx.Items.GetForUpdate(opCtx, c.ItemID)
				if err != nil {
					return err
				}
				reason := fmt.Sprintf("check-in shortfall for checkout %d", c.ID)
				rec, err := domain.NewTransaction(c.ItemID, domain.TransactionTypeRemoval, -writeOff, item.Quantity, reason, actorID)
				if err != nil {
					return err
				}
				if err := tx.Transactions.Create(opCtx, rec); err != nil {
					return err
				}
				if err := tx.Items.UpdateQuantity(opCtx, c.ItemID, rec.NewQuantity); err != nil {
					return err
				}
				logger.Info("Posted check-in shortfall",
					"checkout_id", c.ID, "item_id", c.ItemID, "write_off", writeOff, "transaction_id", rec.ID)
			}
			checkout = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return checkout, nil
}

func (s *checkoutService) GetCheckout(ctx context.Context, id int32) (*domain.Checkout, error) {
	return s.checkoutRepo.GetByID(ctx, id)
}

func (s *checkoutService) ListOutstandingByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	return s.checkoutRepo.ListOutstandingByItem(ctx, itemID, normalizePage(page), normalizePageSize(pageSize))
}

func (s *checkoutService) ListOutstandingByBorrower(ctx context.Context, borrowerID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	return s.checkoutRepo.ListOutstandingByBorrower(ctx, borrowerID, normalizePage(page), normalizePageSize(pageSize))
}

func (s *checkoutService) ListOverdue(ctx context.Context, asOf time.Time, page, pageSize int32) ([]domain.Checkout, int32, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	return s.checkoutRepo.ListOverdue(ctx, asOf, normalizePage(page), normalizePageSize(pageSize))
}
