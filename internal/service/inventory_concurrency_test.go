package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

// memStock backs concurrency tests with real read-modify-write state, where
// canned mock returns would hide a lost update.
type memStock struct {
	item    domain.Item
	records []domain.Transaction
}

type memItemRepo struct{ s *memStock }

func (r *memItemRepo) Create(ctx context.Context, item *domain.Item) error { return nil }
func (r *memItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	return r.GetForUpdate(ctx, id)
}
func (r *memItemRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Item, error) {
	if id != r.s.item.ID {
		return nil, domain.ErrNotFound
	}
	it := r.s.item
	return &it, nil
}
func (r *memItemRepo) GetSibling(ctx context.Context, ref *domain.Item, ministryID int32) (*domain.Item, error) {
	return nil, domain.ErrNotFound
}
func (r *memItemRepo) UpdateQuantity(ctx context.Context, id, quantity int32) error {
	if id != r.s.item.ID {
		return domain.ErrNotFound
	}
	r.s.item.Quantity = quantity
	return nil
}
func (r *memItemRepo) UpdateMetadata(ctx context.Context, item *domain.Item) error { return nil }
func (r *memItemRepo) Deactivate(ctx context.Context, id int32, at time.Time) error {
	return nil
}
func (r *memItemRepo) ListByMinistry(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	return nil, 0, nil
}
func (r *memItemRepo) ListLowStock(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	return nil, 0, nil
}

type memTransactionRepo struct{ s *memStock }

func (r *memTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	tx.ID = int32(len(r.s.records) + 1)
	r.s.records = append(r.s.records, *tx)
	return nil
}
func (r *memTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	return nil, domain.ErrNotFound
}
func (r *memTransactionRepo) ListByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	return r.s.records, int32(len(r.s.records)), nil
}
func (r *memTransactionRepo) SumDeltas(ctx context.Context, itemID int32) (int32, error) {
	var sum int32
	for _, rec := range r.s.records {
		sum += rec.Quantity
	}
	return sum, nil
}

type memCheckoutRepo struct{}

func (r *memCheckoutRepo) Create(ctx context.Context, c *domain.Checkout) error { return nil }
func (r *memCheckoutRepo) GetByID(ctx context.Context, id int32) (*domain.Checkout, error) {
	return nil, domain.ErrNotFound
}
func (r *memCheckoutRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Checkout, error) {
	return nil, domain.ErrNotFound
}
func (r *memCheckoutRepo) MarkReturned(ctx context.Context, id int32, returnedQuantity int32, condition domain.ItemCondition, at time.Time) error {
	return nil
}
func (r *memCheckoutRepo) OutstandingQuantity(ctx context.Context, itemID int32) (int32, error) {
	return 0, nil
}
func (r *memCheckoutRepo) ListOutstandingByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	return nil, 0, nil
}
func (r *memCheckoutRepo) ListOutstandingByBorrower(ctx context.Context, borrowerID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	return nil, 0, nil
}
func (r *memCheckoutRepo) ListOverdue(ctx context.Context, asOf time.Time, page, pageSize int32) ([]domain.Checkout, int32, error) {
	return nil, 0, nil
}

// Two racing removals of the last unit: exactly one wins, exactly one ledger
// record lands, and the loser gets a typed shortfall, never a double debit.
func TestInventoryService_ConcurrentRemovalsOfLastUnit(t *testing.T) {
	stock := &memStock{item: domain.Item{
		ID: 1, Name: "Projector bulb", MinistryAreaID: 3, Quantity: 1, Condition: domain.ConditionGood,
	}}
	items := &memItemRepo{s: stock}
	ledger := &memTransactionRepo{s: stock}
	checkouts := &memCheckoutRepo{}
	uow := &fakeUnitOfWork{atomic: repository.Atomic{
		Items:        items,
		Transactions: ledger,
		Checkouts:    checkouts,
	}}
	svc := NewInventoryService(uow, items, ledger, checkouts, new(MockMinistryRepo), NewItemLocks(), 0)

	ctx := context.Background()
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.AdjustQuantity(ctx, 1, -1, domain.TransactionTypeRemoval, "shrinkage", 7)
		}(i)
	}
	wg.Wait()

	var succeeded int
	var stockErr *domain.InsufficientStockError
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, errors.As(err, &stockErr), "unexpected failure: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	require.NotNil(t, stockErr)
	assert.Equal(t, int32(1), stockErr.Requested)
	assert.Equal(t, int32(0), stockErr.Available)

	assert.Equal(t, int32(0), stock.item.Quantity)
	require.Len(t, stock.records, 1)
	rec := stock.records[0]
	assert.Equal(t, domain.TransactionTypeRemoval, rec.Type)
	assert.Equal(t, int32(1), rec.PreviousQuantity)
	assert.Equal(t, int32(0), rec.NewQuantity)

	sum, err := ledger.SumDeltas(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, int32(1)+sum, stock.item.Quantity)
}
