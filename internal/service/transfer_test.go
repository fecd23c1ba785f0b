package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

func newTransferFixture() (*MockItemRepo, *MockTransactionRepo, *MockCheckoutRepo, *MockMinistryRepo, TransferService) {
	itemRepo := new(MockItemRepo)
	txRepo := new(MockTransactionRepo)
	checkoutRepo := new(MockCheckoutRepo)
	ministryRepo := new(MockMinistryRepo)
	uow := &fakeUnitOfWork{atomic: repository.Atomic{
		Items:        itemRepo,
		Transactions: txRepo,
		Checkouts:    checkoutRepo,
	}}
	locks := NewItemLocks()
	inventory := NewInventoryService(uow, itemRepo, txRepo, checkoutRepo, ministryRepo, locks, 0)
	svc := NewTransferService(uow, itemRepo, ministryRepo, inventory, locks, 0)
	return itemRepo, txRepo, checkoutRepo, ministryRepo, svc
}

func TestTransferService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("TwoLinkedRecordsConserveQuantity", func(t *testing.T) {
		itemRepo, txRepo, checkoutRepo, ministryRepo, svc := newTransferFixture()
		source := &domain.Item{ID: 1, MinistryAreaID: 2, Quantity: 10, Barcode: "CH-100"}
		dest := &domain.Item{ID: 5, MinistryAreaID: 3, Quantity: 1, Barcode: "CH-100"}

		ministryRepo.On("GetByID", ctx, int32(2)).Return(&domain.MinistryArea{ID: 2}, nil)
		ministryRepo.On("GetByID", ctx, int32(3)).Return(&domain.MinistryArea{ID: 3}, nil)
		itemRepo.On("GetByID", ctx, int32(1)).Return(source, nil)
		itemRepo.On("GetSibling", ctx, source, int32(3)).Return(dest, nil)
		itemRepo.On("GetForUpdate", mock.Anything, int32(1)).Return(source, nil)
		itemRepo.On("GetForUpdate", mock.Anything, int32(5)).Return(dest, nil)
		checkoutRepo.On("OutstandingQuantity", mock.Anything, int32(1)).Return(int32(0), nil)
		txRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil)
		itemRepo.On("UpdateQuantity", mock.Anything, int32(1), int32(6)).Return(nil)
		itemRepo.On("UpdateQuantity", mock.Anything, int32(5), int32(5)).Return(nil)

		out, in, err := svc.Transfer(ctx, 1, 2, 3, 4, "youth retreat", 7)
		assert.NoError(t, err)

		assert.Equal(t, domain.TransactionTypeTransferOut, out.Type)
		assert.Equal(t, domain.TransactionTypeTransferIn, in.Type)
		assert.Equal(t, int32(-4), out.Quantity)
		assert.Equal(t, int32(4), in.Quantity)
		assert.Equal(t, int32(0), out.Quantity+in.Quantity)
		assert.NotEmpty(t, out.TransferGroup)
		assert.Equal(t, out.TransferGroup, in.TransferGroup)
		assert.Equal(t, int32(2), *out.FromMinistryID)
		assert.Equal(t, int32(3), *out.ToMinistryID)
		itemRepo.AssertCalled(t, "UpdateQuantity", mock.Anything, int32(1), int32(6))
		itemRepo.AssertCalled(t, "UpdateQuantity", mock.Anything, int32(5), int32(5))
	})

	t.Run("SeedsSiblingWhenDestinationHasNone", func(t *testing.T) {
		itemRepo, txRepo, checkoutRepo, ministryRepo, svc := newTransferFixture()
		source := &domain.Item{ID: 1, MinistryAreaID: 2, Quantity: 10, Barcode: "CH-100", Condition: domain.ConditionGood}

		ministryRepo.On("GetByID", ctx, int32(2)).Return(&domain.MinistryArea{ID: 2}, nil)
		ministryRepo.On("GetByID", ctx, int32(3)).Return(&domain.MinistryArea{ID: 3}, nil)
		itemRepo.On("GetByID", ctx, int32(1)).Return(source, nil)
		itemRepo.On("GetSibling", ctx, source, int32(3)).Return(nil, domain.ErrNotFound)
		itemRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Item")).Run(func(args mock.Arguments) {
			sibling := args.Get(1).(*domain.Item)
			sibling.ID = 8
			assert.Equal(t, int32(0), sibling.Quantity)
			assert.Equal(t, int32(3), sibling.MinistryAreaID)
			assert.Equal(t, "CH-100", sibling.Barcode)
		}).Return(nil)
		itemRepo.On("GetForUpdate", mock.Anything, int32(1)).Return(source, nil)
		itemRepo.On("GetForUpdate", mock.Anything, int32(8)).Return(&domain.Item{ID: 8, MinistryAreaID: 3, Quantity: 0}, nil)
		checkoutRepo.On("OutstandingQuantity", mock.Anything, int32(1)).Return(int32(0), nil)
		txRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil)
		itemRepo.On("UpdateQuantity", mock.Anything, int32(1), int32(4)).Return(nil)
		itemRepo.On("UpdateQuantity", mock.Anything, int32(8), int32(6)).Return(nil)

		out, in, err := svc.Transfer(ctx, 1, 2, 3, 6, "", 7)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), out.ItemID)
		assert.Equal(t, int32(8), in.ItemID)
		assert.Equal(t, int32(0), in.PreviousQuantity)
		assert.Equal(t, int32(6), in.NewQuantity)
	})

	t.Run("RejectsNonPositiveQuantity", func(t *testing.T) {
		_, _, _, _, svc := newTransferFixture()
		_, _, err := svc.Transfer(ctx, 1, 2, 3, 0, "", 7)
		assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
	})

	t.Run("RejectsSameMinistry", func(t *testing.T) {
		_, _, _, _, svc := newTransferFixture()
		_, _, err := svc.Transfer(ctx, 1, 2, 2, 4, "", 7)
		assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
	})

	t.Run("RejectsUnknownMinistry", func(t *testing.T) {
		_, _, _, ministryRepo, svc := newTransferFixture()
		ministryRepo.On("GetByID", ctx, int32(2)).Return(nil, domain.ErrNotFound)
		_, _, err := svc.Transfer(ctx, 1, 2, 3, 4, "", 7)
		assert.ErrorIs(t, err, domain.ErrInvalidReference)
	})

	t.Run("RejectsItemNotOwnedBySource", func(t *testing.T) {
		itemRepo, _, _, ministryRepo, svc := newTransferFixture()
		ministryRepo.On("GetByID", ctx, int32(2)).Return(&domain.MinistryArea{ID: 2}, nil)
		ministryRepo.On("GetByID", ctx, int32(3)).Return(&domain.MinistryArea{ID: 3}, nil)
		itemRepo.On("GetByID", ctx, int32(1)).Return(&domain.Item{ID: 1, MinistryAreaID: 4}, nil)

		_, _, err := svc.Transfer(ctx, 1, 2, 3, 4, "", 7)
		assert.ErrorIs(t, err, domain.ErrInvalidReference)
	})

	t.Run("RejectsSourceDeactivatedUnderLock", func(t *testing.T) {
		itemRepo, txRepo, _, ministryRepo, svc := newTransferFixture()
		source := &domain.Item{ID: 1, MinistryAreaID: 2, Quantity: 10, Barcode: "CH-100"}
		dest := &domain.Item{ID: 5, MinistryAreaID: 3, Quantity: 1, Barcode: "CH-100"}
		gone := testTime()
		deactivated := &domain.Item{ID: 1, MinistryAreaID: 2, Quantity: 10, Barcode: "CH-100", DeactivatedOn: &gone}

		ministryRepo.On("GetByID", ctx, int32(2)).Return(&domain.MinistryArea{ID: 2}, nil)
		ministryRepo.On("GetByID", ctx, int32(3)).Return(&domain.MinistryArea{ID: 3}, nil)
		itemRepo.On("GetByID", ctx, int32(1)).Return(source, nil)
		itemRepo.On("GetSibling", ctx, source, int32(3)).Return(dest, nil)
		// The row lock observes a deactivation that raced in after the
		// initial read.
		itemRepo.On("GetForUpdate", mock.Anything, int32(1)).Return(deactivated, nil)
		itemRepo.On("GetForUpdate", mock.Anything, int32(5)).Return(dest, nil)

		_, _, err := svc.Transfer(ctx, 1, 2, 3, 4, "", 7)
		assert.ErrorIs(t, err, domain.ErrItemDeactivated)
		txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		itemRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InsufficientAvailableStock", func(t *testing.T) {
		itemRepo, _, checkoutRepo, ministryRepo, svc := newTransferFixture()
		source := &domain.Item{ID: 1, MinistryAreaID: 2, Quantity: 10, Barcode: "CH-100"}
		dest := &domain.Item{ID: 5, MinistryAreaID: 3, Quantity: 0, Barcode: "CH-100"}

		ministryRepo.On("GetByID", ctx, int32(2)).Return(&domain.MinistryArea{ID: 2}, nil)
		ministryRepo.On("GetByID", ctx, int32(3)).Return(&domain.MinistryArea{ID: 3}, nil)
		itemRepo.On("GetByID", ctx, int32(1)).Return(source, nil)
		itemRepo.On("GetSibling", ctx, source, int32(3)).Return(dest, nil)
		itemRepo.On("GetForUpdate", mock.Anything, int32(1)).Return(source, nil)
		itemRepo.On("GetForUpdate", mock.Anything, int32(5)).Return(dest, nil)
		checkoutRepo.On("OutstandingQuantity", mock.Anything, int32(1)).Return(int32(7), nil)

		_, _, err := svc.Transfer(ctx, 1, 2, 3, 4, "", 7)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)

		var stockErr *domain.InsufficientStockError
		assert.True(t, errors.As(err, &stockErr))
		assert.Equal(t, int32(4), stockErr.Requested)
		assert.Equal(t, int32(3), stockErr.Available)
	})
}
