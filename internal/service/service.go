package service

import (
	"context"
	"time"

	"church-inventory-backend/internal/domain"
)

// InventoryService owns the authoritative item quantity. Every quantity
// change goes through AdjustQuantity (or the transfer/check-in paths that
// share its transactional core), which appends exactly one ledger record
// atomically with the quantity write.
type InventoryService interface {
	CreateItem(ctx context.Context, item *domain.Item, actorID int32) (*domain.Item, *domain.Transaction, error)
	AdjustQuantity(ctx context.Context, itemID, delta int32, txType domain.TransactionType, reason string, actorID int32) (*domain.Item, *domain.Transaction, error)
	AvailableQuantity(ctx context.Context, itemID int32) (int32, error)
	GetItem(ctx context.Context, id int32) (*domain.Item, error)
	ListItems(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error)
	UpdateItemMetadata(ctx context.Context, item *domain.Item) (*domain.Item, error)
	DeactivateItem(ctx context.Context, id int32) error
	ListTransactions(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Transaction, int32, error)
}

// TransferService moves stock between ministry areas: two linked ledger
// records in one atomic unit, total quantity conserved.
type TransferService interface {
	Transfer(ctx context.Context, itemID, fromMinistryID, toMinistryID, quantity int32, reason string, actorID int32) (*domain.Transaction, *domain.Transaction, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, itemID, borrowerID, quantity int32, dueOn time.Time, purpose string) (*domain.Checkout, error)
	Checkin(ctx context.Context, checkoutID, returnedQuantity int32, condition domain.ItemCondition, actorID int32) (*domain.Checkout, error)
	GetCheckout(ctx context.Context, id int32) (*domain.Checkout, error)
	ListOutstandingByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Checkout, int32, error)
	ListOutstandingByBorrower(ctx context.Context, borrowerID int32, page, pageSize int32) ([]domain.Checkout, int32, error)
	ListOverdue(ctx context.Context, asOf time.Time, page, pageSize int32) ([]domain.Checkout, int32, error)
}

type LowStockService interface {
	// ListLowStock returns items below their reorder threshold; ministryID 0
	// means all ministries.
	ListLowStock(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error)
}

type MinistryService interface {
	CreateMinistry(ctx context.Context, m *domain.MinistryArea) (*domain.MinistryArea, error)
	GetMinistry(ctx context.Context, id int32) (*domain.MinistryArea, error)
	ListMinistries(ctx context.Context) ([]domain.MinistryArea, error)
	UpdateMinistry(ctx context.Context, m *domain.MinistryArea) (*domain.MinistryArea, error)
}

type CategoryService interface {
	CreateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error)
	GetCategory(ctx context.Context, id int32) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) (*domain.Category, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendLowStockAlert(ctx context.Context, toEmail, ministryName string, items []domain.Item) error
	SendOverdueReminder(ctx context.Context, toEmail, itemName string, checkout *domain.Checkout) error
}
