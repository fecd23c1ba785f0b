package repository

import (
	"context"
	"time"

	"church-inventory-backend/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
	// GetForUpdate locks the row for the duration of the surrounding
	// transaction. Only meaningful inside Atomic.
	GetForUpdate(ctx context.Context, id int32) (*domain.Item, error)
	// GetSibling finds the item representing the same asset identity under
	// another ministry area: by barcode when set, by name otherwise.
	GetSibling(ctx context.Context, ref *domain.Item, ministryID int32) (*domain.Item, error)
	UpdateQuantity(ctx context.Context, id, quantity int32) error
	UpdateMetadata(ctx context.Context, item *domain.Item) error
	Deactivate(ctx context.Context, id int32, at time.Time) error
	ListByMinistry(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error)
	ListLowStock(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error)
}

// TransactionRepository is append-only: ledger records are never updated or
// deleted, so no such methods exist.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	ListByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Transaction, int32, error)
	// SumDeltas replays the ledger for audit verification.
	SumDeltas(ctx context.Context, itemID int32) (int32, error)
}

type CheckoutRepository interface {
	Create(ctx context.Context, c *domain.Checkout) error
	GetByID(ctx context.Context, id int32) (*domain.Checkout, error)
	GetForUpdate(ctx context.Context, id int32) (*domain.Checkout, error)
	MarkReturned(ctx context.Context, id int32, returnedQuantity int32, condition domain.ItemCondition, at time.Time) error
	// OutstandingQuantity sums reserved quantity of checkouts not yet returned.
	OutstandingQuantity(ctx context.Context, itemID int32) (int32, error)
	ListOutstandingByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Checkout, int32, error)
	ListOutstandingByBorrower(ctx context.Context, borrowerID int32, page, pageSize int32) ([]domain.Checkout, int32, error)
	ListOverdue(ctx context.Context, asOf time.Time, page, pageSize int32) ([]domain.Checkout, int32, error)
}

type MinistryRepository interface {
	Create(ctx context.Context, m *domain.MinistryArea) error
	GetByID(ctx context.Context, id int32) (*domain.MinistryArea, error)
	List(ctx context.Context) ([]domain.MinistryArea, error)
	Update(ctx context.Context, m *domain.MinistryArea) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id int32) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

// Atomic bundles the repositories that participate in one SQL transaction.
// Ledger append and quantity write always travel through the same Atomic so
// neither can land without the other.
type Atomic struct {
	Items        ItemRepository
	Transactions TransactionRepository
	Checkouts    CheckoutRepository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx *Atomic) error) error
}
