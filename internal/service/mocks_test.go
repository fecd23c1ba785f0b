package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

// MockItemRepo
type MockItemRepo struct {
	mock.Mock
}

func (m *MockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) GetSibling(ctx context.Context, ref *domain.Item, ministryID int32) (*domain.Item, error) {
	args := m.Called(ctx, ref, ministryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}
func (m *MockItemRepo) UpdateQuantity(ctx context.Context, id, quantity int32) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}
func (m *MockItemRepo) UpdateMetadata(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockItemRepo) Deactivate(ctx context.Context, id int32, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockItemRepo) ListByMinistry(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	args := m.Called(ctx, ministryID, page, pageSize)
	return args.Get(0).([]domain.Item), args.Get(1).(int32), args.Error(2)
}
func (m *MockItemRepo) ListLowStock(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	args := m.Called(ctx, ministryID, page, pageSize)
	return args.Get(0).([]domain.Item), args.Get(1).(int32), args.Error(2)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, itemID, page, pageSize)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionRepo) SumDeltas(ctx context.Context, itemID int32) (int32, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int32), args.Error(1)
}

// MockCheckoutRepo
type MockCheckoutRepo struct {
	mock.Mock
}

func (m *MockCheckoutRepo) Create(ctx context.Context, c *domain.Checkout) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCheckoutRepo) GetByID(ctx context.Context, id int32) (*domain.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}
func (m *MockCheckoutRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Checkout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkout), args.Error(1)
}
func (m *MockCheckoutRepo) MarkReturned(ctx context.Context, id int32, returnedQuantity int32, condition domain.ItemCondition, at time.Time) error {
	args := m.Called(ctx, id, returnedQuantity, condition, at)
	return args.Error(0)
}
func (m *MockCheckoutRepo) OutstandingQuantity(ctx context.Context, itemID int32) (int32, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockCheckoutRepo) ListOutstandingByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	args := m.Called(ctx, itemID, page, pageSize)
	return args.Get(0).([]domain.Checkout), args.Get(1).(int32), args.Error(2)
}
func (m *MockCheckoutRepo) ListOutstandingByBorrower(ctx context.Context, borrowerID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	args := m.Called(ctx, borrowerID, page, pageSize)
	return args.Get(0).([]domain.Checkout), args.Get(1).(int32), args.Error(2)
}
func (m *MockCheckoutRepo) ListOverdue(ctx context.Context, asOf time.Time, page, pageSize int32) ([]domain.Checkout, int32, error) {
	args := m.Called(ctx, asOf, page, pageSize)
	return args.Get(0).([]domain.Checkout), args.Get(1).(int32), args.Error(2)
}

// MockMinistryRepo
type MockMinistryRepo struct {
	mock.Mock
}

func (m *MockMinistryRepo) Create(ctx context.Context, ma *domain.MinistryArea) error {
	args := m.Called(ctx, ma)
	return args.Error(0)
}
func (m *MockMinistryRepo) GetByID(ctx context.Context, id int32) (*domain.MinistryArea, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MinistryArea), args.Error(1)
}
func (m *MockMinistryRepo) List(ctx context.Context) ([]domain.MinistryArea, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.MinistryArea), args.Error(1)
}
func (m *MockMinistryRepo) Update(ctx context.Context, ma *domain.MinistryArea) error {
	args := m.Called(ctx, ma)
	return args.Error(0)
}

// MockCategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCategoryRepo) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func testTime() time.Time {
	return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
}

// fakeUnitOfWork runs the transactional closure directly against the mocks,
// recording how many units of work were attempted.
type fakeUnitOfWork struct {
	atomic   repository.Atomic
	attempts int
}

func (f *fakeUnitOfWork) WithinTx(ctx context.Context, fn func(tx *repository.Atomic) error) error {
	f.attempts++
	return fn(&f.atomic)
}
