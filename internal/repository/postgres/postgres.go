package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same repository code
// runs standalone or inside a unit of work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.ItemRepository
	repository.TransactionRepository
	repository.CheckoutRepository
	repository.MinistryRepository
	repository.CategoryRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		ItemRepository:         NewItemRepository(db),
		TransactionRepository:  NewTransactionRepository(db),
		CheckoutRepository:     NewCheckoutRepository(db),
		MinistryRepository:     NewMinistryRepository(db),
		CategoryRepository:     NewCategoryRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// WithinTx runs fn against transaction-bound repositories and commits only if
// fn returns nil. Any error rolls the whole unit back.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *repository.Atomic) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", mapError(err))
	}
	defer tx.Rollback()

	atomic := &repository.Atomic{
		Items:        NewItemRepository(tx),
		Transactions: NewTransactionRepository(tx),
		Checkouts:    NewCheckoutRepository(tx),
	}
	if err := fn(atomic); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}

// mapError translates driver-level failures into the domain taxonomy so
// services can decide retry vs. surface without importing pq.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceTimeout, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "55P03": // serialization failure, deadlock, lock not available
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		case "23505": // unique violation, e.g. concurrent sibling creation
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		case "23503": // foreign key violation
			return fmt.Errorf("%w: %v", domain.ErrInvalidReference, err)
		}
	}
	return err
}
