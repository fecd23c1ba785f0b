package postgres

import (
	"context"
	"database/sql"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

type checkoutRepository struct {
	db DBTX
}

func NewCheckoutRepository(db DBTX) repository.CheckoutRepository {
	return &checkoutRepository{db: db}
}

const checkoutColumns = `id, item_id, borrower_id, quantity, COALESCE(purpose, ''),
	checked_out_on, due_on, checked_in_on, returned_quantity, return_condition`

func (r *checkoutRepository) Create(ctx context.Context, c *domain.Checkout) error {
	query := `INSERT INTO checkouts (item_id, borrower_id, quantity, purpose, checked_out_on, due_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, checked_out_on`
	err := r.db.QueryRowContext(ctx, query,
		c.ItemID, c.BorrowerID, c.Quantity, c.Purpose, time.Now(), c.DueOn,
	).Scan(&c.ID, &c.CheckedOutOn)
	return mapError(err)
}

func (r *checkoutRepository) GetByID(ctx context.Context, id int32) (*domain.Checkout, error) {
	query := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *checkoutRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Checkout, error) {
	query := `SELECT ` + checkoutColumns + ` FROM checkouts WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *checkoutRepository) MarkReturned(ctx context.Context, id int32, returnedQuantity int32, condition domain.ItemCondition, at time.Time) error {
	// The IS NULL guard keeps a second check-in from silently overwriting the
	// first even if the caller raced past the service-level check.
	query := `UPDATE checkouts SET checked_in_on = $1, returned_quantity = $2, return_condition = $3
	          WHERE id = $4 AND checked_in_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, at, returnedQuantity, condition, id)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrAlreadyReturned
	}
	return nil
}

func (r *checkoutRepository) OutstandingQuantity(ctx context.Context, itemID int32) (int32, error) {
	var sum int32
	query := `SELECT COALESCE(SUM(quantity), 0) FROM checkouts WHERE item_id = $1 AND checked_in_on IS NULL`
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(&sum)
	return sum, mapError(err)
}

func (r *checkoutRepository) ListOutstandingByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	where := `FROM checkouts WHERE item_id = $1 AND checked_in_on IS NULL`
	return r.list(ctx, where, []interface{}{itemID}, page, pageSize)
}

func (r *checkoutRepository) ListOutstandingByBorrower(ctx context.Context, borrowerID int32, page, pageSize int32) ([]domain.Checkout, int32, error) {
	where := `FROM checkouts WHERE borrower_id = $1 AND checked_in_on IS NULL`
	return r.list(ctx, where, []interface{}{borrowerID}, page, pageSize)
}

func (r *checkoutRepository) ListOverdue(ctx context.Context, asOf time.Time, page, pageSize int32) ([]domain.Checkout, int32, error) {
	// Overdue is derived, never stored: the clock comparison happens here at
	// read time against due_on.
	where := `FROM checkouts WHERE checked_in_on IS NULL AND due_on < $1`
	return r.list(ctx, where, []interface{}{asOf}, page, pageSize)
}

func (r *checkoutRepository) list(ctx context.Context, where string, args []interface{}, page, pageSize int32) ([]domain.Checkout, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) `+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + checkoutColumns + ` ` + where + ` ORDER BY due_on, id LIMIT $2 OFFSET $3`
	args = append(args, pageSize, offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var checkouts []domain.Checkout
	for rows.Next() {
		var c domain.Checkout
		if err := rows.Scan(
			&c.ID, &c.ItemID, &c.BorrowerID, &c.Quantity, &c.Purpose,
			&c.CheckedOutOn, &c.DueOn, &c.CheckedInOn, &c.ReturnedQuantity, &c.ReturnCondition,
		); err != nil {
			return nil, 0, mapError(err)
		}
		checkouts = append(checkouts, c)
	}
	return checkouts, count, mapError(rows.Err())
}

func (r *checkoutRepository) scanOne(row *sql.Row) (*domain.Checkout, error) {
	c := &domain.Checkout{}
	err := row.Scan(
		&c.ID, &c.ItemID, &c.BorrowerID, &c.Quantity, &c.Purpose,
		&c.CheckedOutOn, &c.DueOn, &c.CheckedInOn, &c.ReturnedQuantity, &c.ReturnCondition,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}
