package postgres

import (
	"context"
	"database/sql"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

type itemRepository struct {
	db DBTX
}

func NewItemRepository(db DBTX) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, name, description, category_id, ministry_area_id, quantity, min_quantity,
	unit_value, condition, location, barcode, acquisition_date, created_on, updated_on, deactivated_on`

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `INSERT INTO items (name, description, category_id, ministry_area_id, quantity, min_quantity,
	            unit_value, condition, location, barcode, acquisition_date, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12) RETURNING id, created_on, updated_on`
	err := r.db.QueryRowContext(ctx, query,
		item.Name, item.Description, item.CategoryID, item.MinistryAreaID, item.Quantity, item.MinQuantity,
		item.UnitValue, item.Condition, item.Location, item.Barcode, item.AcquisitionDate, time.Now(),
	).Scan(&item.ID, &item.CreatedOn, &item.UpdatedOn)
	return mapError(err)
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *itemRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *itemRepository) GetSibling(ctx context.Context, ref *domain.Item, ministryID int32) (*domain.Item, error) {
	var query string
	var key interface{}
	if ref.Barcode != "" {
		query = `SELECT ` + itemColumns + ` FROM items WHERE ministry_area_id = $1 AND barcode = $2 AND deactivated_on IS NULL`
		key = ref.Barcode
	} else {
		query = `SELECT ` + itemColumns + ` FROM items WHERE ministry_area_id = $1 AND name = $2 AND deactivated_on IS NULL`
		key = ref.Name
	}
	return r.scanOne(r.db.QueryRowContext(ctx, query, ministryID, key))
}

func (r *itemRepository) UpdateQuantity(ctx context.Context, id, quantity int32) error {
	query := `UPDATE items SET quantity = $1, updated_on = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, quantity, time.Now(), id)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepository) UpdateMetadata(ctx context.Context, item *domain.Item) error {
	// Quantity is deliberately absent: it only moves through the ledger path.
	query := `UPDATE items SET name = $1, description = $2, category_id = $3, min_quantity = $4,
	            unit_value = $5, condition = $6, location = $7, barcode = $8, acquisition_date = $9, updated_on = $10
	          WHERE id = $11`
	res, err := r.db.ExecContext(ctx, query,
		item.Name, item.Description, item.CategoryID, item.MinQuantity,
		item.UnitValue, item.Condition, item.Location, item.Barcode, item.AcquisitionDate, time.Now(),
		item.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepository) Deactivate(ctx context.Context, id int32, at time.Time) error {
	query := `UPDATE items SET deactivated_on = $1, updated_on = $1 WHERE id = $2 AND deactivated_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *itemRepository) ListByMinistry(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	where := `FROM items WHERE ministry_area_id = $1 AND deactivated_on IS NULL`
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) `+where, ministryID).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + itemColumns + ` ` + where + ` ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ministryID, pageSize, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	items, err := r.scanMany(rows)
	return items, count, err
}

func (r *itemRepository) ListLowStock(ctx context.Context, ministryID int32, page, pageSize int32) ([]domain.Item, int32, error) {
	where := `FROM items WHERE quantity < min_quantity AND deactivated_on IS NULL`
	args := []interface{}{}
	if ministryID > 0 {
		where += ` AND ministry_area_id = $1`
		args = append(args, ministryID)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) `+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + itemColumns + ` ` + where + ` ORDER BY ministry_area_id, name`
	if ministryID > 0 {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	items, err := r.scanMany(rows)
	return items, count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *itemRepository) scanOne(row rowScanner) (*domain.Item, error) {
	item := &domain.Item{}
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.CategoryID, &item.MinistryAreaID,
		&item.Quantity, &item.MinQuantity, &item.UnitValue, &item.Condition, &item.Location,
		&item.Barcode, &item.AcquisitionDate, &item.CreatedOn, &item.UpdatedOn, &item.DeactivatedOn,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

func (r *itemRepository) scanMany(rows *sql.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.CategoryID, &item.MinistryAreaID,
			&item.Quantity, &item.MinQuantity, &item.UnitValue, &item.Condition, &item.Location,
			&item.Barcode, &item.AcquisitionDate, &item.CreatedOn, &item.UpdatedOn, &item.DeactivatedOn,
		); err != nil {
			return nil, mapError(err)
		}
		items = append(items, item)
	}
	return items, mapError(rows.Err())
}
