package postgres

import (
	"context"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

// transactionRepository only ever inserts and reads. There is no UPDATE or
// DELETE for inventory_transactions anywhere in this codebase: corrections
// are new ADJUSTMENT records.
type transactionRepository struct {
	db DBTX
}

func NewTransactionRepository(db DBTX) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, item_id, type, quantity, previous_quantity, new_quantity,
	from_ministry_id, to_ministry_id, COALESCE(transfer_group, ''), reason, conducted_by, created_on`

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	var group interface{}
	if tx.TransferGroup != "" {
		group = tx.TransferGroup
	}
	query := `INSERT INTO inventory_transactions (item_id, type, quantity, previous_quantity, new_quantity,
	            from_ministry_id, to_ministry_id, transfer_group, reason, conducted_by, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id, created_on`
	err := r.db.QueryRowContext(ctx, query,
		tx.ItemID, tx.Type, tx.Quantity, tx.PreviousQuantity, tx.NewQuantity,
		tx.FromMinistryID, tx.ToMinistryID, group, tx.Reason, tx.ConductedBy, time.Now(),
	).Scan(&tx.ID, &tx.CreatedOn)
	return mapError(err)
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	tx := &domain.Transaction{}
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tx.ID, &tx.ItemID, &tx.Type, &tx.Quantity, &tx.PreviousQuantity, &tx.NewQuantity,
		&tx.FromMinistryID, &tx.ToMinistryID, &tx.TransferGroup, &tx.Reason, &tx.ConductedBy, &tx.CreatedOn,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return tx, nil
}

func (r *transactionRepository) ListByItem(ctx context.Context, itemID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM inventory_transactions WHERE item_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, itemID).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions
	          WHERE item_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, itemID, pageSize, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.ItemID, &tx.Type, &tx.Quantity, &tx.PreviousQuantity, &tx.NewQuantity,
			&tx.FromMinistryID, &tx.ToMinistryID, &tx.TransferGroup, &tx.Reason, &tx.ConductedBy, &tx.CreatedOn,
		); err != nil {
			return nil, 0, mapError(err)
		}
		txs = append(txs, tx)
	}
	return txs, count, mapError(rows.Err())
}

func (r *transactionRepository) SumDeltas(ctx context.Context, itemID int32) (int32, error) {
	var sum int32
	query := `SELECT COALESCE(SUM(quantity), 0) FROM inventory_transactions WHERE item_id = $1`
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(&sum)
	return sum, mapError(err)
}
