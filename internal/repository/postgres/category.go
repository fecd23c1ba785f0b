package postgres

import (
	"context"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

type categoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (name, description, parent_id, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $4) RETURNING id, created_on, updated_on`
	err := r.db.QueryRowContext(ctx, query,
		c.Name, c.Description, c.ParentID, time.Now(),
	).Scan(&c.ID, &c.CreatedOn, &c.UpdatedOn)
	return mapError(err)
}

func (r *categoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	c := &domain.Category{}
	query := `SELECT id, name, description, parent_id, created_on, updated_on FROM categories WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.ParentID, &c.CreatedOn, &c.UpdatedOn,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, description, parent_id, created_on, updated_on FROM categories ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ParentID, &c.CreatedOn, &c.UpdatedOn); err != nil {
			return nil, mapError(err)
		}
		categories = append(categories, c)
	}
	return categories, mapError(rows.Err())
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories SET name = $1, description = $2, parent_id = $3, updated_on = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Description, c.ParentID, time.Now(), c.ID)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
