package postgres

import (
	"context"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

type ministryRepository struct {
	db DBTX
}

func NewMinistryRepository(db DBTX) repository.MinistryRepository {
	return &ministryRepository{db: db}
}

func (r *ministryRepository) Create(ctx context.Context, m *domain.MinistryArea) error {
	query := `INSERT INTO ministry_areas (name, description, location, leader_email, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $5) RETURNING id, created_on, updated_on`
	err := r.db.QueryRowContext(ctx, query,
		m.Name, m.Description, m.Location, m.LeaderEmail, time.Now(),
	).Scan(&m.ID, &m.CreatedOn, &m.UpdatedOn)
	return mapError(err)
}

func (r *ministryRepository) GetByID(ctx context.Context, id int32) (*domain.MinistryArea, error) {
	m := &domain.MinistryArea{}
	query := `SELECT id, name, description, location, leader_email, created_on, updated_on
	          FROM ministry_areas WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Description, &m.Location, &m.LeaderEmail, &m.CreatedOn, &m.UpdatedOn,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *ministryRepository) List(ctx context.Context) ([]domain.MinistryArea, error) {
	query := `SELECT id, name, description, location, leader_email, created_on, updated_on
	          FROM ministry_areas ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ministries []domain.MinistryArea
	for rows.Next() {
		var m domain.MinistryArea
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Location, &m.LeaderEmail, &m.CreatedOn, &m.UpdatedOn); err != nil {
			return nil, mapError(err)
		}
		ministries = append(ministries, m)
	}
	return ministries, mapError(rows.Err())
}

func (r *ministryRepository) Update(ctx context.Context, m *domain.MinistryArea) error {
	query := `UPDATE ministry_areas SET name = $1, description = $2, location = $3, leader_email = $4, updated_on = $5
	          WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, m.Name, m.Description, m.Location, m.LeaderEmail, time.Now(), m.ID)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
