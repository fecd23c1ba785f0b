package postgres

import (
	"context"
	"encoding/json"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, note *domain.Notification) error {
	attrs, err := json.Marshal(note.Attributes)
	if err != nil {
		return err
	}
	query := `INSERT INTO notifications (user_id, title, message, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, false, $4, $5) RETURNING id, created_on`
	err = r.db.QueryRowContext(ctx, query,
		note.UserID, note.Title, note.Message, attrs, time.Now(),
	).Scan(&note.ID, &note.CreatedOn)
	return mapError(err)
}

func (r *notificationRepository) List(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, user_id, title, message, is_read, attributes, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var note domain.Notification
		var attrs []byte
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Message, &note.IsRead, &attrs, &note.CreatedOn); err != nil {
			return nil, 0, mapError(err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &note.Attributes); err != nil {
				return nil, 0, err
			}
		}
		notes = append(notes, note)
	}
	return notes, count, mapError(rows.Err())
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
