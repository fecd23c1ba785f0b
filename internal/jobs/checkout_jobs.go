package jobs

import (
	"context"
	"fmt"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/logger"
)

// SendOverdueReminders notifies about checkouts past their due date. Overdue
// is evaluated against the due date at run time; nothing is written back to
// the checkout rows.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		query := `
			SELECT c.id, c.item_id, c.borrower_id, c.quantity, c.checked_out_on, c.due_on,
			       i.name AS item_name,
			       m.name AS ministry_name, m.leader_email
			FROM checkouts c
			JOIN items i ON c.item_id = i.id
			JOIN ministry_areas m ON i.ministry_area_id = m.id
			WHERE c.checked_in_on IS NULL
			  AND c.due_on < $1
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to query overdue checkouts", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				checkout     domain.Checkout
				itemName     string
				ministryName string
				leaderEmail  string
			)
			if err := rows.Scan(&checkout.ID, &checkout.ItemID, &checkout.BorrowerID, &checkout.Quantity,
				&checkout.CheckedOutOn, &checkout.DueOn, &itemName, &ministryName, &leaderEmail); err != nil {
				logger.Error("Failed to scan overdue checkout", "error", err)
				continue
			}

			if leaderEmail != "" {
				if err := jr.services.Email.SendOverdueReminder(ctx, leaderEmail, itemName, &checkout); err != nil {
					logger.Error("Failed to send overdue reminder email",
						"checkout_id", checkout.ID,
						"item_id", checkout.ItemID,
						"email", leaderEmail,
						"error", err)
				}
			}

			note := &domain.Notification{
				UserID: checkout.BorrowerID,
				Title:  "Overdue checkout",
				Message: fmt.Sprintf("%d unit(s) of %s were due back on %s. Please return them.",
					checkout.Quantity, itemName, checkout.DueOn.Format(time.DateOnly)),
				Attributes: map[string]string{
					"checkout_id": fmt.Sprintf("%d", checkout.ID),
					"item_id":     fmt.Sprintf("%d", checkout.ItemID),
				},
			}
			if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
				logger.Error("Failed to create overdue notification",
					"checkout_id", checkout.ID,
					"borrower_id", checkout.BorrowerID,
					"error", err)
				continue
			}

			count++
			logger.Debug("Sent overdue reminder",
				"checkout_id", checkout.ID,
				"borrower_id", checkout.BorrowerID,
				"ministry", ministryName)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue checkouts", "error", err)
			return
		}

		logger.Info("Overdue reminders sent", "count", count)
	})
}
