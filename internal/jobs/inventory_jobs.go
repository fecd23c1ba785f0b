package jobs

import (
	"context"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/logger"
)

// SendLowStockAlerts emails each ministry leader a digest of their items
// sitting below the reorder threshold.
func (jr *JobRunner) SendLowStockAlerts() {
	jr.runWithRecovery("SendLowStockAlerts", func() {
		ctx := context.Background()

		query := `
			SELECT i.id, i.name, i.quantity, i.min_quantity, i.ministry_area_id,
			       m.name AS ministry_name, m.leader_email
			FROM items i
			JOIN ministry_areas m ON i.ministry_area_id = m.id
			WHERE i.deactivated_on IS NULL
			  AND i.quantity < i.min_quantity
			ORDER BY i.ministry_area_id, i.name
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to query low-stock items", "error", err)
			return
		}
		defer rows.Close()

		type digest struct {
			ministryName string
			leaderEmail  string
			items        []domain.Item
		}
		digests := make(map[int32]*digest)
		order := []int32{}

		for rows.Next() {
			var (
				item         domain.Item
				ministryName string
				leaderEmail  string
			)
			if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.MinQuantity,
				&item.MinistryAreaID, &ministryName, &leaderEmail); err != nil {
				logger.Error("Failed to scan low-stock item", "error", err)
				continue
			}
			d, ok := digests[item.MinistryAreaID]
			if !ok {
				d = &digest{ministryName: ministryName, leaderEmail: leaderEmail}
				digests[item.MinistryAreaID] = d
				order = append(order, item.MinistryAreaID)
			}
			d.items = append(d.items, item)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating low-stock items", "error", err)
			return
		}

		sent := 0
		for _, ministryID := range order {
			d := digests[ministryID]
			if d.leaderEmail == "" {
				logger.Warn("Ministry has no leader email, skipping low-stock alert",
					"ministry_id", ministryID,
					"ministry", d.ministryName,
					"items", len(d.items))
				continue
			}
			if err := jr.services.Email.SendLowStockAlert(ctx, d.leaderEmail, d.ministryName, d.items); err != nil {
				logger.Error("Failed to send low-stock alert",
					"ministry_id", ministryID,
					"email", d.leaderEmail,
					"error", err)
				continue
			}
			sent++
			logger.Debug("Sent low-stock alert",
				"ministry_id", ministryID,
				"ministry", d.ministryName,
				"items", len(d.items))
		}

		logger.Info("Low-stock alerts sent", "ministries", sent)
	})
}
