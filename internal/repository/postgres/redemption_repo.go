// internal/repository/postgres/redemption_repo.go
package postgres

import (
	"context"
	"fmt"

	"promo-service/internal/domain/campaign"
	xerrors "promo-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type RedemptionRepository struct {
	db *DB
}

func NewRedemptionRepository(db *DB) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

// Apply records a redemption atomically: the campaign counters and the
// event insert commit together or not at all. The counter update is
// conditional on the usage limit, so a racer that lost the last slot gets
// ErrUsageLimitReached and no partial state.
func (r *RedemptionRepository) Apply(ctx context.Context, ev *campaign.RedemptionEvent) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		update := `
			UPDATE campaigns
			SET usage_count = usage_count + 1,
			    conversions = conversions + 1,
			    revenue = revenue + $1,
			    cost = cost + $2,
			    updated_at = $3
			WHERE id = $4
			  AND NOT removed
			  AND (usage_limit IS NULL OR usage_count < usage_limit)
		`

		result, err := tx.Exec(ctx, update,
			ev.OrderAmount, ev.DiscountApplied, ev.RedeemedAt, ev.CampaignID)
		if err != nil {
			return fmt.Errorf("failed to update campaign counters: %w", err)
		}

		if result.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM campaigns WHERE id = $1 AND NOT removed)`,
				ev.CampaignID,
			).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check campaign: %w", err)
			}
			if !exists {
				return xerrors.ErrNotFound
			}
			return xerrors.ErrUsageLimitReached
		}

		insert := `
			INSERT INTO redemption_events (
				reference, campaign_id, order_amount, discount_applied,
				days_granted, redeemed_at
			) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`

		err = tx.QueryRow(ctx, insert,
			ev.Reference, ev.CampaignID, ev.OrderAmount, ev.DiscountApplied,
			ev.DaysGranted, ev.RedeemedAt,
		).Scan(&ev.ID, &ev.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert redemption event: %w", err)
		}

		return nil
	})
}

// ListByCampaign retrieves the redemption history for a campaign,
// newest first.
func (r *RedemptionRepository) ListByCampaign(ctx context.Context, campaignID int64, filters *campaign.RedemptionListFilters) ([]campaign.RedemptionEvent, int64, error) {
	countQuery := `SELECT COUNT(*) FROM redemption_events WHERE campaign_id = $1`
	var total int64
	if err := r.db.Pool().QueryRow(ctx, countQuery, campaignID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count redemptions: %w", err)
	}

	offset := (filters.Page - 1) * filters.PageSize

	query := `
		SELECT id, reference, campaign_id, order_amount, discount_applied,
		       days_granted, redeemed_at, created_at
		FROM redemption_events
		WHERE campaign_id = $1
		ORDER BY redeemed_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Pool().Query(ctx, query, campaignID, filters.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list redemptions: %w", err)
	}
	defer rows.Close()

	events := []campaign.RedemptionEvent{}
	for rows.Next() {
		var ev campaign.RedemptionEvent
		err := rows.Scan(
			&ev.ID, &ev.Reference, &ev.CampaignID, &ev.OrderAmount, &ev.DiscountApplied,
			&ev.DaysGranted, &ev.RedeemedAt, &ev.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan redemption: %w", err)
		}
		events = append(events, ev)
	}

	return events, total, nil
}
