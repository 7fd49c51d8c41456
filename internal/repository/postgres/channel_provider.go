// internal/repository/postgres/channel_provider.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"promo-service/internal/domain/analytics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChannelProvider supplies per-channel revenue summaries. Promotion totals
// come from the redemption event history, so removed campaigns keep
// contributing to closed reporting periods. Affiliate and subscription
// totals are written by external collaborators and read here as-is.
type ChannelProvider struct {
	db *pgxpool.Pool
}

func NewChannelProvider(db *pgxpool.Pool) *ChannelProvider {
	return &ChannelProvider{db: db}
}

func (p *ChannelProvider) Promotions(ctx context.Context) (*analytics.PromotionSummary, error) {
	query := `
		SELECT COALESCE(SUM(order_amount), 0),
		       COALESCE(SUM(discount_applied), 0),
		       COUNT(*)
		FROM redemption_events
	`

	var s analytics.PromotionSummary
	err := p.db.QueryRow(ctx, query).Scan(&s.TotalRevenue, &s.TotalCost, &s.TotalConversions)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize promotions: %w", err)
	}

	return &s, nil
}

func (p *ChannelProvider) Affiliates(ctx context.Context) (*analytics.AffiliateSummary, error) {
	query := `
		SELECT total_commission, total_referrals
		FROM affiliate_stats
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var s analytics.AffiliateSummary
	err := p.db.QueryRow(ctx, query).Scan(&s.TotalCommission, &s.TotalReferrals)
	if errors.Is(err, pgx.ErrNoRows) {
		// No affiliate data yet: the channel contributes zero.
		return &analytics.AffiliateSummary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read affiliate summary: %w", err)
	}

	return &s, nil
}

func (p *ChannelProvider) Subscriptions(ctx context.Context) (*analytics.SubscriptionSummary, error) {
	query := `
		SELECT mrr, previous_mrr, active_subscriptions, new_subscriptions,
		       avg_subscription_length_months, total_cost
		FROM subscription_stats
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var s analytics.SubscriptionSummary
	err := p.db.QueryRow(ctx, query).Scan(
		&s.MRR, &s.PreviousMRR, &s.ActiveSubscriptions, &s.NewSubscriptions,
		&s.AvgSubscriptionLengthMon, &s.TotalCost,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return &analytics.SubscriptionSummary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read subscription summary: %w", err)
	}

	return &s, nil
}
