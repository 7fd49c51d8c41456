// internal/service/analytics/aggregator.go
package analytics

import (
	"context"

	"promo-service/internal/domain/analytics"
	campaignsvc "promo-service/internal/service/campaign"

	"go.uber.org/zap"
)

// SummaryProvider supplies the per-channel totals the aggregator blends.
// A provider error degrades that channel to all-zero; it never fails the
// snapshot.
type SummaryProvider interface {
	Promotions(ctx context.Context) (*analytics.PromotionSummary, error)
	Affiliates(ctx context.Context) (*analytics.AffiliateSummary, error)
	Subscriptions(ctx context.Context) (*analytics.SubscriptionSummary, error)
}

type Aggregator struct {
	provider SummaryProvider
	cache    *SnapshotCache
	clock    campaignsvc.Clock
	logger   *zap.Logger
}

func NewAggregator(provider SummaryProvider, cache *SnapshotCache, clock campaignsvc.Clock, logger *zap.Logger) *Aggregator {
	if clock == nil {
		clock = campaignsvc.SystemClock()
	}
	return &Aggregator{
		provider: provider,
		cache:    cache,
		clock:    clock,
		logger:   logger,
	}
}

// Snapshot blends the three revenue channels into the overview numbers.
// Metrics are reporting data: a cached, slightly stale snapshot is fine.
func (a *Aggregator) Snapshot(ctx context.Context) (*analytics.MetricsSnapshot, error) {
	if a.cache != nil {
		if snap, ok := a.cache.Get(ctx); ok {
			return snap, nil
		}
	}

	promos := a.promotions(ctx)
	affiliates := a.affiliates(ctx)
	subs := a.subscriptions(ctx)

	totalRevenue := promos.TotalRevenue + affiliates.TotalCommission + subs.MRR
	totalConversions := promos.TotalConversions + affiliates.TotalReferrals + subs.ActiveSubscriptions
	// Affiliate commission counts as both revenue-equivalent and cost: it is
	// the price paid for the referral.
	totalCost := promos.TotalCost + affiliates.TotalCommission + subs.TotalCost

	snap := &analytics.MetricsSnapshot{
		TotalRevenue:         totalRevenue,
		TotalCost:            totalCost,
		TotalConversions:     totalConversions,
		ROI:                  ROI(totalRevenue, totalCost),
		CAC:                  CAC(totalCost, totalConversions),
		LTV:                  LTV(subs.MRR, subs.ActiveSubscriptions, subs.AvgSubscriptionLengthMon),
		MonthlyGrowthPercent: GrowthPercent(subs.MRR, subs.PreviousMRR),
		GeneratedAt:          a.clock.Now(),
	}

	if a.cache != nil {
		a.cache.Set(ctx, snap)
	}
	return snap, nil
}

func (a *Aggregator) promotions(ctx context.Context) *analytics.PromotionSummary {
	s, err := a.provider.Promotions(ctx)
	if err != nil || s == nil {
		if err != nil {
			a.logger.Warn("promotions summary unavailable, reporting zero", zap.Error(err))
		}
		return &analytics.PromotionSummary{}
	}
	return s
}

func (a *Aggregator) affiliates(ctx context.Context) *analytics.AffiliateSummary {
	s, err := a.provider.Affiliates(ctx)
	if err != nil || s == nil {
		if err != nil {
			a.logger.Warn("affiliates summary unavailable, reporting zero", zap.Error(err))
		}
		return &analytics.AffiliateSummary{}
	}
	return s
}

func (a *Aggregator) subscriptions(ctx context.Context) *analytics.SubscriptionSummary {
	s, err := a.provider.Subscriptions(ctx)
	if err != nil || s == nil {
		if err != nil {
			a.logger.Warn("subscriptions summary unavailable, reporting zero", zap.Error(err))
		}
		return &analytics.SubscriptionSummary{}
	}
	return s
}
