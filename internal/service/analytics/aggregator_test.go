package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"promo-service/internal/domain/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	promos     *analytics.PromotionSummary
	affiliates *analytics.AffiliateSummary
	subs       *analytics.SubscriptionSummary

	promosErr     error
	affiliatesErr error
	subsErr       error
}

func (s *stubProvider) Promotions(context.Context) (*analytics.PromotionSummary, error) {
	return s.promos, s.promosErr
}

func (s *stubProvider) Affiliates(context.Context) (*analytics.AffiliateSummary, error) {
	return s.affiliates, s.affiliatesErr
}

func (s *stubProvider) Subscriptions(context.Context) (*analytics.SubscriptionSummary, error) {
	return s.subs, s.subsErr
}

type fixedClock struct {
	now time.Time
}

func (f *fixedClock) Now() time.Time { return f.now }

func fullProvider() *stubProvider {
	return &stubProvider{
		promos: &analytics.PromotionSummary{
			TotalRevenue:     5000,
			TotalCost:        800,
			TotalConversions: 40,
		},
		affiliates: &analytics.AffiliateSummary{
			TotalCommission: 1200,
			TotalReferrals:  30,
		},
		subs: &analytics.SubscriptionSummary{
			MRR:                      10000,
			PreviousMRR:              8000,
			ActiveSubscriptions:      100,
			NewSubscriptions:         12,
			AvgSubscriptionLengthMon: 18,
			TotalCost:                2000,
		},
	}
}

func TestSnapshotBlendsChannels(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	agg := NewAggregator(fullProvider(), nil, clock, zap.NewNop())

	snap, err := agg.Snapshot(context.Background())
	require.NoError(t, err)

	// revenue: 5000 promo + 1200 commission + 10000 MRR
	assert.Equal(t, 16200.0, snap.TotalRevenue)
	// cost: 800 promo + 1200 commission + 2000 subscription
	assert.Equal(t, 4000.0, snap.TotalCost)
	// conversions: 40 promo + 30 referrals + 100 active subs
	assert.Equal(t, int64(170), snap.TotalConversions)

	assert.Equal(t, 16200.0/4000.0, snap.ROI)
	assert.Equal(t, 4000.0/170.0, snap.CAC)
	assert.Equal(t, (10000.0/100.0)*18, snap.LTV)
	assert.Equal(t, 25.0, snap.MonthlyGrowthPercent)
	assert.Equal(t, clock.now, snap.GeneratedAt)
}

func TestSnapshotDegradesMissingChannel(t *testing.T) {
	provider := fullProvider()
	provider.subs = nil
	provider.subsErr = errors.New("subscriptions store down")

	agg := NewAggregator(provider, nil, nil, zap.NewNop())

	snap, err := agg.Snapshot(context.Background())
	require.NoError(t, err)

	// Subscription channel collapsed to zero; remaining channels intact.
	assert.Equal(t, 6200.0, snap.TotalRevenue)
	assert.Equal(t, 2000.0, snap.TotalCost)
	assert.Equal(t, int64(70), snap.TotalConversions)
	assert.Equal(t, 0.0, snap.LTV)
	assert.Equal(t, 0.0, snap.MonthlyGrowthPercent)
}

func TestSnapshotAllChannelsDown(t *testing.T) {
	provider := &stubProvider{
		promosErr:     errors.New("down"),
		affiliatesErr: errors.New("down"),
		subsErr:       errors.New("down"),
	}
	agg := NewAggregator(provider, nil, nil, zap.NewNop())

	snap, err := agg.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Zero(t, snap.TotalRevenue)
	assert.Zero(t, snap.ROI)
	assert.Zero(t, snap.CAC)
	assert.Zero(t, snap.LTV)
}
