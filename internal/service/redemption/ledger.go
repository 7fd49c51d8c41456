// internal/service/redemption/ledger.go
package redemption

import (
	"context"
	"fmt"
	"sync"

	"promo-service/internal/domain/campaign"
	"promo-service/internal/metrics"
	xerrors "promo-service/internal/pkg/errors"
	campaignsvc "promo-service/internal/service/campaign"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// CampaignStore is the slice of campaign persistence the ledger needs.
type CampaignStore interface {
	FindByID(ctx context.Context, id int64) (*campaign.Campaign, error)
	UpdateStatus(ctx context.Context, id int64, status campaign.CampaignStatus) error
}

// EventStore records redemption events. Apply must atomically increment the
// campaign's counters and insert the event, failing with ErrUsageLimitReached
// when the usage limit would be exceeded.
type EventStore interface {
	Apply(ctx context.Context, ev *campaign.RedemptionEvent) error
	ListByCampaign(ctx context.Context, campaignID int64, filters *campaign.RedemptionListFilters) ([]campaign.RedemptionEvent, int64, error)
}

// Events receives redemption notifications for the dashboard feed.
type Events interface {
	Publish(event string, payload interface{})
}

type Ledger struct {
	campaigns CampaignStore
	events    EventStore
	clock     campaignsvc.Clock
	feed      Events
	metrics   *metrics.Metrics
	logger    *zap.Logger

	// One mutex per campaign serializes check-then-increment; the store's
	// conditional update backstops it across processes.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewLedger(campaigns CampaignStore, events EventStore, clock campaignsvc.Clock, feed Events, m *metrics.Metrics, logger *zap.Logger) *Ledger {
	if clock == nil {
		clock = campaignsvc.SystemClock()
	}
	return &Ledger{
		campaigns: campaigns,
		events:    events,
		clock:     clock,
		feed:      feed,
		metrics:   m,
		logger:    logger,
		locks:     make(map[int64]*sync.Mutex),
	}
}

func (l *Ledger) lockFor(campaignID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[campaignID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[campaignID] = lock
	}
	return lock
}

// Redeem applies a campaign's code to an order. With one slot left, two
// concurrent calls yield exactly one success and one ErrUsageLimitReached.
func (l *Ledger) Redeem(ctx context.Context, campaignID int64, orderAmount float64) (*campaign.RedemptionEvent, error) {
	if orderAmount < 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "order amount cannot be negative")
	}

	lock := l.lockFor(campaignID)
	lock.Lock()
	defer lock.Unlock()

	c, err := l.campaigns.FindByID(ctx, campaignID)
	if err != nil {
		l.recordFailure("not_found")
		return nil, err
	}

	now := l.clock.Now()
	if !c.HasUsageLeft() {
		// An exhausted limit expires the campaign, but the caller gets the
		// more specific error.
		l.expireOneWay(ctx, c)
		l.recordFailure("usage_limit")
		return nil, xerrors.ErrUsageLimitReached
	}
	if c.EvaluateExpiry(now) == campaign.CampaignStatusExpired {
		l.expireOneWay(ctx, c)
		l.recordFailure("expired")
		return nil, xerrors.ErrCampaignExpired
	}
	if c.Status != campaign.CampaignStatusActive {
		l.recordFailure("not_active")
		return nil, xerrors.ErrCampaignNotActive
	}

	discount, days := campaignsvc.CalculateDiscount(c, orderAmount)
	ev := &campaign.RedemptionEvent{
		Reference:       ulid.Make().String(),
		CampaignID:      campaignID,
		OrderAmount:     orderAmount,
		DiscountApplied: discount,
		DaysGranted:     days,
		RedeemedAt:      now,
	}

	// Counter increments and the event insert are a single atomic unit in
	// the store; a lost race surfaces as ErrUsageLimitReached.
	if err := l.events.Apply(ctx, ev); err != nil {
		if xerrors.Is(err, xerrors.ErrUsageLimitReached) {
			l.recordFailure("usage_limit")
			return nil, xerrors.ErrUsageLimitReached
		}
		l.logger.Error("failed to record redemption",
			zap.Int64("campaign_id", campaignID), zap.Error(err))
		return nil, fmt.Errorf("failed to record redemption: %w", err)
	}

	// The recorded use may have exhausted the limit; expire one-way.
	if c2, err := l.campaigns.FindByID(ctx, campaignID); err == nil {
		if c2.EvaluateExpiry(now) == campaign.CampaignStatusExpired {
			l.expireOneWay(ctx, c2)
		}
	}

	l.logger.Info("redemption recorded",
		zap.String("reference", ev.Reference),
		zap.Int64("campaign_id", campaignID),
		zap.Float64("order_amount", orderAmount),
		zap.Float64("discount", discount),
	)
	if l.metrics != nil {
		l.metrics.RecordRedemption(c.Code, discount)
	}
	if l.feed != nil {
		l.feed.Publish("redemption.recorded", ev)
	}

	return ev, nil
}

// ListRedemptions returns the event history for a campaign, newest first.
func (l *Ledger) ListRedemptions(ctx context.Context, campaignID int64, filters *campaign.RedemptionListFilters) (*campaign.RedemptionListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}

	events, total, err := l.events.ListByCampaign(ctx, campaignID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}

	return &campaign.RedemptionListResponse{
		Redemptions: events,
		Total:       total,
		Page:        filters.Page,
		PageSize:    filters.PageSize,
	}, nil
}

func (l *Ledger) expireOneWay(ctx context.Context, c *campaign.Campaign) {
	if c.Status == campaign.CampaignStatusExpired {
		return
	}
	if err := l.campaigns.UpdateStatus(ctx, c.ID, campaign.CampaignStatusExpired); err != nil {
		l.logger.Error("failed to persist campaign expiry",
			zap.Int64("campaign_id", c.ID), zap.Error(err))
		return
	}
	if l.feed != nil {
		l.feed.Publish("campaign.expired", c)
	}
}

func (l *Ledger) recordFailure(reason string) {
	if l.metrics != nil {
		l.metrics.RecordRedemptionFailure(reason)
	}
}
