// internal/service/campaign/campaign.go
package campaign

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"promo-service/internal/domain/campaign"
	xerrors "promo-service/internal/pkg/errors"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Store is the campaign persistence contract consumed by the lifecycle
// service. Implemented by the postgres repository and by the in-memory
// store used in tests.
type Store interface {
	Create(ctx context.Context, c *campaign.Campaign) error
	FindByID(ctx context.Context, id int64) (*campaign.Campaign, error)
	FindByCode(ctx context.Context, code string) (*campaign.Campaign, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status campaign.CampaignStatus) error
	MarkRemoved(ctx context.Context, id int64) error
	List(ctx context.Context, filters *campaign.ListFilters) ([]campaign.Campaign, int64, error)
	ListExpiryCandidates(ctx context.Context, now time.Time) ([]campaign.Campaign, error)
}

// Events receives lifecycle notifications for the dashboard feed.
type Events interface {
	Publish(event string, payload interface{})
}

type CampaignService struct {
	store  Store
	clock  Clock
	events Events
	logger *zap.Logger
}

func NewCampaignService(store Store, clock Clock, events Events, logger *zap.Logger) *CampaignService {
	if clock == nil {
		clock = SystemClock()
	}
	return &CampaignService{
		store:  store,
		clock:  clock,
		events: events,
		logger: logger,
	}
}

// ========== Admin Operations ==========

// CreateCampaign creates a new promotional campaign (admin only).
// All invariant violations are reported together in one ValidationError.
func (s *CampaignService) CreateCampaign(ctx context.Context, req *campaign.CreateCampaignRequest) (*campaign.Campaign, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	ve := &xerrors.ValidationError{}
	validateCodeInto(ve, code)
	validateDiscountInto(ve, req.DiscountType, req.DiscountValue)

	if req.Name == "" {
		ve.Add("name", "name is required")
	}
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		ve.Add("end_date", "end date must be strictly after start date")
	}
	if req.UsageLimit != nil && *req.UsageLimit < 1 {
		ve.Add("usage_limit", "usage limit must be at least 1")
	}
	switch req.Status {
	case campaign.CampaignStatusActive, campaign.CampaignStatusScheduled, campaign.CampaignStatusPaused:
	default:
		ve.Add("status", "status must be one of active, scheduled, paused")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	// Uniqueness is a store-level check, deliberately outside the pure validator.
	exists, err := s.store.ExistsByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to check code: %w", err)
	}
	if exists {
		ve.Add("code", fmt.Sprintf("code '%s' already exists", code))
		return nil, ve
	}

	c := &campaign.Campaign{
		Name:          req.Name,
		Description:   sql.NullString{String: req.Description, Valid: req.Description != ""},
		Code:          code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		StartDate:     req.StartDate,
		Status:        req.Status,
		Tags:          pq.StringArray(req.Tags),
	}
	if req.EndDate != nil {
		c.EndDate = sql.NullTime{Time: *req.EndDate, Valid: true}
	}
	if req.UsageLimit != nil {
		c.UsageLimit = sql.NullInt32{Int32: *req.UsageLimit, Valid: true}
	}

	if err := s.store.Create(ctx, c); err != nil {
		s.logger.Error("failed to create campaign", zap.Error(err))
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	s.logger.Info("campaign created",
		zap.Int64("campaign_id", c.ID),
		zap.String("code", c.Code),
		zap.String("status", string(c.Status)),
	)
	s.publish("campaign.created", c)

	return c, nil
}

// ActivateCampaign moves a paused or scheduled campaign to active.
// If the end date has already passed the campaign is expired instead and
// the call fails.
func (s *CampaignService) ActivateCampaign(ctx context.Context, id int64) error {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if c.EvaluateExpiry(now) == campaign.CampaignStatusExpired {
		// End date passed or usage exhausted: correct the stored status
		// rather than activating a dead campaign.
		if c.Status != campaign.CampaignStatusExpired {
			if err := s.store.UpdateStatus(ctx, id, campaign.CampaignStatusExpired); err != nil {
				return fmt.Errorf("failed to expire campaign: %w", err)
			}
			s.publish("campaign.expired", c)
		}
		return xerrors.Wrap(xerrors.ErrInvalidTransition, "campaign has expired")
	}

	switch c.Status {
	case campaign.CampaignStatusActive:
		return xerrors.Wrap(xerrors.ErrInvalidTransition, "campaign is already active")
	case campaign.CampaignStatusPaused, campaign.CampaignStatusScheduled:
	default:
		return xerrors.Wrap(xerrors.ErrInvalidTransition, fmt.Sprintf("cannot activate from status %s", c.Status))
	}

	if err := s.store.UpdateStatus(ctx, id, campaign.CampaignStatusActive); err != nil {
		return fmt.Errorf("failed to activate campaign: %w", err)
	}

	s.logger.Info("campaign activated", zap.Int64("campaign_id", id))
	s.publish("campaign.activated", c)
	return nil
}

// PauseCampaign moves an active campaign to paused.
func (s *CampaignService) PauseCampaign(ctx context.Context, id int64) error {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if c.Status != campaign.CampaignStatusActive {
		return xerrors.Wrap(xerrors.ErrInvalidTransition, fmt.Sprintf("cannot pause from status %s", c.Status))
	}

	if err := s.store.UpdateStatus(ctx, id, campaign.CampaignStatusPaused); err != nil {
		return fmt.Errorf("failed to pause campaign: %w", err)
	}

	s.logger.Info("campaign paused", zap.Int64("campaign_id", id))
	s.publish("campaign.paused", c)
	return nil
}

// DeleteCampaign logically removes a campaign. Redemption events already
// recorded stay in history; closed-period reporting reads events, not the
// live campaign list.
func (s *CampaignService) DeleteCampaign(ctx context.Context, id int64) error {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.MarkRemoved(ctx, id); err != nil {
		s.logger.Error("failed to remove campaign", zap.Error(err))
		return fmt.Errorf("failed to remove campaign: %w", err)
	}

	s.logger.Info("campaign removed",
		zap.Int64("campaign_id", id),
		zap.Int("usage_count", c.UsageCount),
	)
	s.publish("campaign.removed", c)
	return nil
}

// ========== Read Operations ==========

// GetCampaign retrieves a campaign by ID, with its stored status corrected
// for expiry on read.
func (s *CampaignService) GetCampaign(ctx context.Context, id int64) (*campaign.Campaign, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.reconcileExpiry(ctx, c), nil
}

// GetCampaignByCode retrieves a campaign by its promotional code.
func (s *CampaignService) GetCampaignByCode(ctx context.Context, code string) (*campaign.Campaign, error) {
	c, err := s.store.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return s.reconcileExpiry(ctx, c), nil
}

// ListCampaigns retrieves campaigns with filters and pagination.
func (s *CampaignService) ListCampaigns(ctx context.Context, filters *campaign.ListFilters) (*campaign.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	campaigns, total, err := s.store.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	now := s.clock.Now()
	for i := range campaigns {
		campaigns[i].Status = campaigns[i].EvaluateExpiry(now)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &campaign.ListResponse{
		Campaigns:  campaigns,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ValidateCode previews the discount a code grants for an order without
// recording a redemption.
func (s *CampaignService) ValidateCode(ctx context.Context, req *campaign.ValidateCodeRequest) (*campaign.ValidateCodeResponse, error) {
	c, err := s.store.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return &campaign.ValidateCodeResponse{Valid: false, Message: "Unknown promotional code"}, nil
		}
		return nil, err
	}

	now := s.clock.Now()
	if !c.HasUsageLeft() {
		return &campaign.ValidateCodeResponse{Valid: false, Campaign: c, Message: "This promotional code has reached its usage limit"}, nil
	}
	if c.EvaluateExpiry(now) == campaign.CampaignStatusExpired {
		return &campaign.ValidateCodeResponse{Valid: false, Campaign: c, Message: "This promotional code has expired"}, nil
	}
	if c.Status != campaign.CampaignStatusActive {
		return &campaign.ValidateCodeResponse{Valid: false, Campaign: c, Message: "This promotional code is not currently active"}, nil
	}

	discount, days := CalculateDiscount(c, req.OrderAmount)
	return &campaign.ValidateCodeResponse{
		Valid:          true,
		Campaign:       c,
		DiscountAmount: discount,
		FinalAmount:    req.OrderAmount - discount,
		DaysGranted:    days,
		Message:        "Promotional code is valid",
	}, nil
}

// ========== Expiry Sweep ==========

// SweepExpired transitions every campaign whose end date has passed or whose
// usage limit is exhausted. Safe to run on any schedule; EvaluateExpiry is
// idempotent.
func (s *CampaignService) SweepExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()
	candidates, err := s.store.ListExpiryCandidates(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list expiry candidates: %w", err)
	}

	expired := 0
	for i := range candidates {
		c := &candidates[i]
		if c.EvaluateExpiry(now) != campaign.CampaignStatusExpired {
			continue
		}
		if err := s.store.UpdateStatus(ctx, c.ID, campaign.CampaignStatusExpired); err != nil {
			s.logger.Error("failed to expire campaign during sweep",
				zap.Int64("campaign_id", c.ID), zap.Error(err))
			continue
		}
		expired++
		s.publish("campaign.expired", c)
	}

	if expired > 0 {
		s.logger.Info("expiry sweep completed", zap.Int("expired", expired))
	}
	return expired, nil
}

// ========== Helpers ==========

// reconcileExpiry persists the one-way expired transition discovered on read.
func (s *CampaignService) reconcileExpiry(ctx context.Context, c *campaign.Campaign) *campaign.Campaign {
	now := s.clock.Now()
	st := c.EvaluateExpiry(now)
	if st == campaign.CampaignStatusExpired && c.Status != campaign.CampaignStatusExpired {
		if err := s.store.UpdateStatus(ctx, c.ID, campaign.CampaignStatusExpired); err != nil {
			s.logger.Error("failed to persist expiry on read",
				zap.Int64("campaign_id", c.ID), zap.Error(err))
		}
		c.Status = campaign.CampaignStatusExpired
		s.publish("campaign.expired", c)
	}
	return c
}

func (s *CampaignService) publish(event string, c *campaign.Campaign) {
	if s.events != nil {
		s.events.Publish(event, c)
	}
}

// CalculateDiscount computes the monetary discount and trial days granted
// for an order. Percentage discounts scale with the order; fixed discounts
// never exceed it; trial extensions carry no monetary discount.
func CalculateDiscount(c *campaign.Campaign, orderAmount float64) (discount float64, daysGranted int) {
	switch c.DiscountType {
	case campaign.DiscountTypePercentage:
		discount = orderAmount * c.DiscountValue / 100
	case campaign.DiscountTypeFixedAmount:
		discount = c.DiscountValue
		if discount > orderAmount {
			discount = orderAmount
		}
	case campaign.DiscountTypeTrialExtension:
		daysGranted = int(c.DiscountValue)
	}
	return discount, daysGranted
}
