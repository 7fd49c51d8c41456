package campaign

import (
	"context"
	"testing"
	"time"

	"promo-service/internal/domain/campaign"
	xerrors "promo-service/internal/pkg/errors"
	"promo-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func newTestService(t *testing.T) (*CampaignService, *memory.Store, *fakeClock) {
	t.Helper()
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	svc := NewCampaignService(store, clock, nil, zap.NewNop())
	return svc, store, clock
}

func validRequest() *campaign.CreateCampaignRequest {
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	limit := int32(100)
	return &campaign.CreateCampaignRequest{
		Name:          "Summer Sale",
		Description:   "10% off everything",
		Code:          "SUMMER10",
		DiscountType:  campaign.DiscountTypePercentage,
		DiscountValue: 10,
		StartDate:     time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       &end,
		UsageLimit:    &limit,
		Status:        campaign.CampaignStatusActive,
		Tags:          []string{"seasonal", "summer"},
	}
}

func TestCreateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("valid request round trips every field", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		req := validRequest()

		created, err := svc.CreateCampaign(ctx, req)
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		got, err := svc.GetCampaign(ctx, created.ID)
		require.NoError(t, err)

		assert.Equal(t, "Summer Sale", got.Name)
		assert.Equal(t, "SUMMER10", got.Code)
		assert.Equal(t, campaign.DiscountTypePercentage, got.DiscountType)
		assert.Equal(t, 10.0, got.DiscountValue)
		assert.Equal(t, req.StartDate, got.StartDate)
		require.True(t, got.EndDate.Valid)
		assert.Equal(t, *req.EndDate, got.EndDate.Time)
		require.True(t, got.UsageLimit.Valid)
		assert.Equal(t, int32(100), got.UsageLimit.Int32)
		assert.Equal(t, 0, got.UsageCount)
		assert.Equal(t, campaign.CampaignStatusActive, got.Status)
		assert.ElementsMatch(t, []string{"seasonal", "summer"}, []string(got.Tags))
	})

	t.Run("code is normalized to upper case", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		req := validRequest()
		req.Code = "  summer10 "

		created, err := svc.CreateCampaign(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "SUMMER10", created.Code)
	})

	t.Run("all violations reported together", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) // before start
		limit := int32(0)
		req := &campaign.CreateCampaignRequest{
			Name:          "",
			Code:          "x",
			DiscountType:  campaign.DiscountTypePercentage,
			DiscountValue: 150,
			StartDate:     time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:       &end,
			UsageLimit:    &limit,
			Status:        campaign.CampaignStatus("draft"),
		}

		_, err := svc.CreateCampaign(ctx, req)
		require.Error(t, err)

		ve, ok := xerrors.AsValidation(err)
		require.True(t, ok)

		fields := make([]string, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{"code", "discount_value", "name", "end_date", "usage_limit", "status"}, fields)
	})

	t.Run("duplicate code rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.CreateCampaign(ctx, validRequest())
		require.NoError(t, err)

		_, err = svc.CreateCampaign(ctx, validRequest())
		require.Error(t, err)
		ve, ok := xerrors.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "code", ve.Fields[0].Field)
	})

	t.Run("code stays reserved after logical delete", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.CreateCampaign(ctx, validRequest())
		require.NoError(t, err)
		require.NoError(t, svc.DeleteCampaign(ctx, created.ID))

		_, err = svc.CreateCampaign(ctx, validRequest())
		assert.Error(t, err)
	})
}

func TestLifecycleTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("pause then activate", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.CreateCampaign(ctx, validRequest())
		require.NoError(t, err)

		require.NoError(t, svc.PauseCampaign(ctx, created.ID))
		got, _ := svc.GetCampaign(ctx, created.ID)
		assert.Equal(t, campaign.CampaignStatusPaused, got.Status)

		require.NoError(t, svc.ActivateCampaign(ctx, created.ID))
		got, _ = svc.GetCampaign(ctx, created.ID)
		assert.Equal(t, campaign.CampaignStatusActive, got.Status)
	})

	t.Run("activate a scheduled campaign", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		req := validRequest()
		req.Status = campaign.CampaignStatusScheduled

		created, err := svc.CreateCampaign(ctx, req)
		require.NoError(t, err)

		require.NoError(t, svc.ActivateCampaign(ctx, created.ID))
		got, _ := svc.GetCampaign(ctx, created.ID)
		assert.Equal(t, campaign.CampaignStatusActive, got.Status)
	})

	t.Run("activating an already active campaign fails", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.CreateCampaign(ctx, validRequest())
		require.NoError(t, err)

		err = svc.ActivateCampaign(ctx, created.ID)
		assert.ErrorIs(t, err, xerrors.ErrInvalidTransition)
	})

	t.Run("pausing a non-active campaign fails", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		req := validRequest()
		req.Status = campaign.CampaignStatusScheduled

		created, err := svc.CreateCampaign(ctx, req)
		require.NoError(t, err)

		err = svc.PauseCampaign(ctx, created.ID)
		assert.ErrorIs(t, err, xerrors.ErrInvalidTransition)
	})

	t.Run("activating past the end date expires instead", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		req := validRequest()
		req.Status = campaign.CampaignStatusPaused

		created, err := svc.CreateCampaign(ctx, req)
		require.NoError(t, err)

		clock.now = req.EndDate.Add(time.Hour)

		err = svc.ActivateCampaign(ctx, created.ID)
		assert.ErrorIs(t, err, xerrors.ErrInvalidTransition)

		got, err := svc.GetCampaign(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, campaign.CampaignStatusExpired, got.Status)
	})

	t.Run("expired campaign cannot be reactivated", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		created, err := svc.CreateCampaign(ctx, validRequest())
		require.NoError(t, err)

		clock.now = clock.now.AddDate(1, 0, 0)
		_, err = svc.GetCampaign(ctx, created.ID) // persists the expiry
		require.NoError(t, err)

		err = svc.ActivateCampaign(ctx, created.ID)
		assert.ErrorIs(t, err, xerrors.ErrInvalidTransition)
	})

	t.Run("deleted campaign is not found", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.CreateCampaign(ctx, validRequest())
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCampaign(ctx, created.ID))

		_, err = svc.GetCampaign(ctx, created.ID)
		assert.ErrorIs(t, err, xerrors.ErrNotFound)
	})
}

func TestExpiryOnRead(t *testing.T) {
	ctx := context.Background()
	svc, store, clock := newTestService(t)

	created, err := svc.CreateCampaign(ctx, validRequest())
	require.NoError(t, err)

	clock.now = clock.now.AddDate(0, 2, 0)

	got, err := svc.GetCampaignByCode(ctx, "summer10")
	require.NoError(t, err)
	assert.Equal(t, campaign.CampaignStatusExpired, got.Status)

	// The transition was persisted, not just reported.
	stored, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, campaign.CampaignStatusExpired, stored.Status)
}

func TestListCampaigns(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	for _, code := range []string{"ALPHA1", "BRAVO2", "CHARLIE3"} {
		req := validRequest()
		req.Code = code
		req.Name = "Campaign " + code
		_, err := svc.CreateCampaign(ctx, req)
		require.NoError(t, err)
	}

	t.Run("pagination defaults applied", func(t *testing.T) {
		resp, err := svc.ListCampaigns(ctx, &campaign.ListFilters{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 20, resp.PageSize)
		assert.Equal(t, 1, resp.TotalPages)
	})

	t.Run("page size capped at 100", func(t *testing.T) {
		resp, err := svc.ListCampaigns(ctx, &campaign.ListFilters{Page: 1, PageSize: 5000})
		require.NoError(t, err)
		assert.Equal(t, 100, resp.PageSize)
	})

	t.Run("status filter", func(t *testing.T) {
		status := campaign.CampaignStatusActive
		resp, err := svc.ListCampaigns(ctx, &campaign.ListFilters{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)
	})

	t.Run("search by code", func(t *testing.T) {
		resp, err := svc.ListCampaigns(ctx, &campaign.ListFilters{Search: "bravo"})
		require.NoError(t, err)
		require.Len(t, resp.Campaigns, 1)
		assert.Equal(t, "BRAVO2", resp.Campaigns[0].Code)
	})
}

func TestValidateCodePreview(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t)

	_, err := svc.CreateCampaign(ctx, validRequest())
	require.NoError(t, err)

	t.Run("valid code computes discount", func(t *testing.T) {
		resp, err := svc.ValidateCode(ctx, &campaign.ValidateCodeRequest{Code: "SUMMER10", OrderAmount: 100})
		require.NoError(t, err)
		assert.True(t, resp.Valid)
		assert.Equal(t, 10.0, resp.DiscountAmount)
		assert.Equal(t, 90.0, resp.FinalAmount)
	})

	t.Run("unknown code is invalid but not an error", func(t *testing.T) {
		resp, err := svc.ValidateCode(ctx, &campaign.ValidateCodeRequest{Code: "NOSUCHCODE", OrderAmount: 100})
		require.NoError(t, err)
		assert.False(t, resp.Valid)
	})

	t.Run("expired code is invalid", func(t *testing.T) {
		clock.now = clock.now.AddDate(1, 0, 0)
		defer func() { clock.now = clock.now.AddDate(-1, 0, 0) }()

		resp, err := svc.ValidateCode(ctx, &campaign.ValidateCodeRequest{Code: "SUMMER10", OrderAmount: 100})
		require.NoError(t, err)
		assert.False(t, resp.Valid)
	})
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newTestService(t)

	expiring := validRequest()
	expiring.Code = "EXPIRING1"

	evergreen := validRequest()
	evergreen.Code = "EVERGREEN1"
	evergreen.EndDate = nil
	evergreen.UsageLimit = nil

	created, err := svc.CreateCampaign(ctx, expiring)
	require.NoError(t, err)
	kept, err := svc.CreateCampaign(ctx, evergreen)
	require.NoError(t, err)

	clock.now = clock.now.AddDate(0, 3, 0)

	expired, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	got, _ := svc.GetCampaign(ctx, created.ID)
	assert.Equal(t, campaign.CampaignStatusExpired, got.Status)

	got, _ = svc.GetCampaign(ctx, kept.ID)
	assert.Equal(t, campaign.CampaignStatusActive, got.Status)

	// Second sweep finds nothing new.
	expired, err = svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

func TestCalculateDiscount(t *testing.T) {
	t.Run("percentage", func(t *testing.T) {
		c := &campaign.Campaign{DiscountType: campaign.DiscountTypePercentage, DiscountValue: 25}
		discount, days := CalculateDiscount(c, 200)
		assert.Equal(t, 50.0, discount)
		assert.Equal(t, 0, days)
	})

	t.Run("fixed amount capped at order total", func(t *testing.T) {
		c := &campaign.Campaign{DiscountType: campaign.DiscountTypeFixedAmount, DiscountValue: 30}
		discount, _ := CalculateDiscount(c, 20)
		assert.Equal(t, 20.0, discount)
	})

	t.Run("trial extension grants days only", func(t *testing.T) {
		c := &campaign.Campaign{DiscountType: campaign.DiscountTypeTrialExtension, DiscountValue: 14}
		discount, days := CalculateDiscount(c, 100)
		assert.Equal(t, 0.0, discount)
		assert.Equal(t, 14, days)
	})
}
