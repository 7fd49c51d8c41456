// internal/handlers/redemption/redemption_handler.go
package redemption

import (
	"net/http"
	"strconv"

	"promo-service/internal/domain/campaign"
	"promo-service/internal/pkg/response"
	service "promo-service/internal/service/redemption"

	"github.com/gin-gonic/gin"
)

type RedemptionHandler struct {
	ledger *service.Ledger
}

func NewRedemptionHandler(ledger *service.Ledger) *RedemptionHandler {
	return &RedemptionHandler{ledger: ledger}
}

type redeemRequest struct {
	CampaignID  int64   `json:"campaign_id" binding:"required"`
	OrderAmount float64 `json:"order_amount" binding:"min=0"`
}

// Redeem applies a campaign to an order (storefront, API key auth)
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	event, err := h.ledger.Redeem(c.Request.Context(), req.CampaignID, req.OrderAmount)
	if err != nil {
		response.FromError(c, "redemption rejected", err)
		return
	}

	response.Success(c, http.StatusCreated, "redemption recorded", event)
}

// ListRedemptions returns a campaign's redemption history (admin only)
func (h *RedemptionHandler) ListRedemptions(c *gin.Context) {
	campaignID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return
	}

	var filters campaign.RedemptionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.ledger.ListRedemptions(c.Request.Context(), campaignID, &filters)
	if err != nil {
		response.FromError(c, "failed to list redemptions", err)
		return
	}

	response.Success(c, http.StatusOK, "redemptions retrieved", result)
}
