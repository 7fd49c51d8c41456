// internal/handlers/campaign/campaign_handler.go
package campaign

import (
	"net/http"
	"strconv"

	"promo-service/internal/domain/campaign"
	"promo-service/internal/pkg/response"
	service "promo-service/internal/service/campaign"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignService *service.CampaignService
}

func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// ========== Admin Only Endpoints ==========

// CreateCampaign creates a new promotional campaign (admin only)
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req campaign.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.campaignService.CreateCampaign(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create campaign", err)
		return
	}

	response.Success(c, http.StatusCreated, "campaign created successfully", result)
}

// ActivateCampaign activates a campaign (admin only)
func (h *CampaignHandler) ActivateCampaign(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	if err := h.campaignService.ActivateCampaign(c.Request.Context(), campaignID); err != nil {
		response.FromError(c, "failed to activate campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign activated successfully", nil)
}

// PauseCampaign pauses a campaign (admin only)
func (h *CampaignHandler) PauseCampaign(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	if err := h.campaignService.PauseCampaign(c.Request.Context(), campaignID); err != nil {
		response.FromError(c, "failed to pause campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign paused successfully", nil)
}

// DeleteCampaign logically removes a campaign (admin only)
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), campaignID); err != nil {
		response.FromError(c, "failed to delete campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign deleted successfully", nil)
}

// ========== Read Endpoints ==========

// GetCampaign retrieves a campaign by ID
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	result, err := h.campaignService.GetCampaign(c.Request.Context(), campaignID)
	if err != nil {
		response.FromError(c, "failed to get campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign retrieved", result)
}

// GetCampaignByCode retrieves a campaign by promotional code
func (h *CampaignHandler) GetCampaignByCode(c *gin.Context) {
	result, err := h.campaignService.GetCampaignByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.FromError(c, "failed to get campaign", err)
		return
	}

	response.Success(c, http.StatusOK, "campaign retrieved", result)
}

// ListCampaigns retrieves campaigns with filters
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	var filters campaign.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid filters", err)
		return
	}

	result, err := h.campaignService.ListCampaigns(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list campaigns", err)
		return
	}

	response.Success(c, http.StatusOK, "campaigns retrieved", result)
}

// ValidateCode previews the discount a code grants without redeeming it
func (h *CampaignHandler) ValidateCode(c *gin.Context) {
	var req campaign.ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.campaignService.ValidateCode(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to validate code", err)
		return
	}

	response.Success(c, http.StatusOK, "code validated", result)
}

func (h *CampaignHandler) campaignID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid campaign ID", err)
		return 0, false
	}
	return id, true
}
