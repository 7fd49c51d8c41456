// internal/app/router.go
package app

import (
	analyticsHandler "promo-service/internal/handlers/analytics"
	campaignHandler "promo-service/internal/handlers/campaign"
	redemptionHandler "promo-service/internal/handlers/redemption"
	wsHandler "promo-service/internal/handlers/ws"
	"promo-service/internal/metrics"
	"promo-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	CampaignHandler   *campaignHandler.CampaignHandler
	RedemptionHandler *redemptionHandler.RedemptionHandler
	AnalyticsHandler  *analyticsHandler.AnalyticsHandler
	WSHandler         *wsHandler.WebSocketHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Prometheus ====================
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ==================== Event Feed ====================
	r.GET("/ws/events", h.WSHandler.HandleConnection)

	// ==================== Campaigns (admin) ====================
	campaigns := api.Group("/campaigns")
	campaigns.Use(h.AuthMiddleware.RequireAdmin())
	{
		campaigns.POST("", h.CampaignHandler.CreateCampaign)
		campaigns.GET("", h.CampaignHandler.ListCampaigns)
		campaigns.GET("/:id", h.CampaignHandler.GetCampaign)
		campaigns.GET("/code/:code", h.CampaignHandler.GetCampaignByCode)
		campaigns.PUT("/:id/activate", h.CampaignHandler.ActivateCampaign)
		campaigns.PUT("/:id/pause", h.CampaignHandler.PauseCampaign)
		campaigns.DELETE("/:id", h.CampaignHandler.DeleteCampaign)
		campaigns.GET("/:id/redemptions", h.RedemptionHandler.ListRedemptions)
	}

	// ==================== Storefront ====================
	storefront := api.Group("")
	storefront.Use(h.AuthMiddleware.RequireAPIKey())
	{
		storefront.POST("/redemptions", h.RedemptionHandler.Redeem)
		storefront.POST("/campaigns/validate", h.CampaignHandler.ValidateCode)
	}

	// ==================== Analytics (admin) ====================
	analytics := api.Group("/analytics")
	analytics.Use(h.AuthMiddleware.RequireAdmin())
	{
		analytics.GET("/snapshot", h.AnalyticsHandler.GetSnapshot)
	}
}
