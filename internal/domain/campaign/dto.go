// internal/domain/campaign/dto.go
package campaign

import "time"

type CreateCampaignRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Code        string `json:"code" binding:"required"`

	// Discount
	DiscountType  DiscountType `json:"discount_type" binding:"required"`
	DiscountValue float64      `json:"discount_value" binding:"required"`

	// Validity
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`

	// Usage limits
	UsageLimit *int32 `json:"usage_limit"`

	// Initial status; one of active, scheduled, paused
	Status CampaignStatus `json:"status" binding:"required"`

	Tags []string `json:"tags"`
}

type ListFilters struct {
	Status       *CampaignStatus `form:"status"`
	DiscountType *DiscountType   `form:"discount_type"`
	Search       string          `form:"search"`
	Page         int             `form:"page"`
	PageSize     int             `form:"page_size" binding:"omitempty,max=100"`
	SortBy       string          `form:"sort_by"` // created_at, start_date, end_date
	SortOrder    string          `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type ListResponse struct {
	Campaigns  []Campaign `json:"campaigns"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// ValidateCodeRequest is a dry-run: it previews the discount a code would
// grant for an order without recording a redemption.
type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required"`

	// min only: a zero-value order is a legitimate preview (trial codes).
	OrderAmount float64 `json:"order_amount" binding:"min=0"`
}

type ValidateCodeResponse struct {
	Valid          bool      `json:"valid"`
	Campaign       *Campaign `json:"campaign,omitempty"`
	DiscountAmount float64   `json:"discount_amount"`
	FinalAmount    float64   `json:"final_amount"`
	DaysGranted    int       `json:"days_granted,omitempty"`
	Message        string    `json:"message"`
}

type RedemptionListFilters struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size" binding:"omitempty,max=100"`
}

type RedemptionListResponse struct {
	Redemptions []RedemptionEvent `json:"redemptions"`
	Total       int64             `json:"total"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
}
