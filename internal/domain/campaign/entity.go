// internal/domain/campaign/entity.go
package campaign

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type DiscountType string

const (
	DiscountTypePercentage     DiscountType = "percentage"
	DiscountTypeFixedAmount    DiscountType = "fixed_amount"
	DiscountTypeTrialExtension DiscountType = "trial_extension_days"
)

type CampaignStatus string

const (
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusExpired   CampaignStatus = "expired"
)

type Campaign struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Code        string         `json:"code" db:"code"`

	// Discount
	DiscountType  DiscountType `json:"discount_type" db:"discount_type"`
	DiscountValue float64      `json:"discount_value" db:"discount_value"`

	// Validity
	StartDate time.Time    `json:"start_date" db:"start_date"`
	EndDate   sql.NullTime `json:"end_date,omitempty" db:"end_date"`

	// Usage accounting, maintained by the redemption ledger
	UsageLimit  sql.NullInt32 `json:"usage_limit,omitempty" db:"usage_limit"`
	UsageCount  int           `json:"usage_count" db:"usage_count"`
	Conversions int           `json:"conversions" db:"conversions"`
	Revenue     float64       `json:"revenue" db:"revenue"`
	Cost        float64       `json:"cost" db:"cost"`

	// Status
	Status CampaignStatus `json:"status" db:"status"`

	// Logical deletion: removed campaigns keep their redemption history
	// but are excluded from listings and future reporting.
	Removed bool `json:"removed" db:"removed"`

	Tags pq.StringArray `json:"tags,omitempty" db:"tags"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EvaluateExpiry returns the status the campaign should have at the given
// instant. Expired is terminal: once a campaign is expired it never returns
// to any other status. The function is pure; callers persist the transition.
func (c *Campaign) EvaluateExpiry(now time.Time) CampaignStatus {
	if c.Status == CampaignStatusExpired {
		return CampaignStatusExpired
	}
	if c.EndDate.Valid && now.After(c.EndDate.Time) {
		return CampaignStatusExpired
	}
	if c.UsageLimit.Valid && c.UsageCount >= int(c.UsageLimit.Int32) {
		return CampaignStatusExpired
	}
	return c.Status
}

// HasUsageLeft reports whether a redemption may still be recorded.
func (c *Campaign) HasUsageLeft() bool {
	return !c.UsageLimit.Valid || c.UsageCount < int(c.UsageLimit.Int32)
}

// RedemptionEvent is a single application of a campaign's code to an order.
// Events are immutable once recorded and append-only.
type RedemptionEvent struct {
	ID              int64     `json:"id" db:"id"`
	Reference       string    `json:"reference" db:"reference"`
	CampaignID      int64     `json:"campaign_id" db:"campaign_id"`
	OrderAmount     float64   `json:"order_amount" db:"order_amount"`
	DiscountApplied float64   `json:"discount_applied" db:"discount_applied"`
	DaysGranted     int       `json:"days_granted,omitempty" db:"days_granted"`
	RedeemedAt      time.Time `json:"redeemed_at" db:"redeemed_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
