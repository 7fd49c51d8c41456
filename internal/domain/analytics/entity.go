// internal/domain/analytics/entity.go
package analytics

import "time"

// Channel summaries are supplied by collaborators and are read-only to the
// aggregation core. Every field defaults to zero; a channel with no data
// contributes nothing to the blended totals.

type PromotionSummary struct {
	TotalRevenue     float64 `json:"total_revenue" db:"total_revenue"`
	TotalCost        float64 `json:"total_cost" db:"total_cost"`
	TotalConversions int64   `json:"total_conversions" db:"total_conversions"`
}

type AffiliateSummary struct {
	TotalCommission float64 `json:"total_commission" db:"total_commission"`
	TotalReferrals  int64   `json:"total_referrals" db:"total_referrals"`
}

type SubscriptionSummary struct {
	MRR                      float64 `json:"mrr" db:"mrr"`
	PreviousMRR              float64 `json:"previous_mrr" db:"previous_mrr"`
	ActiveSubscriptions      int64   `json:"active_subscriptions" db:"active_subscriptions"`
	NewSubscriptions         int64   `json:"new_subscriptions" db:"new_subscriptions"`
	AvgSubscriptionLengthMon float64 `json:"avg_subscription_length_months" db:"avg_subscription_length_months"`
	TotalCost                float64 `json:"total_cost" db:"total_cost"`
}

// MetricsSnapshot is derived on demand; it is never a source of truth.
type MetricsSnapshot struct {
	TotalRevenue         float64   `json:"total_revenue"`
	TotalCost            float64   `json:"total_cost"`
	TotalConversions     int64     `json:"total_conversions"`
	ROI                  float64   `json:"roi"`
	CAC                  float64   `json:"cac"`
	LTV                  float64   `json:"ltv"`
	MonthlyGrowthPercent float64   `json:"monthly_growth_percent"`
	GeneratedAt          time.Time `json:"generated_at"`
}
