// internal/service/analytics/metrics.go
package analytics

// Pure metric formulas. A zero or missing denominator means the metric is
// undefined and reports 0; these functions never divide by zero and never
// return NaN or Inf for non-negative input.

// ROI is the ratio of total revenue to total cost across channels.
func ROI(totalRevenue, totalCost float64) float64 {
	if totalCost <= 0 {
		return 0
	}
	return totalRevenue / totalCost
}

// CAC is the cost per acquired customer/conversion.
func CAC(totalCost float64, totalAcquisitions int64) float64 {
	if totalAcquisitions <= 0 {
		return 0
	}
	return totalCost / float64(totalAcquisitions)
}

// LTV projects total revenue per active subscriber over the expected
// tenure. Zero active subscriptions means the metric is undefined, not a
// one-subscriber estimate.
func LTV(mrr float64, activeSubscriptions int64, avgLengthMonths float64) float64 {
	if activeSubscriptions <= 0 {
		return 0
	}
	return (mrr / float64(activeSubscriptions)) * avgLengthMonths
}

// GrowthPercent is the month-over-month MRR growth.
func GrowthPercent(currentMRR, previousMRR float64) float64 {
	if previousMRR <= 0 {
		return 0
	}
	return (currentMRR - previousMRR) / previousMRR * 100
}
