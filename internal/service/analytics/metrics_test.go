package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestROI(t *testing.T) {
	assert.Equal(t, 2.5, ROI(500, 200))
	assert.Equal(t, 0.0, ROI(500, 0))
	assert.Equal(t, 0.0, ROI(0, 0))
	assert.Equal(t, 0.0, ROI(500, -10))
}

func TestCAC(t *testing.T) {
	assert.Equal(t, 25.0, CAC(500, 20))
	assert.Equal(t, 0.0, CAC(500, 0))
	assert.Equal(t, 0.0, CAC(0, 0))
}

func TestLTV(t *testing.T) {
	assert.Equal(t, 240.0, LTV(1000, 50, 12))

	// No subscribers means undefined, not a one-subscriber projection.
	assert.Equal(t, 0.0, LTV(0, 0, 12))
	assert.Equal(t, 0.0, LTV(1000, 0, 12))
}

func TestGrowthPercent(t *testing.T) {
	assert.Equal(t, 10.0, GrowthPercent(1100, 1000))
	assert.Equal(t, -50.0, GrowthPercent(500, 1000))
	assert.Equal(t, 0.0, GrowthPercent(1100, 0))
}

func TestFormulasNeverProduceNaNOrInf(t *testing.T) {
	values := []float64{0, 1, 1000, 1e12}
	counts := []int64{0, 1, 1000}

	for _, a := range values {
		for _, b := range values {
			assert.False(t, math.IsNaN(ROI(a, b)) || math.IsInf(ROI(a, b), 0))
			assert.False(t, math.IsNaN(GrowthPercent(a, b)) || math.IsInf(GrowthPercent(a, b), 0))
			for _, n := range counts {
				assert.False(t, math.IsNaN(CAC(a, n)) || math.IsInf(CAC(a, n), 0))
				assert.False(t, math.IsNaN(LTV(a, n, b)) || math.IsInf(LTV(a, n, b), 0))
			}
		}
	}
}
