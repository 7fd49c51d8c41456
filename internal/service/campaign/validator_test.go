package campaign

import (
	"testing"

	"promo-service/internal/domain/campaign"
	xerrors "promo-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCodeFormat(t *testing.T) {
	valid := []string{"ABC", "SUMMER10", "A1B2C3", "ABCDEFGHIJKLMNOPQRSTUVWXYZ012345"}
	for _, code := range valid {
		assert.NoError(t, ValidateCode(code, campaign.DiscountTypePercentage, 10), code)
	}

	invalid := []string{
		"",
		"AB",                                  // too short
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456",   // 33 chars
		"summer10",                            // lowercase
		"SUMMER-10",                           // hyphen
		"SUMMER 10",                           // space
	}
	for _, code := range invalid {
		err := ValidateCode(code, campaign.DiscountTypePercentage, 10)
		require.Error(t, err, "code %q should be rejected", code)
		ve, ok := xerrors.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "code", ve.Fields[0].Field)
	}
}

func TestValidateDiscountBoundaries(t *testing.T) {
	cases := []struct {
		name         string
		discountType campaign.DiscountType
		value        float64
		wantErr      bool
	}{
		{"percentage zero", campaign.DiscountTypePercentage, 0, true},
		{"percentage just above zero", campaign.DiscountTypePercentage, 0.0001, false},
		{"percentage hundred", campaign.DiscountTypePercentage, 100, false},
		{"percentage above hundred", campaign.DiscountTypePercentage, 100.0001, true},
		{"percentage negative", campaign.DiscountTypePercentage, -5, true},
		{"fixed zero", campaign.DiscountTypeFixedAmount, 0, true},
		{"fixed negative", campaign.DiscountTypeFixedAmount, -1, true},
		{"fixed positive", campaign.DiscountTypeFixedAmount, 19.99, false},
		{"trial zero", campaign.DiscountTypeTrialExtension, 0, true},
		{"trial fractional", campaign.DiscountTypeTrialExtension, 1.5, true},
		{"trial one day", campaign.DiscountTypeTrialExtension, 1, false},
		{"trial thirty days", campaign.DiscountTypeTrialExtension, 30, false},
		{"unknown type", campaign.DiscountType("bogus"), 10, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCode("TESTCODE", tc.discountType, tc.value)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	err := ValidateCode("bad code", campaign.DiscountTypePercentage, 250)
	require.Error(t, err)

	ve, ok := xerrors.AsValidation(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
}
