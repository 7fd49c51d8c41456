// internal/service/campaign/validator.go
package campaign

import (
	"fmt"
	"math"
	"regexp"

	"promo-service/internal/domain/campaign"
	xerrors "promo-service/internal/pkg/errors"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{3,32}$`)

// ValidateCode checks the promotional code format and the discount value
// against the range allowed for its type. It is pure and has no store
// access; code uniqueness is the caller's responsibility.
func ValidateCode(code string, discountType campaign.DiscountType, value float64) error {
	ve := &xerrors.ValidationError{}
	validateCodeInto(ve, code)
	validateDiscountInto(ve, discountType, value)
	return ve.ErrOrNil()
}

func validateCodeInto(ve *xerrors.ValidationError, code string) {
	if code == "" {
		ve.Add("code", "code is required")
		return
	}
	if !codePattern.MatchString(code) {
		ve.Add("code", "code must be 3-32 uppercase letters and digits")
	}
}

func validateDiscountInto(ve *xerrors.ValidationError, discountType campaign.DiscountType, value float64) {
	switch discountType {
	case campaign.DiscountTypePercentage:
		if value <= 0 || value > 100 {
			ve.Add("discount_value", "percentage must be greater than 0 and at most 100")
		}
	case campaign.DiscountTypeFixedAmount:
		if value <= 0 {
			ve.Add("discount_value", "fixed amount must be greater than 0")
		}
	case campaign.DiscountTypeTrialExtension:
		if value < 1 || value != math.Trunc(value) {
			ve.Add("discount_value", "trial extension days must be a positive integer")
		}
	default:
		ve.Add("discount_type", fmt.Sprintf("unknown discount type: %s", discountType))
	}
}
