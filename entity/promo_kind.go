package entity

import "strings"

// PromoKind selects the discount-allocation algorithm for a promotion.
// Adding a kind here requires an allocator arm in services.PromotionService.
type PromoKind string

const (
	PromoPercentage          PromoKind = "PERCENTAGE_DISCOUNT"
	PromoFixedAmount         PromoKind = "FIXED_AMOUNT_DISCOUNT"
	PromoCategory            PromoKind = "CATEGORY_DISCOUNT"
	PromoBuyOneGetSecondHalf PromoKind = "BUY_ONE_GET_SECOND_HALF_OFF"
	PromoBuyOneGetOneFree    PromoKind = "BUY_ONE_GET_ONE_FREE"
	PromoFreeDelivery        PromoKind = "FREE_DELIVERY"
)

// DiscountType is used by CATEGORY_DISCOUNT to pick percentage vs fixed math.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// StringSet is a set of tags stored as a JSON column.
type StringSet []string

func (s StringSet) Contains(v string) bool {
	for _, item := range s {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
