package enums

// CouponPhase is the state of the checkout coupon flow.
type CouponPhase string

const (
	CouponPhaseNoneSelected CouponPhase = "NONE_SELECTED"
	CouponPhasePreviewing   CouponPhase = "PREVIEWING"
	CouponPhaseApplied      CouponPhase = "APPLIED"
)

func (p CouponPhase) String() string {
	return string(p)
}
