package pricing

// Shopee fee schedule.
const (
	ShopeeStandardCommission     = 0.14
	ShopeeFreeShippingCommission = 0.20
	ShopeeFixedFee               = 4.00
)

// Shopee charges a commission that depends on whether the seller joined the
// free-shipping program, plus a flat fee on every item sold.
type Shopee struct {
	FreeShippingProgram bool `json:"free_shipping_program"`
}

func (Shopee) Platform() Platform { return PlatformShopee }

func (s Shopee) CommissionRate() float64 {
	if s.FreeShippingProgram {
		return ShopeeFreeShippingCommission
	}
	return ShopeeStandardCommission
}

func (Shopee) FixedFee() float64 { return ShopeeFixedFee }
