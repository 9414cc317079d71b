package fees

import (
	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/money"
)

// Schedule holds one currency's gateway fee parameters. A zero Cap means the
// gateway does not cap its fee for that currency.
type Schedule struct {
	Percentage decimal.Decimal
	Flat       decimal.Decimal
	Cap        decimal.Decimal
}

// Breakdown is the full settlement split for a single order amount.
type Breakdown struct {
	TotalAmount      decimal.Decimal
	Currency         enums.Currency
	CommissionRate   decimal.Decimal
	GatewayFee       decimal.Decimal
	PlatformFeeShare decimal.Decimal
	SellerFeeShare   decimal.Decimal
	CommissionAmount decimal.Decimal
	SellerPayout     decimal.Decimal
	Gateway          enums.Gateway
}

// The platform absorbs 5% of the gateway fee; the seller carries the rest.
var platformFeePortion = decimal.NewFromFloat(0.05)

var localSchedules = map[enums.Currency]Schedule{
	"NGN": {
		Percentage: decimal.NewFromFloat(0.015),
		Flat:       decimal.NewFromInt(100),
		Cap:        decimal.NewFromInt(2000),
	},
	"GHS": {Percentage: decimal.NewFromFloat(0.0195)},
	"ZAR": {
		Percentage: decimal.NewFromFloat(0.029),
		Flat:       decimal.NewFromInt(1),
	},
	"KES": {Percentage: decimal.NewFromFloat(0.015)},
}

var internationalSchedules = map[enums.Currency]Schedule{
	"USD": {Percentage: decimal.NewFromFloat(0.038)},
	"GBP": {Percentage: decimal.NewFromFloat(0.038)},
	"EUR": {Percentage: decimal.NewFromFloat(0.038)},
}

var internationalDefault = Schedule{Percentage: decimal.NewFromFloat(0.038)}

// Calculator computes commission breakdowns at a fixed platform rate. It holds
// no mutable state and is safe for concurrent use.
type Calculator struct {
	commissionRate decimal.Decimal
}

// NewCalculator builds a calculator for the given commission rate, expressed
// as a fraction (0.05 for 5%).
func NewCalculator(commissionRate float64) *Calculator {
	return &Calculator{commissionRate: decimal.NewFromFloat(commissionRate)}
}

// GatewayFor routes a currency to its payment gateway. Local African
// currencies settle through Paystack; everything else goes to Flutterwave.
func GatewayFor(currency string) enums.Gateway {
	if _, ok := localSchedules[enums.NormalizeCurrency(currency)]; ok {
		return enums.GatewayPaystack
	}
	return enums.GatewayFlutterwave
}

func scheduleFor(currency string) (Schedule, enums.Gateway) {
	code := enums.NormalizeCurrency(currency)
	if s, ok := localSchedules[code]; ok {
		return s, enums.GatewayPaystack
	}
	if s, ok := internationalSchedules[code]; ok {
		return s, enums.GatewayFlutterwave
	}
	return internationalDefault, enums.GatewayFlutterwave
}

// Breakdown splits an order amount between gateway, platform and seller.
//
// The gateway fee is rounded once, then divided 5/95 with the seller share
// computed by subtraction so the two shares always sum back to the fee.
// Commission and payout each round their gross figure once before deducting
// the respective fee share, which keeps the three output legs within one
// rounding unit of the input amount.
func (c *Calculator) Breakdown(amount decimal.Decimal, currency string) Breakdown {
	schedule, gateway := scheduleFor(currency)

	fee := money.Round2(amount.Mul(schedule.Percentage).Add(schedule.Flat))
	if schedule.Cap.IsPositive() && fee.GreaterThan(schedule.Cap) {
		fee = schedule.Cap
	}

	platformShare := money.Round2(fee.Mul(platformFeePortion))
	sellerShare := fee.Sub(platformShare)

	grossCommission := money.Round2(amount.Mul(c.commissionRate))
	grossPayout := money.Round2(amount.Mul(decimal.NewFromInt(1).Sub(c.commissionRate)))

	return Breakdown{
		TotalAmount:      amount,
		Currency:         enums.NormalizeCurrency(currency),
		CommissionRate:   c.commissionRate,
		GatewayFee:       fee,
		PlatformFeeShare: platformShare,
		SellerFeeShare:   sellerShare,
		CommissionAmount: grossCommission.Sub(platformShare),
		SellerPayout:     grossPayout.Sub(sellerShare),
		Gateway:          gateway,
	}
}
