package payment_gateway

import "github.com/shopspring/decimal"

// toMinorUnits converts 12.34 to 1234. ZMW, USD and the other currencies we accept all use
// two decimal places.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
