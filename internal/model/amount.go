package model

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// AmountScale задаёт число знаков после запятой в денежных суммах и баллах.
	AmountScale = 2
	// MaxQuantity ограничивает количество в строке заказа.
	MaxQuantity = math.MaxInt32
)

// MaxAmount соответствует наибольшему значению столбца NUMERIC(12,2).
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ValidateAmount проверяет, что сумма хранится без округления: не больше двух знаков
// после запятой и не больше MaxAmount по модулю.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(AmountScale)) {
		return &ValidationError{Field: field, Reason: "at most 2 decimal places allowed"}
	}
	if amount.Abs().GreaterThan(MaxAmount) {
		return &ValidationError{Field: field, Reason: "amount out of range"}
	}
	return nil
}
