// Package loyalty содержит правила бонусных баллов.
package loyalty

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

// InitialPoints начисляется каждой новой учётной записи.
var InitialPoints = decimal.RequireFromString("5.00")

// SetPoints устанавливает баллы как есть. Отрицательное значение блокирует учётную запись;
// неотрицательное значение блокировку не снимает.
func SetPoints(account model.Account, points decimal.Decimal) model.Account {
	account.LoyaltyPoints = points
	if points.IsNegative() {
		account.Blocked = true
	}
	return account
}
