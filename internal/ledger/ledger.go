// Package ledger отвечает за денежный баланс учётной записи.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

// Debit списывает сумму с баланса и возвращает обновлённую копию учётной записи.
// Баланс никогда не становится отрицательным.
func Debit(account model.Account, amount decimal.Decimal) (model.Account, error) {
	if amount.IsNegative() {
		return account, &model.ValidationError{Field: "amount", Reason: "debit amount must not be negative"}
	}

	if account.Balance.LessThan(amount) {
		return account, &model.InsufficientFundsError{
			AccountID: account.ID,
			Balance:   account.Balance,
			Amount:    amount,
		}
	}

	account.Balance = account.Balance.Sub(amount)
	return account, nil
}
