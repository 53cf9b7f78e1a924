// Package policy проверяет, может ли учётная запись оформлять заказы.
package policy

import "github.com/mmeshcher/cafe-orders/internal/model"

// Причины отказа.
const (
	ReasonStaff   = "staff may not place orders"
	ReasonBlocked = "account blocked"
)

// CanPlaceOrder возвращает nil, если оформление заказа разрешено, иначе *model.AccessDeniedError.
// Роль проверяется раньше блокировки.
func CanPlaceOrder(account model.Account) error {
	if account.Role == model.RoleStaff {
		return &model.AccessDeniedError{Reason: ReasonStaff}
	}
	if account.Blocked {
		return &model.AccessDeniedError{Reason: ReasonBlocked}
	}
	return nil
}
