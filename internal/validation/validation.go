// Package validation содержит функции валидации входных данных.
package validation

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

// MinPasswordLength задаёт минимальную длину пароля при регистрации.
const MinPasswordLength = 6

// ValidateOrder проверяет заказ, подготовленный к оформлению.
func ValidateOrder(order model.Order, now time.Time) error {
	if order.ID != 0 {
		return &model.ValidationError{Field: "id", Reason: "new order must not have an id"}
	}
	if order.Status != model.OrderStatusNew {
		return &model.ValidationError{Field: "status", Reason: "new order must have status NEW"}
	}
	if !order.PaymentMethod.Valid() {
		return &model.ValidationError{Field: "payment_method", Reason: "unknown payment method " + string(order.PaymentMethod)}
	}
	if len(order.Lines) == 0 {
		return &model.ValidationError{Field: "lines", Reason: "order must contain at least one line"}
	}

	seen := make(map[int64]struct{}, len(order.Lines))
	for _, l := range order.Lines {
		if l.Quantity < 1 {
			return &model.ValidationError{Field: "quantity", Reason: "quantity must be at least 1"}
		}
		if l.Quantity > model.MaxQuantity {
			return &model.ValidationError{Field: "quantity", Reason: "quantity too large"}
		}
		if err := model.ValidateAmount("unit_price", l.UnitPrice); err != nil {
			return err
		}
		if _, dup := seen[l.MenuItemID]; dup {
			return &model.ValidationError{Field: "lines", Reason: "menu item listed twice"}
		}
		seen[l.MenuItemID] = struct{}{}
	}

	if !order.TotalMatchesLines() {
		return &model.ValidationError{Field: "total_price", Reason: "total does not match lines"}
	}
	if err := model.ValidateAmount("total_price", order.TotalPrice); err != nil {
		return err
	}
	if !order.PickupTime.After(now) {
		return &model.ValidationError{Field: "pickup_time", Reason: "pickup time must be in the future"}
	}

	return nil
}

// ValidateRegistration проверяет данные новой учётной записи.
func ValidateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &model.ValidationError{Field: "password", Reason: "too short"}
	}
	return nil
}

// ValidateEmail проверяет, что строка является одиночным адресом без отображаемого имени.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &model.ValidationError{Field: "email", Reason: "malformed address"}
	}
	return nil
}
