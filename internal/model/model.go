// Package model содержит доменные сущности сервиса заказов кафе.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role описывает роль учётной записи.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
)

// Valid сообщает, является ли значение известной ролью.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleStaff
}

// PaymentMethod описывает способ оплаты заказа.
type PaymentMethod string

const (
	PaymentAccount PaymentMethod = "ACCOUNT"
	PaymentOther   PaymentMethod = "OTHER"
)

// Valid сообщает, является ли значение известным способом оплаты.
func (p PaymentMethod) Valid() bool {
	return p == PaymentAccount || p == PaymentOther
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid сообщает, является ли значение известным статусом.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Account представляет учётную запись пользователя кафе.
type Account struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	Balance       decimal.Decimal
	LoyaltyPoints decimal.Decimal
	Blocked       bool
	Role          Role
	CreatedAt     time.Time
}

// MenuItem описывает позицию меню.
type MenuItem struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Available   bool
}
