package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Сигнальные ошибки; типизированные ошибки ниже разворачиваются в них.
var (
	ErrValidation        = errors.New("validation failed")
	ErrAccessDenied      = errors.New("access denied")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidState      = errors.New("invalid state")
	ErrPersistence       = errors.New("persistence failure")
	// ErrInvalidCredentials возвращается при неизвестном email или неверном пароле.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError описывает некорректные входные данные.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AccessDeniedError описывает отказ политики доступа.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return "access denied: " + e.Reason
}

func (e *AccessDeniedError) Unwrap() error { return ErrAccessDenied }

// InsufficientFundsError возвращается, если баланса не хватает для списания.
type InsufficientFundsError struct {
	AccountID int64
	Balance   decimal.Decimal
	Amount    decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds on account %d: balance %s, required %s",
		e.AccountID, e.Balance.StringFixed(2), e.Amount.StringFixed(2))
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// NotFoundError возвращается, если сущность не найдена по идентификатору.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError описывает конфликт с текущим состоянием данных.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// InvalidStateError возвращается при недопустимом переходе статуса заказа.
type InvalidStateError struct {
	OrderID int64
	Status  OrderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("order %d is in terminal status %s", e.OrderID, e.Status)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// PersistenceError оборачивает сбой хранилища.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap позволяет добраться и до сигнальной ошибки, и до исходной причины.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// IsDomain сообщает, относится ли ошибка к бизнес-исходам, а не к сбоям хранилища.
func IsDomain(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidCredentials)
}
