// Package lifecycle описывает допустимые переходы статусов заказа.
package lifecycle

import "github.com/mmeshcher/cafe-orders/internal/model"

var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusNew: {model.OrderStatusCompleted, model.OrderStatusCancelled},
}

// CanTransition сообщает, разрешён ли переход from -> to.
func CanTransition(from, to model.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal сообщает, что из статуса нет переходов.
func IsTerminal(s model.OrderStatus) bool {
	return len(transitions[s]) == 0
}

// Target возвращает итоговый статус финализации.
func Target(success bool) model.OrderStatus {
	if success {
		return model.OrderStatusCompleted
	}
	return model.OrderStatusCancelled
}

// Finalize переводит заказ из NEW в COMPLETED или CANCELLED и возвращает копию.
// Повторная финализация отклоняется с *model.InvalidStateError.
func Finalize(order model.Order, success bool) (model.Order, error) {
	to := Target(success)
	if !CanTransition(order.Status, to) {
		return order, &model.InvalidStateError{OrderID: order.ID, Status: order.Status}
	}
	return order.WithStatus(to), nil
}
