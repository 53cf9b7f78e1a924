package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/cafe-orders/internal/ledger"
	"github.com/mmeshcher/cafe-orders/internal/lifecycle"
	"github.com/mmeshcher/cafe-orders/internal/model"
	"github.com/mmeshcher/cafe-orders/internal/policy"
	"github.com/mmeshcher/cafe-orders/internal/validation"
)

// LineRequest описывает позицию меню и количество при сборке заказа.
type LineRequest struct {
	MenuItemID int64
	Quantity   int
}

// PrepareOrder собирает заказ по текущему меню: цены фиксируются на момент вызова,
// недоступные позиции отклоняются.
func (s *Service) PrepareOrder(ctx context.Context, userID int64, lines []LineRequest, pickupTime time.Time, method model.PaymentMethod) (model.Order, error) {
	orderLines := make([]model.OrderLine, 0, len(lines))
	for _, l := range lines {
		item, err := s.repo.GetMenuItem(ctx, l.MenuItemID)
		if err != nil {
			return model.Order{}, classify("prepare order", err)
		}
		if !item.Available {
			return model.Order{}, &model.ValidationError{
				Field:  "menu_item_id",
				Reason: "menu item " + strconv.FormatInt(item.ID, 10) + " is not available",
			}
		}
		orderLines = append(orderLines, model.NewOrderLine(item, l.Quantity))
	}

	return model.NewOrder(userID, orderLines, pickupTime, method)
}

// PlaceOrder оформляет заказ от имени учётной записи.
// Проверка доступа, списание с баланса, сохранение заказа и нового баланса выполняются одной транзакцией:
// при любой ошибке ни одно изменение не сохраняется. Возвращает сохранённый заказ и состояние учётной записи после оформления.
func (s *Service) PlaceOrder(ctx context.Context, account model.Account, order model.Order) (model.Order, model.Account, error) {
	if err := policy.CanPlaceOrder(account); err != nil {
		s.logFailure("order placement denied", err, zap.Int64("userID", account.ID))
		return model.Order{}, account, err
	}

	if order.UserID != account.ID {
		return model.Order{}, account, &model.ValidationError{Field: "user_id", Reason: "order belongs to another account"}
	}

	now := s.now()
	if err := validation.ValidateOrder(order, now); err != nil {
		return model.Order{}, account, err
	}
	order.CreatedAt = now

	var (
		placed  model.Order
		updated model.Account
	)
	err := s.repo.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.LockUser(ctx, account.ID)
		if err != nil {
			return err
		}

		// Состояние могло измениться после того, как вызывающий прочитал учётную запись.
		if err := policy.CanPlaceOrder(current); err != nil {
			return err
		}

		debit := order.PaymentMethod == model.PaymentAccount
		if debit {
			current, err = ledger.Debit(current, order.TotalPrice)
			if err != nil {
				return err
			}
		}

		placed, err = s.repo.CreateOrder(ctx, order)
		if err != nil {
			return err
		}

		if debit {
			if err := s.repo.UpdateUser(ctx, current); err != nil {
				return err
			}
		}

		updated = current
		return nil
	})
	if err != nil {
		err = classify("place order", err)
		s.logFailure("place order failed", err,
			zap.Int64("userID", account.ID),
			zap.String("total", order.TotalPrice.StringFixed(2)),
			zap.String("paymentMethod", string(order.PaymentMethod)),
		)
		return model.Order{}, account, err
	}

	s.logger.Info("order placed",
		zap.Int64("orderID", placed.ID),
		zap.Int64("userID", updated.ID),
		zap.String("total", placed.TotalPrice.StringFixed(2)),
		zap.String("balance", updated.Balance.StringFixed(2)),
	)

	return placed, updated, nil
}

// FinalizeOrder переводит заказ из NEW в COMPLETED (success) или CANCELLED.
// Заказ в конечном статусе не меняется, возвращается *model.InvalidStateError.
func (s *Service) FinalizeOrder(ctx context.Context, orderID int64, success bool) (model.Order, error) {
	var finalized model.Order
	err := s.repo.RunInTx(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		finalized, err = lifecycle.Finalize(order, success)
		if err != nil {
			return err
		}

		return s.repo.UpdateOrder(ctx, finalized)
	})
	if err != nil {
		err = classify("finalize order", err)
		s.logFailure("finalize order failed", err, zap.Int64("orderID", orderID), zap.Bool("success", success))
		return model.Order{}, err
	}

	s.logger.Info("order finalized", zap.Int64("orderID", orderID), zap.String("status", string(finalized.Status)))
	return finalized, nil
}

// GetOrder возвращает заказ со строками.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (model.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	return order, classify("get order", err)
}

// ListOrders возвращает все заказы, новые первыми.
func (s *Service) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	return orders, classify("list orders", err)
}

// DeleteOrder удаляет заказ вместе со строками.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := s.repo.DeleteOrder(ctx, orderID); err != nil {
		return classify("delete order", err)
	}
	s.logger.Info("order deleted", zap.Int64("orderID", orderID))
	return nil
}
