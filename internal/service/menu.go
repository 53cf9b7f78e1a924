package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

// AddMenuItem добавляет доступную позицию меню.
func (s *Service) AddMenuItem(ctx context.Context, name, description string, price decimal.Decimal) (model.MenuItem, error) {
	item := model.MenuItem{
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Available:   true,
	}
	if err := validateMenuItem(item); err != nil {
		return model.MenuItem{}, err
	}

	created, err := s.repo.CreateMenuItem(ctx, item)
	if err != nil {
		return model.MenuItem{}, classify("add menu item", err)
	}

	s.logger.Info("menu item added", zap.Int64("menuItemID", created.ID), zap.String("price", created.Price.StringFixed(2)))
	return created, nil
}

// UpdateMenuItem меняет позицию меню; на оформленные заказы это не влияет.
func (s *Service) UpdateMenuItem(ctx context.Context, item model.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	return classify("update menu item", s.repo.UpdateMenuItem(ctx, item))
}

// GetMenuItem возвращает позицию меню.
func (s *Service) GetMenuItem(ctx context.Context, id int64) (model.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	return item, classify("get menu item", err)
}

// ListMenu возвращает меню.
func (s *Service) ListMenu(ctx context.Context, onlyAvailable bool) ([]model.MenuItem, error) {
	items, err := s.repo.ListMenuItems(ctx, onlyAvailable)
	return items, classify("list menu", err)
}

func validateMenuItem(item model.MenuItem) error {
	if item.Name == "" {
		return &model.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if item.Price.IsNegative() {
		return &model.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return model.ValidateAmount("price", item.Price)
}
