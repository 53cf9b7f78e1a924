package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

// CreateMenuItem добавляет позицию меню.
func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	err := r.conn(ctx).QueryRow(ctx,
		`INSERT INTO menu_items (name, description, price, is_available) VALUES ($1, $2, $3, $4) RETURNING id`,
		item.Name, item.Description, item.Price, item.Available,
	).Scan(&item.ID)
	if err != nil {
		return model.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	return item, nil
}

// GetMenuItem возвращает позицию меню по идентификатору.
func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int64) (model.MenuItem, error) {
	var item model.MenuItem
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, description, price, is_available FROM menu_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MenuItem{}, &model.NotFoundError{Entity: "menu item", ID: strconv.FormatInt(id, 10)}
		}
		return model.MenuItem{}, fmt.Errorf("get menu item: %w", err)
	}
	return item, nil
}

// ListMenuItems возвращает позиции меню; onlyAvailable оставляет только доступные.
func (r *PostgresRepository) ListMenuItems(ctx context.Context, onlyAvailable bool) ([]model.MenuItem, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, description, price, is_available
		 FROM menu_items
		 WHERE is_available OR NOT $1
		 ORDER BY id`,
		onlyAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("select menu items: %w", err)
	}
	defer rows.Close()

	var res []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Available); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		res = append(res, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateMenuItem сохраняет изменения позиции меню. Уже оформленные заказы не меняются.
func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item model.MenuItem) error {
	cmdTag, err := r.conn(ctx).Exec(ctx,
		`UPDATE menu_items SET name = $2, description = $3, price = $4, is_available = $5 WHERE id = $1`,
		item.ID, item.Name, item.Description, item.Price, item.Available,
	)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return &model.NotFoundError{Entity: "menu item", ID: strconv.FormatInt(item.ID, 10)}
	}
	return nil
}
