package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

const selectOrderColumns = `SELECT id, user_id, total_price, pickup_time, payment_method, status, created_at FROM orders`

// CreateOrder сохраняет заголовок заказа и все его строки как одно целое и возвращает заказ с присвоенным идентификатором.
// Внутри транзакции из контекста используется точка сохранения.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	tx, err := r.conn(ctx).Begin(ctx)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total_price, pickup_time, payment_method, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		order.UserID, order.TotalPrice, order.PickupTime,
		string(order.PaymentMethod), string(order.Status), createdAt,
	).Scan(&id, &createdAt)
	if err != nil {
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}

	if err := insertOrderLines(ctx, tx, id, order.Lines); err != nil {
		return model.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, fmt.Errorf("commit tx: %w", err)
	}

	stored := order.WithStatus(order.Status)
	stored.ID = id
	stored.CreatedAt = createdAt
	return stored, nil
}

// UpdateOrder полностью заменяет поля заголовка и строки существующего заказа.
func (r *PostgresRepository) UpdateOrder(ctx context.Context, order model.Order) error {
	tx, err := r.conn(ctx).Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx,
		`UPDATE orders
		 SET user_id = $2, total_price = $3, pickup_time = $4, payment_method = $5, status = $6
		 WHERE id = $1`,
		order.ID, order.UserID, order.TotalPrice, order.PickupTime,
		string(order.PaymentMethod), string(order.Status),
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return orderNotFound(order.ID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}

	if err := insertOrderLines(ctx, tx, order.ID, order.Lines); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertOrderLines(ctx context.Context, tx pgx.Tx, orderID int64, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, l := range lines {
		batch.Queue(
			`INSERT INTO order_items (order_id, menu_item_id, line_no, quantity, item_name, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			orderID, l.MenuItemID, i, l.Quantity, l.Name, l.UnitPrice,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}
	return nil
}

// GetOrder возвращает заказ вместе со строками.
func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	return r.getOrder(ctx, id, false)
}

// GetOrderForUpdate возвращает заказ и блокирует его строку до конца транзакции.
func (r *PostgresRepository) GetOrderForUpdate(ctx context.Context, id int64) (model.Order, error) {
	return r.getOrder(ctx, id, true)
}

func (r *PostgresRepository) getOrder(ctx context.Context, id int64, lock bool) (model.Order, error) {
	q := r.conn(ctx)

	query := selectOrderColumns + ` WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	order, err := scanOrder(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, orderNotFound(id)
		}
		return model.Order{}, fmt.Errorf("get order: %w", err)
	}

	lines, err := loadOrderLines(ctx, q, []int64{id})
	if err != nil {
		return model.Order{}, err
	}
	order.Lines = lines[id]

	return order, nil
}

// ListOrders возвращает все заказы, новые первыми.
func (r *PostgresRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	q := r.conn(ctx)

	rows, err := q.Query(ctx, selectOrderColumns+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	lines, err := loadOrderLines(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}

	return orders, nil
}

// DeleteOrder удаляет заказ; строки удаляются каскадно.
func (r *PostgresRepository) DeleteOrder(ctx context.Context, id int64) error {
	cmdTag, err := r.conn(ctx).Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return orderNotFound(id)
	}
	return nil
}

func loadOrderLines(ctx context.Context, q querier, orderIDs []int64) (map[int64][]model.OrderLine, error) {
	rows, err := q.Query(ctx,
		`SELECT order_id, menu_item_id, item_name, unit_price, quantity
		 FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY order_id, line_no`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	res := make(map[int64][]model.OrderLine, len(orderIDs))
	for rows.Next() {
		var (
			orderID int64
			line    model.OrderLine
		)
		if err := rows.Scan(&orderID, &line.MenuItemID, &line.Name, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		res[orderID] = append(res[orderID], line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o      model.Order
		total  decimal.Decimal
		method string
		status string
	)
	if err := row.Scan(&o.ID, &o.UserID, &total, &o.PickupTime, &method, &status, &o.CreatedAt); err != nil {
		return model.Order{}, err
	}
	o.TotalPrice = total
	o.PaymentMethod = model.PaymentMethod(method)
	o.Status = model.OrderStatus(status)
	return o, nil
}

func orderNotFound(id int64) error {
	return &model.NotFoundError{Entity: "order", ID: strconv.FormatInt(id, 10)}
}
