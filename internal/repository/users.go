package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

const selectUserColumns = `SELECT id, name, email, password_hash, account_balance, loyalty_points, blocked, role, created_at FROM users`

// CreateUser создаёт новую учётную запись.
func (r *PostgresRepository) CreateUser(ctx context.Context, account model.Account) (model.Account, error) {
	err := r.conn(ctx).QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, account_balance, loyalty_points, blocked, role)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		account.Name, account.Email, account.PasswordHash, account.Balance,
		account.LoyaltyPoints, account.Blocked, string(account.Role),
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Account{}, emailTaken(account.Email)
		}
		return model.Account{}, fmt.Errorf("create user: %w", err)
	}
	return account, nil
}

// GetUserByID возвращает учётную запись по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (model.Account, error) {
	return r.getUser(ctx, selectUserColumns+` WHERE id = $1`, id)
}

// LockUser возвращает учётную запись и блокирует её строку до конца транзакции.
// Используется для сериализации изменений баланса и баллов.
func (r *PostgresRepository) LockUser(ctx context.Context, id int64) (model.Account, error) {
	return r.getUser(ctx, selectUserColumns+` WHERE id = $1 FOR UPDATE`, id)
}

// GetUserByEmail возвращает учётную запись по email.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (model.Account, error) {
	a, err := scanUser(r.conn(ctx).QueryRow(ctx, selectUserColumns+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, &model.NotFoundError{Entity: "user", ID: email}
		}
		return model.Account{}, fmt.Errorf("get user: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, id int64) (model.Account, error) {
	a, err := scanUser(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, userNotFound(id)
		}
		return model.Account{}, fmt.Errorf("get user: %w", err)
	}
	return a, nil
}

// ListUsers возвращает все учётные записи.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.Account, error) {
	rows, err := r.conn(ctx).Query(ctx, selectUserColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var res []model.Account
	for rows.Next() {
		a, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		res = append(res, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateUser сохраняет все изменяемые поля учётной записи одним запросом.
func (r *PostgresRepository) UpdateUser(ctx context.Context, account model.Account) error {
	cmdTag, err := r.conn(ctx).Exec(ctx,
		`UPDATE users
		 SET name = $2, email = $3, password_hash = $4, account_balance = $5,
		     loyalty_points = $6, blocked = $7, role = $8
		 WHERE id = $1`,
		account.ID, account.Name, account.Email, account.PasswordHash, account.Balance,
		account.LoyaltyPoints, account.Blocked, string(account.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return emailTaken(account.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return userNotFound(account.ID)
	}
	return nil
}

func scanUser(row pgx.Row) (model.Account, error) {
	var (
		a    model.Account
		role string
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Balance,
		&a.LoyaltyPoints, &a.Blocked, &role, &a.CreatedAt)
	if err != nil {
		return model.Account{}, err
	}
	a.Role = model.Role(role)
	return a, nil
}

func userNotFound(id int64) error {
	return &model.NotFoundError{Entity: "user", ID: strconv.FormatInt(id, 10)}
}

func emailTaken(email string) error {
	return &model.ConflictError{Reason: "email " + email + " already registered"}
}
