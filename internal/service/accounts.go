package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/cafe-orders/internal/loyalty"
	"github.com/mmeshcher/cafe-orders/internal/model"
	"github.com/mmeshcher/cafe-orders/internal/validation"
)

// Register регистрирует покупателя с нулевым балансом и начальными бонусными баллами.
func (s *Service) Register(ctx context.Context, name, email, password string) (model.Account, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateRegistration(name, email, password); err != nil {
		return model.Account{}, err
	}

	_, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return model.Account{}, &model.ConflictError{Reason: "email " + email + " already registered"}
	case !errors.Is(err, model.ErrNotFound):
		return model.Account{}, classify("register", err)
	}

	hash, err := s.credentials.Hash(password)
	if err != nil {
		return model.Account{}, classify("register", err)
	}

	account, err := s.repo.CreateUser(ctx, model.Account{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Balance:       decimal.Zero,
		LoyaltyPoints: loyalty.InitialPoints,
		Role:          model.RoleCustomer,
	})
	if err != nil {
		return model.Account{}, classify("register", err)
	}

	s.logger.Info("user registered", zap.Int64("userID", account.ID), zap.String("email", account.Email))
	return account, nil
}

// Authenticate проверяет email и пароль и возвращает учётную запись.
func (s *Service) Authenticate(ctx context.Context, email, password string) (model.Account, error) {
	account, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, model.ErrInvalidCredentials
		}
		return model.Account{}, classify("authenticate", err)
	}

	if !s.credentials.Verify(password, account.PasswordHash) {
		return model.Account{}, model.ErrInvalidCredentials
	}

	return account, nil
}

// SetLoyaltyPoints устанавливает бонусные баллы; отрицательное значение одновременно блокирует учётную запись.
func (s *Service) SetLoyaltyPoints(ctx context.Context, userID int64, points decimal.Decimal) (model.Account, error) {
	if err := model.ValidateAmount("loyalty_points", points); err != nil {
		return model.Account{}, err
	}

	account, err := s.mutateAccount(ctx, "set loyalty points", userID, func(a model.Account) (model.Account, error) {
		return loyalty.SetPoints(a, points), nil
	})
	if err != nil {
		return model.Account{}, err
	}

	s.logger.Info("loyalty points changed",
		zap.Int64("userID", userID),
		zap.String("points", points.String()),
		zap.Bool("blocked", account.Blocked),
	)
	return account, nil
}

// BlockAccount запрещает учётной записи оформлять заказы.
func (s *Service) BlockAccount(ctx context.Context, userID int64) (model.Account, error) {
	return s.setBlocked(ctx, userID, true)
}

// UnblockAccount снимает блокировку.
func (s *Service) UnblockAccount(ctx context.Context, userID int64) (model.Account, error) {
	return s.setBlocked(ctx, userID, false)
}

func (s *Service) setBlocked(ctx context.Context, userID int64, blocked bool) (model.Account, error) {
	account, err := s.mutateAccount(ctx, "set blocked", userID, func(a model.Account) (model.Account, error) {
		a.Blocked = blocked
		return a, nil
	})
	if err != nil {
		return model.Account{}, err
	}

	s.logger.Info("blocked status changed", zap.Int64("userID", userID), zap.Bool("blocked", blocked))
	return account, nil
}

// GrantStaffRole назначает учётной записи роль сотрудника.
func (s *Service) GrantStaffRole(ctx context.Context, userID int64) (model.Account, error) {
	account, err := s.mutateAccount(ctx, "grant staff role", userID, func(a model.Account) (model.Account, error) {
		if a.Role == model.RoleStaff {
			return a, &model.ConflictError{Reason: "user is already staff"}
		}
		a.Role = model.RoleStaff
		return a, nil
	})
	if err != nil {
		return model.Account{}, err
	}

	s.logger.Info("staff role granted", zap.Int64("userID", userID))
	return account, nil
}

// mutateAccount читает учётную запись под блокировкой, применяет fn и сохраняет результат в одной транзакции.
func (s *Service) mutateAccount(ctx context.Context, op string, userID int64, fn func(model.Account) (model.Account, error)) (model.Account, error) {
	var updated model.Account
	err := s.repo.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.LockUser(ctx, userID)
		if err != nil {
			return err
		}

		updated, err = fn(current)
		if err != nil {
			return err
		}

		return s.repo.UpdateUser(ctx, updated)
	})
	if err != nil {
		err = classify(op, err)
		s.logFailure(op+" failed", err, zap.Int64("userID", userID))
		return model.Account{}, err
	}
	return updated, nil
}

// GetAccount возвращает учётную запись по идентификатору.
func (s *Service) GetAccount(ctx context.Context, userID int64) (model.Account, error) {
	account, err := s.repo.GetUserByID(ctx, userID)
	return account, classify("get account", err)
}

// ListAccounts возвращает все учётные записи.
func (s *Service) ListAccounts(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.repo.ListUsers(ctx)
	return accounts, classify("list accounts", err)
}
