// Package service реализует бизнес-логику оформления и сопровождения заказов кафе.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
// Методы, вызванные с контекстом из RunInTx, выполняются в одной транзакции.
type Repository interface {
	Close() error
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	CreateUser(ctx context.Context, account model.Account) (model.Account, error)
	GetUserByID(ctx context.Context, id int64) (model.Account, error)
	GetUserByEmail(ctx context.Context, email string) (model.Account, error)
	LockUser(ctx context.Context, id int64) (model.Account, error)
	UpdateUser(ctx context.Context, account model.Account) error
	ListUsers(ctx context.Context) ([]model.Account, error)

	CreateOrder(ctx context.Context, order model.Order) (model.Order, error)
	UpdateOrder(ctx context.Context, order model.Order) error
	GetOrder(ctx context.Context, id int64) (model.Order, error)
	GetOrderForUpdate(ctx context.Context, id int64) (model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	CreateMenuItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (model.MenuItem, error)
	ListMenuItems(ctx context.Context, onlyAvailable bool) ([]model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item model.MenuItem) error
}

// Credentials хеширует и проверяет пароли.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Service содержит бизнес-логику сервиса заказов.
type Service struct {
	repo        Repository
	credentials Credentials
	logger      *zap.Logger
	now         func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием, проверкой паролей и логгером.
func NewService(repo Repository, credentials Credentials, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		credentials: credentials,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// classify пропускает бизнес-ошибки как есть, остальные оборачивает в *model.PersistenceError.
func classify(op string, err error) error {
	if err == nil || model.IsDomain(err) {
		return err
	}
	var pErr *model.PersistenceError
	if errors.As(err, &pErr) {
		return err
	}
	return &model.PersistenceError{Op: op, Err: err}
}

func (s *Service) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if model.IsDomain(err) {
		s.logger.Warn(msg, fields...)
		return
	}
	s.logger.Error(msg, fields...)
}
