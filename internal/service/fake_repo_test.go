package service

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

type inTxKey struct{}

// fakeRepo хранит данные в памяти. RunInTx держит общий мьютекс всю транзакцию
// (аналог блокировки строк) и восстанавливает снимок состояния при ошибке.
type fakeRepo struct {
	mu sync.Mutex

	users  map[int64]model.Account
	orders map[int64]model.Order
	menu   map[int64]model.MenuItem

	nextUserID  int64
	nextOrderID int64
	nextMenuID  int64

	// failOrderLines имитирует сбой вставки строк после успешной вставки заголовка.
	failOrderLines  error
	failUpdateUser  error
	failUpdateOrder error

	txCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:  map[int64]model.Account{},
		orders: map[int64]model.Order{},
		menu:   map[int64]model.MenuItem{},
	}
}

func (f *fakeRepo) Close() error { return nil }

func (f *fakeRepo) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.txCalls++

	users, orders, menu := maps.Clone(f.users), maps.Clone(f.orders), maps.Clone(f.menu)
	nextUser, nextOrder, nextMenu := f.nextUserID, f.nextOrderID, f.nextMenuID

	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		f.users, f.orders, f.menu = users, orders, menu
		f.nextUserID, f.nextOrderID, f.nextMenuID = nextUser, nextOrder, nextMenu
		return err
	}
	return nil
}

func (f *fakeRepo) lock(ctx context.Context) func() {
	if ctx.Value(inTxKey{}) != nil {
		return func() {}
	}
	f.mu.Lock()
	return f.mu.Unlock
}

func (f *fakeRepo) addUser(a model.Account) model.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUserID++
	a.ID = f.nextUserID
	f.users[a.ID] = a
	return a
}

func (f *fakeRepo) addMenuItem(item model.MenuItem) model.MenuItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMenuID++
	item.ID = f.nextMenuID
	f.menu[item.ID] = item
	return item
}

func (f *fakeRepo) user(id int64) model.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

func (f *fakeRepo) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeRepo) CreateUser(ctx context.Context, account model.Account) (model.Account, error) {
	defer f.lock(ctx)()
	for _, u := range f.users {
		if u.Email == account.Email {
			return model.Account{}, &model.ConflictError{Reason: "email taken"}
		}
	}
	f.nextUserID++
	account.ID = f.nextUserID
	f.users[account.ID] = account
	return account, nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id int64) (model.Account, error) {
	defer f.lock(ctx)()
	a, ok := f.users[id]
	if !ok {
		return model.Account{}, &model.NotFoundError{Entity: "user", ID: strconv.FormatInt(id, 10)}
	}
	return a, nil
}

func (f *fakeRepo) LockUser(ctx context.Context, id int64) (model.Account, error) {
	return f.GetUserByID(ctx, id)
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (model.Account, error) {
	defer f.lock(ctx)()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.Account{}, &model.NotFoundError{Entity: "user", ID: email}
}

func (f *fakeRepo) UpdateUser(ctx context.Context, account model.Account) error {
	defer f.lock(ctx)()
	if f.failUpdateUser != nil {
		return f.failUpdateUser
	}
	if _, ok := f.users[account.ID]; !ok {
		return &model.NotFoundError{Entity: "user", ID: strconv.FormatInt(account.ID, 10)}
	}
	f.users[account.ID] = account
	return nil
}

func (f *fakeRepo) ListUsers(ctx context.Context) ([]model.Account, error) {
	defer f.lock(ctx)()
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	res := make([]model.Account, 0, len(ids))
	for _, id := range ids {
		res = append(res, f.users[id])
	}
	return res, nil
}

func (f *fakeRepo) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	defer f.lock(ctx)()
	f.nextOrderID++
	order.ID = f.nextOrderID
	header := order.WithStatus(order.Status)
	header.Lines = nil
	f.orders[order.ID] = header

	if f.failOrderLines != nil {
		return model.Order{}, f.failOrderLines
	}

	f.orders[order.ID] = order.WithStatus(order.Status)
	return order, nil
}

func (f *fakeRepo) UpdateOrder(ctx context.Context, order model.Order) error {
	defer f.lock(ctx)()
	if f.failUpdateOrder != nil {
		return f.failUpdateOrder
	}
	if _, ok := f.orders[order.ID]; !ok {
		return &model.NotFoundError{Entity: "order", ID: strconv.FormatInt(order.ID, 10)}
	}
	f.orders[order.ID] = order.WithStatus(order.Status)
	return nil
}

func (f *fakeRepo) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	defer f.lock(ctx)()
	o, ok := f.orders[id]
	if !ok {
		return model.Order{}, &model.NotFoundError{Entity: "order", ID: strconv.FormatInt(id, 10)}
	}
	return o.WithStatus(o.Status), nil
}

func (f *fakeRepo) GetOrderForUpdate(ctx context.Context, id int64) (model.Order, error) {
	return f.GetOrder(ctx, id)
}

func (f *fakeRepo) ListOrders(ctx context.Context) ([]model.Order, error) {
	defer f.lock(ctx)()
	res := make([]model.Order, 0, len(f.orders))
	for _, o := range f.orders {
		res = append(res, o)
	}
	slices.SortFunc(res, func(a, b model.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	return res, nil
}

func (f *fakeRepo) DeleteOrder(ctx context.Context, id int64) error {
	defer f.lock(ctx)()
	if _, ok := f.orders[id]; !ok {
		return &model.NotFoundError{Entity: "order", ID: strconv.FormatInt(id, 10)}
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeRepo) CreateMenuItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	defer f.lock(ctx)()
	f.nextMenuID++
	item.ID = f.nextMenuID
	f.menu[item.ID] = item
	return item, nil
}

func (f *fakeRepo) GetMenuItem(ctx context.Context, id int64) (model.MenuItem, error) {
	defer f.lock(ctx)()
	item, ok := f.menu[id]
	if !ok {
		return model.MenuItem{}, &model.NotFoundError{Entity: "menu item", ID: strconv.FormatInt(id, 10)}
	}
	return item, nil
}

func (f *fakeRepo) ListMenuItems(ctx context.Context, onlyAvailable bool) ([]model.MenuItem, error) {
	defer f.lock(ctx)()
	var res []model.MenuItem
	ids := make([]int64, 0, len(f.menu))
	for id := range f.menu {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if item := f.menu[id]; item.Available || !onlyAvailable {
			res = append(res, item)
		}
	}
	return res, nil
}

func (f *fakeRepo) UpdateMenuItem(ctx context.Context, item model.MenuItem) error {
	defer f.lock(ctx)()
	if _, ok := f.menu[item.ID]; !ok {
		return &model.NotFoundError{Entity: "menu item", ID: strconv.FormatInt(item.ID, 10)}
	}
	f.menu[item.ID] = item
	return nil
}

// stubCredentials хеширует пароль обратимым префиксом.
type stubCredentials struct {
	hashErr error
}

func (c stubCredentials) Hash(password string) (string, error) {
	if c.hashErr != nil {
		return "", c.hashErr
	}
	return "hashed:" + password, nil
}

func (c stubCredentials) Verify(password, hash string) bool {
	return hash == "hashed:"+password
}
