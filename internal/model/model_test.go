package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_TotalFromSnapshots(t *testing.T) {
	latte := MenuItem{ID: 1, Name: "Latte", Price: decimal.RequireFromString("3.25")}
	bagel := MenuItem{ID: 2, Name: "Bagel", Price: decimal.RequireFromString("1.00")}

	lines := []OrderLine{NewOrderLine(latte, 2), NewOrderLine(bagel, 1)}
	order, err := NewOrder(7, lines, time.Now().Add(time.Hour), PaymentAccount)
	require.NoError(t, err)

	assert.Equal(t, "7.50", order.TotalPrice.StringFixed(2))
	assert.Equal(t, OrderStatusNew, order.Status)
	assert.True(t, order.TotalMatchesLines())

	latte.Price = decimal.RequireFromString("9.99")
	assert.Equal(t, "3.25", order.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "7.50", order.TotalPrice.StringFixed(2))
}

func TestNewOrder_MergesSameMenuItem(t *testing.T) {
	tea := MenuItem{ID: 3, Name: "Tea", Price: decimal.RequireFromString("2.00")}

	order, err := NewOrder(1, []OrderLine{NewOrderLine(tea, 1), NewOrderLine(tea, 2)}, time.Now(), PaymentOther)
	require.NoError(t, err)

	require.Len(t, order.Lines, 1)
	assert.Equal(t, 3, order.Lines[0].Quantity)
	assert.Equal(t, "6.00", order.TotalPrice.StringFixed(2))
}

func TestNewOrder_Validation(t *testing.T) {
	item := MenuItem{ID: 1, Name: "Espresso", Price: decimal.RequireFromString("2.10")}

	tests := []struct {
		name   string
		lines  []OrderLine
		method PaymentMethod
		field  string
	}{
		{name: "no lines", lines: nil, method: PaymentAccount, field: "lines"},
		{name: "zero quantity", lines: []OrderLine{NewOrderLine(item, 0)}, method: PaymentAccount, field: "quantity"},
		{name: "unknown method", lines: []OrderLine{NewOrderLine(item, 1)}, method: "CASH", field: "payment_method"},
		{
			name:   "negative price",
			lines:  []OrderLine{{MenuItemID: 1, Name: "x", UnitPrice: decimal.NewFromInt(-1), Quantity: 1}},
			method: PaymentOther,
			field:  "unit_price",
		},
		{
			name:   "fraction of a cent",
			lines:  []OrderLine{{MenuItemID: 1, Name: "x", UnitPrice: decimal.RequireFromString("1.005"), Quantity: 1}},
			method: PaymentOther,
			field:  "unit_price",
		},
		{
			name:   "merged quantity overflows",
			lines:  []OrderLine{NewOrderLine(item, MaxQuantity), NewOrderLine(item, 1)},
			method: PaymentOther,
			field:  "quantity",
		},
		{
			name:   "total out of range",
			lines:  []OrderLine{{MenuItemID: 1, Name: "x", UnitPrice: MaxAmount, Quantity: 2}},
			method: PaymentOther,
			field:  "total_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(1, tt.lines, time.Now(), tt.method)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount  string
		wantErr bool
	}{
		{amount: "7.50"},
		{amount: "7.500"},
		{amount: "-0.01"},
		{amount: "9999999999.99"},
		{amount: "-0.004", wantErr: true},
		{amount: "1.005", wantErr: true},
		{amount: "10000000000.00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := ValidateAmount("price", decimal.RequireFromString(tt.amount))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "price", vErr.Field)
		})
	}
}

func TestOrder_WithLinesRecomputesTotal(t *testing.T) {
	item := MenuItem{ID: 1, Name: "Muffin", Price: decimal.RequireFromString("2.50")}
	order, err := NewOrder(1, []OrderLine{NewOrderLine(item, 1)}, time.Now(), PaymentOther)
	require.NoError(t, err)

	updated, err := order.WithLines([]OrderLine{NewOrderLine(item, 4)})
	require.NoError(t, err)

	assert.Equal(t, "10.00", updated.TotalPrice.StringFixed(2))
	assert.Equal(t, "2.50", order.TotalPrice.StringFixed(2))
}

func TestOrder_WithStatusDoesNotAlias(t *testing.T) {
	item := MenuItem{ID: 1, Name: "Muffin", Price: decimal.RequireFromString("2.50")}
	order, err := NewOrder(1, []OrderLine{NewOrderLine(item, 1)}, time.Now(), PaymentOther)
	require.NoError(t, err)

	done := order.WithStatus(OrderStatusCompleted)
	done.Lines[0].Quantity = 10

	assert.Equal(t, OrderStatusNew, order.Status)
	assert.Equal(t, 1, order.Lines[0].Quantity)
}

func TestErrors_UnwrapToSentinels(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		err      error
		sentinel error
		domain   bool
	}{
		{&ValidationError{Field: "email", Reason: "empty"}, ErrValidation, true},
		{&AccessDeniedError{Reason: "account blocked"}, ErrAccessDenied, true},
		{&InsufficientFundsError{AccountID: 1}, ErrInsufficientFunds, true},
		{&NotFoundError{Entity: "order", ID: "1"}, ErrNotFound, true},
		{&ConflictError{Reason: "email taken"}, ErrConflict, true},
		{&InvalidStateError{OrderID: 1, Status: OrderStatusCompleted}, ErrInvalidState, true},
		{&PersistenceError{Op: "create order", Err: cause}, ErrPersistence, false},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, tt.err, tt.sentinel, tt.err.Error())
		assert.Equal(t, tt.domain, IsDomain(tt.err), tt.err.Error())
	}

	assert.ErrorIs(t, &PersistenceError{Op: "x", Err: cause}, cause)
}
