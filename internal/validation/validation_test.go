package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/cafe-orders/internal/model"
)

func validOrder(t *testing.T, now time.Time) model.Order {
	t.Helper()

	item := model.MenuItem{ID: 1, Name: "Flat white", Price: decimal.RequireFromString("3.75")}
	order, err := model.NewOrder(1, []model.OrderLine{model.NewOrderLine(item, 2)}, now.Add(30*time.Minute), model.PaymentAccount)
	require.NoError(t, err)
	return order
}

func TestValidateOrder(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(o *model.Order)
		field  string
	}{
		{name: "valid", mutate: func(o *model.Order) {}},
		{name: "already persisted", mutate: func(o *model.Order) { o.ID = 5 }, field: "id"},
		{name: "not new", mutate: func(o *model.Order) { o.Status = model.OrderStatusCompleted }, field: "status"},
		{name: "bad method", mutate: func(o *model.Order) { o.PaymentMethod = "CARD" }, field: "payment_method"},
		{name: "no lines", mutate: func(o *model.Order) { o.Lines = nil }, field: "lines"},
		{name: "zero quantity", mutate: func(o *model.Order) { o.Lines[0].Quantity = 0 }, field: "quantity"},
		{name: "duplicate item", mutate: func(o *model.Order) { o.Lines = append(o.Lines, o.Lines[0]) }, field: "lines"},
		{name: "edited total", mutate: func(o *model.Order) { o.TotalPrice = decimal.NewFromInt(1) }, field: "total_price"},
		{
			name: "fraction of a cent",
			mutate: func(o *model.Order) {
				o.Lines[0].UnitPrice = decimal.RequireFromString("3.755")
				o.TotalPrice = model.SumLines(o.Lines)
			},
			field: "unit_price",
		},
		{name: "pickup in past", mutate: func(o *model.Order) { o.PickupTime = now.Add(-time.Minute) }, field: "pickup_time"},
		{name: "pickup now", mutate: func(o *model.Order) { o.PickupTime = now }, field: "pickup_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder(t, now)
			tt.mutate(&o)

			err := ValidateOrder(o, now)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *model.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		email    string
		password string
		field    string
	}{
		{name: "valid", user: "Ann", email: "ann@example.com", password: "secret1"},
		{name: "blank name", user: "  ", email: "ann@example.com", password: "secret1", field: "name"},
		{name: "bad email", user: "Ann", email: "ann-at-example", password: "secret1", field: "email"},
		{name: "display name", user: "Ann", email: "Ann <ann@example.com>", password: "secret1", field: "email"},
		{name: "short password", user: "Ann", email: "ann@example.com", password: "123", field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.user, tt.email, tt.password)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *model.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
