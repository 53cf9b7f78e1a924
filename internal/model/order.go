package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine описывает строку заказа со снимком позиции меню на момент заказа.
type OrderLine struct {
	MenuItemID int64
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   int
}

// NewOrderLine фиксирует название и цену позиции меню в строке заказа.
func NewOrderLine(item MenuItem, quantity int) OrderLine {
	return OrderLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   quantity,
	}
}

// Subtotal возвращает стоимость строки.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order описывает заказ пользователя.
type Order struct {
	ID            int64
	UserID        int64
	Lines         []OrderLine
	TotalPrice    decimal.Decimal
	PickupTime    time.Time
	PaymentMethod PaymentMethod
	Status        OrderStatus
	CreatedAt     time.Time
}

// NewOrder собирает новый заказ в статусе NEW и один раз вычисляет его итоговую сумму.
// Строки с одной и той же позицией меню объединяются.
func NewOrder(userID int64, lines []OrderLine, pickupTime time.Time, method PaymentMethod) (Order, error) {
	if !method.Valid() {
		return Order{}, &ValidationError{Field: "payment_method", Reason: "unknown payment method " + string(method)}
	}

	merged, err := mergeLines(lines)
	if err != nil {
		return Order{}, err
	}
	total, err := totalOf(merged)
	if err != nil {
		return Order{}, err
	}

	return Order{
		UserID:        userID,
		Lines:         merged,
		TotalPrice:    total,
		PickupTime:    pickupTime,
		PaymentMethod: method,
		Status:        OrderStatusNew,
	}, nil
}

// WithLines возвращает копию заказа с заменённым набором строк и пересчитанной суммой.
func (o Order) WithLines(lines []OrderLine) (Order, error) {
	merged, err := mergeLines(lines)
	if err != nil {
		return Order{}, err
	}
	total, err := totalOf(merged)
	if err != nil {
		return Order{}, err
	}
	o.Lines = merged
	o.TotalPrice = total
	return o, nil
}

// WithStatus возвращает копию заказа с новым статусом.
func (o Order) WithStatus(status OrderStatus) Order {
	o.Lines = slices.Clone(o.Lines)
	o.Status = status
	return o
}

// TotalMatchesLines проверяет, что итоговая сумма равна сумме строк.
func (o Order) TotalMatchesLines() bool {
	return o.TotalPrice.Equal(SumLines(o.Lines))
}

// SumLines возвращает сумму стоимостей строк.
func SumLines(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func mergeLines(lines []OrderLine) ([]OrderLine, error) {
	if len(lines) == 0 {
		return nil, &ValidationError{Field: "lines", Reason: "order must contain at least one line"}
	}

	merged := make([]OrderLine, 0, len(lines))
	index := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, &ValidationError{Field: "quantity", Reason: "quantity must be at least 1"}
		}
		if l.Quantity > MaxQuantity {
			return nil, &ValidationError{Field: "quantity", Reason: "quantity too large"}
		}
		if l.UnitPrice.IsNegative() {
			return nil, &ValidationError{Field: "unit_price", Reason: "unit price must not be negative"}
		}
		if err := ValidateAmount("unit_price", l.UnitPrice); err != nil {
			return nil, err
		}

		if i, ok := index[l.MenuItemID]; ok {
			if !merged[i].UnitPrice.Equal(l.UnitPrice) {
				return nil, &ValidationError{Field: "lines", Reason: "menu item listed with different prices"}
			}
			if merged[i].Quantity > MaxQuantity-l.Quantity {
				return nil, &ValidationError{Field: "quantity", Reason: "quantity too large"}
			}
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.MenuItemID] = len(merged)
		merged = append(merged, l)
	}

	return merged, nil
}

func totalOf(lines []OrderLine) (decimal.Decimal, error) {
	total := SumLines(lines)
	if err := ValidateAmount("total_price", total); err != nil {
		return decimal.Decimal{}, err
	}
	return total, nil
}
