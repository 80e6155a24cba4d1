package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentCancelled, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodDebitCard  PaymentMethod = "debit_card"
	MethodPaypal     PaymentMethod = "paypal"
	MethodCash       PaymentMethod = "cash"
	MethodUPI        PaymentMethod = "upi"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPaypal, MethodCash, MethodUPI:
		return true
	}
	return false
}

// Payment is a per-restaurant monetary obligation derived from an order.
// It holds a non-owning back-reference to the order; for one order the
// payment amounts sum to the order total and the MenuItemIDs sets are a
// disjoint cover of the order's item ids.
type Payment struct {
	ID           string        `json:"id"`
	OrderID      string        `json:"orderId"`
	RestaurantID string        `json:"restaurantId"`
	MenuItemIDs  []string      `json:"menuItemIds"`
	AmountCents  int64         `json:"amountCents"`
	Status       PaymentStatus `json:"status"`
	Method       PaymentMethod `json:"method"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
