package domain

import (
	"errors"
	"math"
	"time"
)

// ErrOrderNotFound is returned by any store when the order id is unknown.
var ErrOrderNotFound = errors.New("order not found")

type PaymentMethod string

const (
	PaymentYappy         PaymentMethod = "Yappy"
	PaymentEfectivo      PaymentMethod = "Efectivo"
	PaymentTransferencia PaymentMethod = "Transferencia"
	PaymentCheque        PaymentMethod = "Cheque"
)

func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentYappy, PaymentEfectivo, PaymentTransferencia, PaymentCheque}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentYappy, PaymentEfectivo, PaymentTransferencia, PaymentCheque:
		return true
	}
	return false
}

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CheckoutForm is the transient customer/delivery/payment input for one
// checkout. It lives for the duration of the checkout screen only and is
// never persisted as an entity.
type CheckoutForm struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	DeliveryDate    *time.Time
	PaymentMethod   PaymentMethod
	SpecialNotes    string
}

// CreateOrderData is the payload handed to the persistence gateway.
type CreateOrderData struct {
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	DeliveryDate    *time.Time      `json:"delivery_date,omitempty"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	SpecialNotes    string          `json:"special_notes,omitempty"`
	Items           []OrderItemData `json:"items"`
}

type OrderItemData struct {
	ItemID    string  `json:"item_id"`
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Notes     string  `json:"notes,omitempty"`
}

// TotalAmount is Σ quantity×unit_price over the items, rounded to cents.
func (d CreateOrderData) TotalAmount() float64 {
	total := 0.0
	for _, it := range d.Items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return Round2(total)
}

// OrderRecord is the durable order as the store returns it. The submission
// flow only reads ID and the success signal; the query API exposes the rest.
type OrderRecord struct {
	ID              string            `json:"id"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerAddress string            `json:"customer_address"`
	DeliveryDate    *time.Time        `json:"delivery_date,omitempty"`
	PaymentMethod   PaymentMethod     `json:"payment_method"`
	SpecialNotes    string            `json:"special_notes,omitempty"`
	TotalAmount     float64           `json:"total_amount"`
	OrderDate       time.Time         `json:"order_date"`
	Status          OrderStatus       `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Items           []OrderItemRecord `json:"items,omitempty"`
}

type OrderItemRecord struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	ItemID    string  `json:"item_id"`
	ItemName  string  `json:"item_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
	Notes     string  `json:"notes,omitempty"`
}

// Round2 rounds to two decimals, the precision every price, subtotal and
// stored total carries.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
