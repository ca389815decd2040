package application

import (
	"context"
	"time"

	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/domain"
)

// PersistenceGateway is the external service of record for orders. The
// submission flow depends on nothing beyond this contract.
type PersistenceGateway interface {
	CreateOrder(ctx context.Context, data domain.CreateOrderData) (domain.OrderRecord, error)
}

// OrderRepository is the full store surface the backend API exposes on top
// of the gateway contract.
type OrderRepository interface {
	PersistenceGateway
	OrdersByDateRange(ctx context.Context, from, to time.Time) ([]domain.OrderRecord, error)
	TodayOrders(ctx context.Context) ([]domain.OrderRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

// LinkOpener performs the outbound side effect of opening the WhatsApp
// destination. The pipeline fires it and does not wait on the outcome.
type LinkOpener interface {
	Open(uri string) error
}
