// Package memory is the in-process order store used in dev mode and tests.
// It honours the same contract as the postgres repository.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/domain"
)

type Repository struct {
	mu     sync.Mutex
	orders map[string]domain.OrderRecord

	// failWith, when set, makes the next CreateOrder fail. Test hook for the
	// persistence-failure path.
	failWith error
}

func NewRepository() *Repository {
	return &Repository{orders: make(map[string]domain.OrderRecord)}
}

// FailNextCreate injects an error into the next CreateOrder call.
func (r *Repository) FailNextCreate(err error) {
	r.mu.Lock()
	r.failWith = err
	r.mu.Unlock()
}

func (r *Repository) CreateOrder(_ context.Context, data domain.CreateOrderData) (domain.OrderRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		err := r.failWith
		r.failWith = nil
		return domain.OrderRecord{}, err
	}

	now := time.Now().UTC()
	rec := domain.OrderRecord{
		ID:              uuid.NewString(),
		CustomerName:    data.CustomerName,
		CustomerPhone:   data.CustomerPhone,
		CustomerAddress: data.CustomerAddress,
		DeliveryDate:    data.DeliveryDate,
		PaymentMethod:   data.PaymentMethod,
		SpecialNotes:    data.SpecialNotes,
		TotalAmount:     data.TotalAmount(),
		OrderDate:       now,
		Status:          domain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, it := range data.Items {
		rec.Items = append(rec.Items, domain.OrderItemRecord{
			ID:        uuid.NewString(),
			OrderID:   rec.ID,
			ItemID:    it.ItemID,
			ItemName:  it.ItemName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  domain.Round2(float64(it.Quantity) * it.UnitPrice),
			Notes:     it.Notes,
		})
	}
	r.orders[rec.ID] = rec
	return rec, nil
}

func (r *Repository) OrdersByDateRange(_ context.Context, from, to time.Time) ([]domain.OrderRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.OrderRecord
	for _, o := range r.orders {
		if !o.OrderDate.Before(from) && o.OrderDate.Before(to) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (r *Repository) TodayOrders(ctx context.Context) ([]domain.OrderRecord, error) {
	from, to := domain.TodayWindow(time.Now())
	return r.OrdersByDateRange(ctx, from, to)
}

func (r *Repository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	r.orders[id] = o
	return nil
}

func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}
