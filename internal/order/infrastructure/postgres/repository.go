// Package postgres is the durable order store. Order and item rows are
// written without a wrapping transaction, mirroring the store of record's
// two-call contract; a failed item insert triggers a compensating delete of
// the parent order so the result is all-or-nothing at the logical level.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) CreateOrder(ctx context.Context, data domain.CreateOrderData) (domain.OrderRecord, error) {
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

	_, err := r.pool.Exec(ctx, `
		INSERT INTO orders (id, customer_name, customer_phone, customer_address,
			delivery_date, payment_method, special_notes, total_amount,
			order_date, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.CustomerName, rec.CustomerPhone, rec.CustomerAddress,
		rec.DeliveryDate, rec.PaymentMethod, rec.SpecialNotes, rec.TotalAmount,
		rec.OrderDate, rec.Status, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range data.Items {
		item := domain.OrderItemRecord{
			ID:        uuid.NewString(),
			OrderID:   rec.ID,
			ItemID:    it.ItemID,
			ItemName:  it.ItemName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  domain.Round2(float64(it.Quantity) * it.UnitPrice),
			Notes:     it.Notes,
		}
		batch.Queue(`
			INSERT INTO order_items (id, order_id, item_id, item_name, quantity, unit_price, subtotal, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			item.ID, item.OrderID, item.ItemID, item.ItemName,
			item.Quantity, item.UnitPrice, item.Subtotal, item.Notes)
		rec.Items = append(rec.Items, item)
	}
	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		// Compensating delete: without the item rows the order row must not
		// survive either.
		if _, delErr := r.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, rec.ID); delErr != nil {
			r.log.Error("compensating delete failed", "order_id", rec.ID, "err", delErr)
		}
		return domain.OrderRecord{}, fmt.Errorf("insert order items: %w", err)
	}

	return rec, nil
}

func (r *Repository) OrdersByDateRange(ctx context.Context, from, to time.Time) ([]domain.OrderRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_name, customer_phone, customer_address, delivery_date,
			payment_method, special_notes, total_amount, order_date, status,
			created_at, updated_at
		FROM orders
		WHERE order_date >= $1 AND order_date < $2
		ORDER BY order_date DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.OrderRecord
	for rows.Next() {
		var o domain.OrderRecord
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress,
			&o.DeliveryDate, &o.PaymentMethod, &o.SpecialNotes, &o.TotalAmount,
			&o.OrderDate, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *Repository) TodayOrders(ctx context.Context) ([]domain.OrderRecord, error) {
	from, to := domain.TodayWindow(time.Now())
	return r.OrdersByDateRange(ctx, from, to)
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=$3 WHERE id=$1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *Repository) orderItems(ctx context.Context, orderID string) ([]domain.OrderItemRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, item_id, item_name, quantity, unit_price, subtotal, notes
		FROM order_items WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItemRecord
	for rows.Next() {
		var it domain.OrderItemRecord
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.ItemName,
			&it.Quantity, &it.UnitPrice, &it.Subtotal, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
