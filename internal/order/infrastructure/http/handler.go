// Package http exposes the backend-of-record API: the menu and the durable
// order store the checkout flow reports into.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/menu"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/application"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/domain"
)

type Handler struct {
	log  *slog.Logger
	repo application.OrderRepository

	// idem optionally guards order creation against replayed requests.
	idem func(http.Handler) http.Handler
}

func NewHandler(log *slog.Logger, repo application.OrderRepository, idem func(http.Handler) http.Handler) *Handler {
	return &Handler{log: log, repo: repo, idem: idem}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/menu", h.getMenu)
	if h.idem != nil {
		r.With(h.idem).Post("/orders", h.createOrder)
	} else {
		r.Post("/orders", h.createOrder)
	}
	r.Get("/orders", h.ordersByRange)
	r.Get("/orders/today", h.todayOrders)
	r.Patch("/orders/{id}/status", h.updateStatus)
	return r
}

func (h *Handler) getMenu(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories":      menu.Categories,
		"items":           menu.Items(),
		"payment_methods": domain.PaymentMethods(),
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var data domain.CreateOrderData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validateOrderData(data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.repo.CreateOrder(r.Context(), data)
	if err != nil {
		h.log.Error("create order failed", "customer", data.CustomerName, "err", err)
		http.Error(w, "failed to create order", http.StatusInternalServerError)
		return
	}
	h.log.Info("order created", "order_id", rec.ID, "total", rec.TotalAmount)
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) todayOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.TodayOrders(r.Context())
	if err != nil {
		h.log.Error("today orders query failed", "err", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}

func (h *Handler) ordersByRange(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid or missing 'from' date (want YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid or missing 'to' date (want YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	// 'to' is inclusive: the window runs to the end of that day.
	orders, err := h.repo.OrdersByDateRange(r.Context(), from, to.Add(24*time.Hour))
	if err != nil {
		h.log.Error("orders range query failed", "err", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: orders})
}

type updateStatusReq struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if !req.Status.Valid() {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.repo.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		h.log.Error("status update failed", "order_id", id, "err", err)
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
}

type ordersResponse struct {
	Orders []domain.OrderRecord `json:"orders"`
}

func validateOrderData(data domain.CreateOrderData) error {
	switch {
	case data.CustomerName == "":
		return errors.New("customer_name is required")
	case data.CustomerPhone == "":
		return errors.New("customer_phone is required")
	case data.CustomerAddress == "":
		return errors.New("customer_address is required")
	case !data.PaymentMethod.Valid():
		return errors.New("payment_method is invalid")
	case len(data.Items) == 0:
		return errors.New("at least one item is required")
	}
	for _, it := range data.Items {
		if it.Quantity <= 0 {
			return errors.New("invalid quantity for item " + it.ItemName)
		}
		if it.UnitPrice < 0 {
			return errors.New("invalid unit price for item " + it.ItemName)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
