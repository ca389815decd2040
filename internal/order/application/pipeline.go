package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/cart"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/notification"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/domain"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/whatsapp"
	"github.com/Tykillita/LaCocinadeAnitaMenu/pkg/bus"
	"github.com/Tykillita/LaCocinadeAnitaMenu/pkg/clock"
)

const (
	TopicSubmissionOccurred = "submission-occurred"
	TopicSubmissionResult   = "submission-result"

	// ConfirmDelay keeps the success notification on screen before the cart
	// is cleared and the session returns to the entry screen.
	ConfirmDelay = 2 * time.Second

	// validationHideDelay auto-dismisses the validation error popup.
	validationHideDelay = 4 * time.Second
)

// Pipeline orchestrates one checkout session's submission: validate, format
// the WhatsApp message, trigger the outbound dispatch, then hand persistence
// off through the submission-occurred topic. The outbound action and the
// persistence call are deliberately not chained: the customer is never
// blocked on store latency, and a store failure never retracts the message.
type Pipeline struct {
	log      *slog.Logger
	cart     *cart.Cart
	notifier *notification.Controller
	gateway  PersistenceGateway
	opener   LinkOpener
	clk      clock.Clock
	device   whatsapp.DeviceClass

	occurred *bus.Topic[domain.SubmissionOccurred]
	results  *bus.Topic[domain.SubmissionResult]

	// hideTimer auto-dismisses a validation error popup. A new submission
	// must cancel it, or a stale fire would hide the next cycle's
	// notification and disarm the visibility-based re-entrancy guard.
	hideMu    sync.Mutex
	hideTimer clock.Timer

	// onReturn brings the UI back to the entry screen after a confirmed
	// submission.
	onReturn func()
}

func NewPipeline(
	log *slog.Logger,
	c *cart.Cart,
	notifier *notification.Controller,
	gateway PersistenceGateway,
	opener LinkOpener,
	clk clock.Clock,
	device whatsapp.DeviceClass,
	onReturn func(),
) *Pipeline {
	return &Pipeline{
		log:      log,
		cart:     c,
		notifier: notifier,
		gateway:  gateway,
		opener:   opener,
		clk:      clk,
		device:   device,
		occurred: bus.NewTopic[domain.SubmissionOccurred](TopicSubmissionOccurred),
		results:  bus.NewTopic[domain.SubmissionResult](TopicSubmissionResult),
		onReturn: onReturn,
	}
}

// RegisterListeners wires the persistence and confirmation listeners. It is
// safe to call on every screen mount; registration is idempotent and the
// first handlers win.
func (p *Pipeline) RegisterListeners() {
	if p.occurred.Subscribe(p.handleSubmission) {
		p.log.Info("submission listener registered", "topic", p.occurred.Name())
	}
	if p.results.Subscribe(p.handleResult) {
		p.log.Info("result listener registered", "topic", p.results.Name())
	}
}

// Submit runs stages 1-3 synchronously and publishes the submission event
// for the decoupled persistence stage. It refuses to run while a previous
// submission's notification is still on screen.
func (p *Pipeline) Submit(ctx context.Context, form domain.CheckoutForm) error {
	if p.notifier.Visible() {
		return ErrSubmissionInFlight
	}
	p.stopHideTimer()

	if err := p.validate(form); err != nil {
		p.notifier.Show("Por favor completa todos los campos requeridos y selecciona un método de pago.", notification.KindError)
		p.hideMu.Lock()
		p.hideTimer = p.clk.AfterFunc(validationHideDelay, p.notifier.Hide)
		p.hideMu.Unlock()
		return err
	}

	// Snapshot: the totals in the message must not drift if the cart is
	// touched while the notification timers run.
	items := p.cart.Items()

	p.notifier.Show("¡Perfecto! Validando tu pedido...", notification.KindLoading)
	p.notifier.Update("📝 Generando mensaje para WhatsApp...", notification.KindLoading)

	message := whatsapp.Message(items, form)
	uri := whatsapp.Link(p.device, whatsapp.BusinessPhone, message)

	p.notifier.Update("✅ ¡Pedido listo! Abriendo WhatsApp...", notification.KindSuccess)
	if err := p.opener.Open(uri); err != nil {
		p.log.Error("whatsapp dispatch failed", "err", err)
		p.notifier.Update("❌ Error al enviar el pedido. Intenta de nuevo.", notification.KindError)
		return &DispatchError{Err: err}
	}

	data := buildOrderData(items, form)
	p.occurred.Publish(ctx, domain.SubmissionOccurred{Data: data, Message: message, URI: uri})
	p.log.Info("order dispatched", "lines", len(items), "total", data.TotalAmount())
	return nil
}

func (p *Pipeline) stopHideTimer() {
	p.hideMu.Lock()
	defer p.hideMu.Unlock()
	if p.hideTimer != nil {
		p.hideTimer.Stop()
		p.hideTimer = nil
	}
}

func (p *Pipeline) validate(form domain.CheckoutForm) error {
	switch {
	case p.cart.Len() == 0:
		return &ValidationError{Reason: "cart is empty"}
	case form.CustomerName == "":
		return &ValidationError{Reason: "customer name is required"}
	case form.CustomerPhone == "":
		return &ValidationError{Reason: "customer phone is required"}
	case form.CustomerAddress == "":
		return &ValidationError{Reason: "customer address is required"}
	case !form.PaymentMethod.Valid():
		return &ValidationError{Reason: "payment method is required"}
	}
	return nil
}

// handleSubmission is the single submission-occurred listener: it persists
// the order and reports the outcome on the result topic. The outbound
// message is already with the customer at this point, so failures here are
// reported, never rolled back.
func (p *Pipeline) handleSubmission(ctx context.Context, ev domain.SubmissionOccurred) {
	p.notifier.Update("💾 Guardando pedido...", notification.KindLoading)

	rec, err := p.gateway.CreateOrder(ctx, ev.Data)
	if err != nil {
		p.log.Error("order persist failed", "customer", ev.Data.CustomerName, "err", err)
		p.results.Publish(ctx, domain.SubmissionResult{Success: false, Error: err.Error(), Original: ev})
		return
	}

	p.log.Info("order persisted", "order_id", rec.ID, "total", rec.TotalAmount)
	p.results.Publish(ctx, domain.SubmissionResult{Success: true, Order: rec, Original: ev})
}

// handleResult is the single submission-result listener: success confirms
// and, after ConfirmDelay, clears the cart and returns to the entry screen;
// failure leaves a sticky error with the manual dismiss affordance.
func (p *Pipeline) handleResult(_ context.Context, ev domain.SubmissionResult) {
	if !ev.Success {
		p.notifier.Update("❌ Error: "+ev.Error, notification.KindError)
		return
	}

	p.notifier.Update("✅ Pedido guardado exitosamente", notification.KindSuccess)
	p.clk.AfterFunc(ConfirmDelay, func() {
		p.cart.Clear()
		p.notifier.Hide()
		if p.onReturn != nil {
			p.onReturn()
		}
	})
}

func buildOrderData(items []cart.LineItem, form domain.CheckoutForm) domain.CreateOrderData {
	data := domain.CreateOrderData{
		CustomerName:    form.CustomerName,
		CustomerPhone:   form.CustomerPhone,
		CustomerAddress: form.CustomerAddress,
		DeliveryDate:    form.DeliveryDate,
		PaymentMethod:   form.PaymentMethod,
		SpecialNotes:    form.SpecialNotes,
	}
	for _, li := range items {
		data.Items = append(data.Items, domain.OrderItemData{
			ItemID:    li.Item.ID,
			ItemName:  li.Item.Name,
			Quantity:  li.Quantity,
			UnitPrice: li.Item.Price,
			Notes:     li.Notes,
		})
	}
	return data
}
