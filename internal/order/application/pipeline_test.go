package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/cart"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/menu"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/notification"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/domain"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/order/infrastructure/memory"
	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/whatsapp"
	"github.com/Tykillita/LaCocinadeAnitaMenu/pkg/clock"
)

type recordingOpener struct {
	mu   sync.Mutex
	uris []string
	err  error
}

func (o *recordingOpener) Open(uri string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.uris = append(o.uris, uri)
	return nil
}

func (o *recordingOpener) calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.uris)
}

type fixture struct {
	fc       *clock.Fake
	cart     *cart.Cart
	notifier *notification.Controller
	repo     *memory.Repository
	opener   *recordingOpener
	pipeline *Pipeline
	returned *bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fc := clock.NewFake()
	c := cart.New()
	notifier := notification.NewController(fc)
	repo := memory.NewRepository()
	opener := &recordingOpener{}
	returned := false

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPipeline(log, c, notifier, repo, opener, fc, whatsapp.DeviceDesktop, func() { returned = true })
	p.RegisterListeners()

	return &fixture{fc: fc, cart: c, notifier: notifier, repo: repo, opener: opener, pipeline: p, returned: &returned}
}

func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	lasagna, ok := menu.Find("dish-lasagna")
	require.True(t, ok)
	require.NoError(t, f.cart.Add(lasagna, 2, ""))
}

func validForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		CustomerName:    "María González",
		CustomerPhone:   "6825-7958",
		CustomerAddress: "Calle 50, San Francisco",
		PaymentMethod:   domain.PaymentEfectivo,
	}
}

// settled waits until both listeners have run for a successful submission:
// the confirmation timer plus the notifier's pending content swap.
func (f *fixture) settled(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return f.fc.Pending() == 2 }, time.Second, time.Millisecond)
}

func TestSubmitEmptyCartFailsValidation(t *testing.T) {
	f := newFixture(t)

	err := f.pipeline.Submit(context.Background(), validForm())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "cart is empty")

	assert.Zero(t, f.opener.calls())
	assert.Zero(t, f.repo.Len())
	st := f.notifier.State()
	assert.True(t, st.Visible)
	assert.Equal(t, notification.KindError, st.Kind)
}

func TestSubmitMissingFieldsFailsValidation(t *testing.T) {
	forms := map[string]func(*domain.CheckoutForm){
		"name":    func(fm *domain.CheckoutForm) { fm.CustomerName = "" },
		"phone":   func(fm *domain.CheckoutForm) { fm.CustomerPhone = "" },
		"address": func(fm *domain.CheckoutForm) { fm.CustomerAddress = "" },
		"payment": func(fm *domain.CheckoutForm) { fm.PaymentMethod = "" },
	}
	for name, blank := range forms {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.fillCart(t)

			form := validForm()
			blank(&form)

			err := f.pipeline.Submit(context.Background(), form)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Zero(t, f.opener.calls())
			assert.Zero(t, f.repo.Len())
			assert.Equal(t, notification.KindError, f.notifier.State().Kind)
		})
	}
}

func TestValidationErrorAutoDismisses(t *testing.T) {
	f := newFixture(t)

	require.Error(t, f.pipeline.Submit(context.Background(), validForm()))
	require.True(t, f.notifier.Visible())

	f.fc.Advance(5 * time.Second)
	assert.False(t, f.notifier.Visible())
}

func TestSubmitSuccessFlow(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	require.NoError(t, f.pipeline.Submit(context.Background(), validForm()))
	f.settled(t)

	// dispatched exactly once, to the web gateway for a desktop session
	require.Equal(t, 1, f.opener.calls())
	assert.True(t, strings.HasPrefix(f.opener.uris[0], "https://wa.me/"+whatsapp.BusinessPhone))

	// persisted once
	assert.Equal(t, 1, f.repo.Len())

	// cart is untouched until the confirmation delay elapses
	f.fc.Advance(ConfirmDelay - time.Millisecond)
	assert.Equal(t, 1, f.cart.Len())
	assert.False(t, *f.returned)

	f.fc.Advance(time.Millisecond)
	assert.Zero(t, f.cart.Len())
	assert.True(t, *f.returned)

	f.fc.Advance(notification.ExitDelay)
	st := f.notifier.State()
	assert.False(t, st.Visible)
	assert.Equal(t, notification.StageIdle, st.Stage)
}

func TestSubmitSuccessNotificationContent(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	require.NoError(t, f.pipeline.Submit(context.Background(), validForm()))
	f.settled(t)

	// the pending swap carries the confirmation message
	f.fc.Advance(notification.SwapDelay)
	st := f.notifier.State()
	assert.Equal(t, "✅ Pedido guardado exitosamente", st.Message)
	assert.Equal(t, notification.KindSuccess, st.Kind)
}

func TestSubmitPersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.repo.FailNextCreate(errors.New("connection reset"))

	require.NoError(t, f.pipeline.Submit(context.Background(), validForm()))

	// outbound message still dispatched exactly once
	require.Eventually(t, func() bool {
		f.fc.Advance(notification.SwapDelay)
		return strings.HasPrefix(f.notifier.State().Message, "❌ Error:")
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.opener.calls())

	st := f.notifier.State()
	assert.Equal(t, notification.KindError, st.Kind)
	assert.Contains(t, st.Message, "connection reset")

	// nothing stored, cart intact, no return to the entry screen
	assert.Zero(t, f.repo.Len())
	assert.Equal(t, 1, f.cart.Len())
	assert.False(t, *f.returned)

	// the error is sticky until manually dismissed
	f.fc.Advance(10 * time.Second)
	assert.True(t, f.notifier.Visible())

	f.notifier.Dismiss()
	f.fc.Advance(notification.ExitDelay)
	assert.False(t, f.notifier.Visible())
}

func TestSubmitDispatchFailureSurfacesGenericError(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.opener.err = errors.New("no handler for scheme")

	err := f.pipeline.Submit(context.Background(), validForm())
	var derr *DispatchError
	require.ErrorAs(t, err, &derr)
	assert.ErrorIs(t, err, f.opener.err)

	// no submission event, so nothing is persisted
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, f.repo.Len())
	assert.Equal(t, 1, f.cart.Len())
}

func TestSubmitRefusedWhileNotificationVisible(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	require.NoError(t, f.pipeline.Submit(context.Background(), validForm()))
	err := f.pipeline.Submit(context.Background(), validForm())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	f.settled(t)
	assert.Equal(t, 1, f.opener.calls())
	assert.Equal(t, 1, f.repo.Len())
}

func TestRegisterListenersIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	// a re-mounted screen registers again; the order must persist once
	f.pipeline.RegisterListeners()
	f.pipeline.RegisterListeners()

	require.NoError(t, f.pipeline.Submit(context.Background(), validForm()))
	f.settled(t)
	assert.Equal(t, 1, f.repo.Len())
}

func TestSubmitSnapshotsCartBeforeMutation(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	require.NoError(t, f.pipeline.Submit(context.Background(), validForm()))
	// mutating the cart after submission must not change the dispatched data
	lasagna, ok := menu.Find("dish-lasagna")
	require.True(t, ok)
	require.NoError(t, f.cart.Add(lasagna, 5, ""))

	f.settled(t)
	orders, err := f.repo.TodayOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.InDelta(t, 12.00, orders[0].TotalAmount, 1e-9)
}

// blockingGateway parks CreateOrder until released, so a test can hold a
// submission in its persistence stage.
type blockingGateway struct {
	inner   *memory.Repository
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGateway) CreateOrder(ctx context.Context, data domain.CreateOrderData) (domain.OrderRecord, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.inner.CreateOrder(ctx, data)
}

func TestDismissedValidationErrorCannotHideNextSubmission(t *testing.T) {
	fc := clock.NewFake()
	c := cart.New()
	notifier := notification.NewController(fc)
	repo := memory.NewRepository()
	gw := &blockingGateway{inner: repo, entered: make(chan struct{}, 1), release: make(chan struct{})}
	opener := &recordingOpener{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPipeline(log, c, notifier, gw, opener, fc, whatsapp.DeviceDesktop, nil)
	p.RegisterListeners()

	lasagna, ok := menu.Find("dish-lasagna")
	require.True(t, ok)
	require.NoError(t, c.Add(lasagna, 2, ""))

	// a failed validation arms the auto-hide timer; the user dismisses the
	// error by hand before it fires
	form := validForm()
	form.CustomerName = ""
	require.Error(t, p.Submit(context.Background(), form))
	notifier.Dismiss()
	fc.Advance(notification.ExitDelay)
	require.False(t, notifier.Visible())

	// a valid submission starts while persistence is still pending
	require.NoError(t, p.Submit(context.Background(), validForm()))
	<-gw.entered

	// crossing the old auto-hide deadline must not hide the new cycle, and
	// the visibility guard must keep refusing a second submission
	fc.Advance(validationHideDelay)
	assert.True(t, notifier.Visible())
	assert.ErrorIs(t, p.Submit(context.Background(), validForm()), ErrSubmissionInFlight)
	assert.Equal(t, 1, opener.calls())

	close(gw.release)
	require.Eventually(t, func() bool { return repo.Len() == 1 }, time.Second, time.Millisecond)
}

func TestMobileSessionUsesNativeScheme(t *testing.T) {
	f := newFixture(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPipeline(log, f.cart, f.notifier, f.repo, f.opener, f.fc, whatsapp.DeviceMobile, nil)
	p.RegisterListeners()
	f.fillCart(t)

	require.NoError(t, p.Submit(context.Background(), validForm()))
	require.Equal(t, 1, f.opener.calls())
	assert.True(t, strings.HasPrefix(f.opener.uris[0], "whatsapp://send?phone="+whatsapp.BusinessPhone))
}
