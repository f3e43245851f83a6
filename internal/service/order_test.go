package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinehub/orderflow/internal/models"
	"github.com/dinehub/orderflow/internal/pricing"
)

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*models.Order

	// afterGet, when set, runs once after a GetOrder read returns, to
	// interleave a competing write between a read and its follow-up write
	afterGet func()
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	fr := &fakeOrderRepo{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		cp := *o
		fr.orders[o.ID] = &cp
	}
	return fr
}

func (fr *fakeOrderRepo) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if _, ok := fr.orders[order.ID]; ok {
		return nil, models.ErrConflictData
	}
	order.CreatedAt = time.Now()
	cp := *order
	fr.orders[order.ID] = &cp
	return order, nil
}

func (fr *fakeOrderRepo) GetOrder(_ context.Context, orderID string) (*models.Order, error) {
	fr.mu.Lock()
	order, ok := fr.orders[orderID]
	if !ok {
		fr.mu.Unlock()
		return nil, models.ErrDataNotFound
	}
	cp := *order
	hook := fr.afterGet
	fr.afterGet = nil
	fr.mu.Unlock()

	if hook != nil {
		hook()
	}
	return &cp, nil
}

func (fr *fakeOrderRepo) ListOrders(_ context.Context, tenantID string, activeOnly bool, since time.Time) ([]models.Order, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	orders := []models.Order{}
	for _, order := range fr.orders {
		if order.TenantID != tenantID {
			continue
		}
		if activeOnly && models.IsTerminal(order.Status) {
			continue
		}
		if !activeOnly && order.CreatedAt.Before(since) {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (fr *fakeOrderRepo) UpdateStatus(_ context.Context, orderID string, from, to models.Status, paymentRef string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	order, ok := fr.orders[orderID]
	if !ok || order.Status != from {
		return models.ErrDataNotFound
	}
	order.Status = to
	if paymentRef != "" {
		order.PaymentRef = paymentRef
	}
	return nil
}

func (fr *fakeOrderRepo) DeleteOrder(_ context.Context, orderID string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	order, ok := fr.orders[orderID]
	if !ok || order.Status != models.StatusPendingPayment {
		return models.ErrDataNotFound
	}
	delete(fr.orders, orderID)
	return nil
}

func (fr *fakeOrderRepo) status(orderID string) models.Status {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.orders[orderID].Status
}

type fakeTenantRepo struct {
	tenants map[string]*models.Tenant
}

func (ft *fakeTenantRepo) GetTenant(_ context.Context, tenantID string) (*models.Tenant, error) {
	tenant, ok := ft.tenants[tenantID]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return tenant, nil
}

type fakePricer struct {
	priced   *pricing.PricedOrder
	priceErr error
	schedErr error
}

func (fp *fakePricer) PriceOrder(_ context.Context, _ string, _ []models.LineItemRequest) (*pricing.PricedOrder, error) {
	if fp.priceErr != nil {
		return nil, fp.priceErr
	}
	return fp.priced, nil
}

func (fp *fakePricer) ValidateSchedule(_ time.Time, _ models.TenantSchedule) error {
	return fp.schedErr
}

type fakeDispatcher struct {
	outcome  models.DispatchOutcome
	retryErr error
	calls    int
}

func (fd *fakeDispatcher) Dispatch(_ context.Context, _, _ string) models.DispatchOutcome {
	fd.calls++
	return fd.outcome
}

func (fd *fakeDispatcher) Retry(_ context.Context, _, _ string) (models.DispatchOutcome, error) {
	if fd.retryErr != nil {
		return models.DispatchOutcome{}, fd.retryErr
	}
	fd.calls++
	return fd.outcome, nil
}

func testTenants() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[string]*models.Tenant{
		"t1": {ID: "t1", Name: "Trattoria Uno", Schedule: models.TenantSchedule{
			Timezone: "UTC", LeadMinutes: 30, SlotMinutes: 15,
		}},
	}}
}

func testPriced() *pricing.PricedOrder {
	return &pricing.PricedOrder{
		Items: []models.OrderItem{
			{MenuItemID: "pizza", Name: "Margherita", UnitPriceCents: 1300, Quantity: 2},
		},
		SubtotalCents: 2600,
		TotalCents:    2600,
	}
}

func TestOrderService_Submit(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, testTenants(), &fakePricer{priced: testPriced()}, &fakeDispatcher{})

	order, err := svc.Submit(context.Background(), "t1", SubmitRequest{
		Items:         []models.LineItemRequest{{MenuItemID: "pizza", Quantity: 2}},
		Contact:       models.Contact{Name: "Eva", Email: "eva@example.com"},
		NotifyOnReady: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusPendingPayment, order.Status)
	assert.Equal(t, int64(2600), order.SubtotalCents)
	assert.Equal(t, int64(2600), order.TotalCents)
	assert.Equal(t, "UTC", order.Timezone)
	assert.True(t, order.NotifyOnReady)
}

func TestOrderService_Submit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		tenant  string
		pricer  Pricer
		req     SubmitRequest
		wantErr error
	}{
		{
			name:    "missing_email",
			tenant:  "t1",
			pricer:  &fakePricer{priced: testPriced()},
			req:     SubmitRequest{Items: []models.LineItemRequest{{MenuItemID: "pizza", Quantity: 1}}},
			wantErr: models.ErrValidation,
		},
		{
			name:   "unknown_tenant",
			tenant: "ghost",
			pricer: &fakePricer{priced: testPriced()},
			req: SubmitRequest{
				Items:   []models.LineItemRequest{{MenuItemID: "pizza", Quantity: 1}},
				Contact: models.Contact{Email: "eva@example.com"},
			},
			wantErr: models.ErrDataNotFound,
		},
		{
			name:   "pricing_rejection_propagates",
			tenant: "t1",
			pricer: &fakePricer{priceErr: models.ErrInvalidAddOn},
			req: SubmitRequest{
				Items:   []models.LineItemRequest{{MenuItemID: "pizza", Quantity: 1}},
				Contact: models.Contact{Email: "eva@example.com"},
			},
			wantErr: models.ErrInvalidAddOn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewOrderService(newFakeOrderRepo(), testTenants(), tt.pricer, &fakeDispatcher{})
			_, err := svc.Submit(context.Background(), tt.tenant, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrderService_Submit_ScheduleRejection(t *testing.T) {
	pricer := &fakePricer{priced: testPriced(), schedErr: models.NewSchedulingError(models.ScheduleTooSoon)}
	svc := NewOrderService(newFakeOrderRepo(), testTenants(), pricer, &fakeDispatcher{})

	requested := time.Now().Add(10 * time.Minute)
	_, err := svc.Submit(context.Background(), "t1", SubmitRequest{
		Items:        []models.LineItemRequest{{MenuItemID: "pizza", Quantity: 1}},
		ScheduledFor: &requested,
		Contact:      models.Contact{Email: "eva@example.com"},
	})

	var schedErr models.SchedulingError
	require.ErrorAs(t, err, &schedErr)
	assert.Equal(t, models.ScheduleTooSoon, schedErr.Code)
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	pending := &models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusPendingPayment}
	repo := newFakeOrderRepo(pending)
	svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})

	order, err := svc.ConfirmPayment(context.Background(), "ord-1", "pay-77")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, order.Status)
	assert.Equal(t, "pay-77", order.PaymentRef)

	// confirming twice is an illegal transition, the order stays NEW
	_, err = svc.ConfirmPayment(context.Background(), "ord-1", "pay-77")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Equal(t, models.StatusNew, repo.status("ord-1"))

	_, err = svc.ConfirmPayment(context.Background(), "ghost", "pay-77")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestOrderService_AbandonOrder(t *testing.T) {
	pending := &models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusPendingPayment}
	confirmed := &models.Order{ID: "ord-2", TenantID: "t1", Status: models.StatusNew}
	repo := newFakeOrderRepo(pending, confirmed)
	svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})

	require.NoError(t, svc.AbandonOrder(context.Background(), "ord-1"))
	_, err := repo.GetOrder(context.Background(), "ord-1")
	assert.ErrorIs(t, err, models.ErrDataNotFound)

	// paid orders are never deleted
	err = svc.AbandonOrder(context.Background(), "ord-2")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestOrderService_AbandonOrder_ConfirmationRace(t *testing.T) {
	pending := &models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusPendingPayment}
	repo := newFakeOrderRepo(pending)
	svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})

	// payment confirmation lands between the abandon read and its delete
	repo.afterGet = func() {
		_, err := svc.ConfirmPayment(context.Background(), "ord-1", "pay-77")
		require.NoError(t, err)
	}

	err := svc.AbandonOrder(context.Background(), "ord-1")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	// the paid order survives the compensating delete
	order, err := repo.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, order.Status)
	assert.Equal(t, "pay-77", order.PaymentRef)
}

func TestOrderService_SetStatus(t *testing.T) {
	actor := models.ActorPayload{ActorID: "staff-1", TenantID: "t1"}

	t.Run("forward_transition", func(t *testing.T) {
		repo := newFakeOrderRepo(&models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusNew})
		svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})

		order, outcome, err := svc.SetStatus(context.Background(), actor, "t1", "ord-1", models.StatusPreparing)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPreparing, order.Status)
		assert.Nil(t, outcome)
	})

	t.Run("ready_triggers_dispatch", func(t *testing.T) {
		repo := newFakeOrderRepo(&models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusPreparing})
		dispatcher := &fakeDispatcher{outcome: models.SentOutcome("msg-1")}
		svc := NewOrderService(repo, testTenants(), &fakePricer{}, dispatcher)

		order, outcome, err := svc.SetStatus(context.Background(), actor, "t1", "ord-1", models.StatusReady)
		require.NoError(t, err)
		assert.Equal(t, models.StatusReady, order.Status)
		require.NotNil(t, outcome)
		assert.Equal(t, models.DispatchSent, outcome.Result)
		assert.Equal(t, 1, dispatcher.calls)
	})

	t.Run("failed_dispatch_never_reverts_status", func(t *testing.T) {
		repo := newFakeOrderRepo(&models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusPreparing})
		dispatcher := &fakeDispatcher{outcome: models.FailedOutcome("provider unreachable")}
		svc := NewOrderService(repo, testTenants(), &fakePricer{}, dispatcher)

		order, outcome, err := svc.SetStatus(context.Background(), actor, "t1", "ord-1", models.StatusReady)
		require.NoError(t, err)
		assert.Equal(t, models.StatusReady, order.Status)
		assert.Equal(t, models.StatusReady, repo.status("ord-1"))
		require.NotNil(t, outcome)
		assert.Equal(t, models.DispatchFailed, outcome.Result)
	})

	t.Run("illegal_transition_leaves_status_unchanged", func(t *testing.T) {
		repo := newFakeOrderRepo(&models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusReady})
		svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})

		_, _, err := svc.SetStatus(context.Background(), actor, "t1", "ord-1", models.StatusNew)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		assert.Equal(t, models.StatusReady, repo.status("ord-1"))
	})

	t.Run("payment_confirmation_reserved", func(t *testing.T) {
		repo := newFakeOrderRepo(&models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusPendingPayment})
		svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})

		_, _, err := svc.SetStatus(context.Background(), actor, "t1", "ord-1", models.StatusNew)
		assert.ErrorIs(t, err, models.ErrNotAllowed)
		assert.Equal(t, models.StatusPendingPayment, repo.status("ord-1"))
	})

	t.Run("foreign_actor_rejected", func(t *testing.T) {
		repo := newFakeOrderRepo(&models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusNew})
		svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})

		foreign := models.ActorPayload{ActorID: "staff-9", TenantID: "t2"}
		_, _, err := svc.SetStatus(context.Background(), foreign, "t1", "ord-1", models.StatusPreparing)
		assert.ErrorIs(t, err, models.ErrNotAllowed)
	})

	t.Run("order_of_another_tenant_hidden", func(t *testing.T) {
		repo := newFakeOrderRepo(&models.Order{ID: "ord-1", TenantID: "t2", Status: models.StatusNew})
		svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})

		_, _, err := svc.SetStatus(context.Background(), actor, "t1", "ord-1", models.StatusPreparing)
		assert.ErrorIs(t, err, models.ErrDataNotFound)
	})
}

func TestOrderService_Query(t *testing.T) {
	actor := models.ActorPayload{ActorID: "staff-1", TenantID: "t1"}
	repo := newFakeOrderRepo(
		&models.Order{ID: "ord-1", TenantID: "t1", Status: models.StatusPreparing},
		&models.Order{ID: "ord-2", TenantID: "t1", Status: models.StatusCompleted},
		&models.Order{ID: "ord-3", TenantID: "t2", Status: models.StatusNew},
	)
	svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})

	active, err := svc.Query(context.Background(), actor, "t1", true, 0)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ord-1", active[0].ID)

	_, err = svc.Query(context.Background(), actor, "t1", false, 0)
	assert.ErrorIs(t, err, models.ErrValidation)

	foreign := models.ActorPayload{ActorID: "staff-9", TenantID: "t2"}
	_, err = svc.Query(context.Background(), foreign, "t1", true, 0)
	assert.ErrorIs(t, err, models.ErrNotAllowed)
}

func TestOrderService_Query_HistoryWindow(t *testing.T) {
	actor := models.ActorPayload{ActorID: "staff-1", TenantID: "t1"}
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	repo := newFakeOrderRepo(
		&models.Order{ID: "ord-old", TenantID: "t1", Status: models.StatusCompleted, CreatedAt: now.Add(-50 * time.Hour)},
		&models.Order{ID: "ord-recent", TenantID: "t1", Status: models.StatusCompleted, CreatedAt: now.Add(-2 * time.Hour)},
	)
	svc := NewOrderService(repo, testTenants(), &fakePricer{}, &fakeDispatcher{})
	svc.now = func() time.Time { return now }

	orders, err := svc.Query(context.Background(), actor, "t1", false, 24)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ord-recent", orders[0].ID)
}
