package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dinehub/orderflow/internal/logger"
	"github.com/dinehub/orderflow/internal/models"
	"github.com/dinehub/orderflow/internal/pricing"
)

const defaultCurrency = "USD"

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order with its items
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrder returns order with items by id
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	// ListOrders returns tenant orders, either active only or within history window
	ListOrders(ctx context.Context, tenantID string, activeOnly bool, since time.Time) ([]models.Order, error)
	// UpdateStatus moves order between statuses with a conditional write
	UpdateStatus(ctx context.Context, orderID string, from, to models.Status, paymentRef string) error
	// DeleteOrder removes order, compensation for failed payment session
	// creation; deletes only a PENDING_PAYMENT row
	DeleteOrder(ctx context.Context, orderID string) error
}

// TenantRepository is interface for interacting with tenant data
type TenantRepository interface {
	// GetTenant returns tenant by id
	GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error)
}

// Pricer computes authoritative totals and validates pickup timing
type Pricer interface {
	// PriceOrder resolves every line against the catalog and computes totals
	PriceOrder(ctx context.Context, tenantID string, lines []models.LineItemRequest) (*pricing.PricedOrder, error)
	// ValidateSchedule checks a requested pickup time against tenant scheduling rules
	ValidateSchedule(requested time.Time, sched models.TenantSchedule) error
}

// Dispatcher performs ready notification attempts
type Dispatcher interface {
	// Dispatch runs one claim-then-send attempt
	Dispatch(ctx context.Context, tenantID, orderID string) models.DispatchOutcome
	// Retry runs one guarded manual retry attempt
	Retry(ctx context.Context, tenantID, orderID string) (models.DispatchOutcome, error)
}

// SubmitRequest is customer order submission
type SubmitRequest struct {
	Items         []models.LineItemRequest
	ScheduledFor  *time.Time
	Contact       models.Contact
	NotifyOnReady bool
}

// OrderService drives the order lifecycle
type OrderService struct {
	repo       OrderRepository
	tenants    TenantRepository
	pricer     Pricer
	dispatcher Dispatcher
	now        func() time.Time
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, tenants TenantRepository, pricer Pricer, dispatcher Dispatcher) *OrderService {
	return &OrderService{
		repo:       repo,
		tenants:    tenants,
		pricer:     pricer,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Submit validates and prices a new order and persists it as PENDING_PAYMENT
func (os *OrderService) Submit(ctx context.Context, tenantID string, req SubmitRequest) (*models.Order, error) {
	if req.Contact.Email == "" {
		return nil, models.ErrValidation
	}

	tenant, err := os.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	priced, err := os.pricer.PriceOrder(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}

	if req.ScheduledFor != nil {
		if err := os.pricer.ValidateSchedule(*req.ScheduledFor, tenant.Schedule); err != nil {
			return nil, err
		}
	}

	order := &models.Order{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		Status:        models.StatusPendingPayment,
		Currency:      defaultCurrency,
		SubtotalCents: priced.SubtotalCents,
		TotalCents:    priced.TotalCents,
		ScheduledFor:  req.ScheduledFor,
		Timezone:      tenant.Schedule.Timezone,
		CustomerName:  req.Contact.Name,
		CustomerEmail: req.Contact.Email,
		CustomerPhone: req.Contact.Phone,
		NotifyOnReady: req.NotifyOnReady,
		Items:         priced.Items,
	}

	return os.repo.CreateOrder(ctx, order)
}

// ConfirmPayment moves order PENDING_PAYMENT -> NEW. Only the payment
// collaborator reaches this path.
func (os *OrderService) ConfirmPayment(ctx context.Context, orderID, paymentRef string) (*models.Order, error) {
	order, err := os.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := models.ValidateTransition(order.Status, models.StatusNew); err != nil {
		return nil, err
	}

	if err := os.repo.UpdateStatus(ctx, orderID, order.Status, models.StatusNew, paymentRef); err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			// the row moved underneath, treat as an illegal transition
			return nil, models.ErrInvalidTransition
		}
		return nil, err
	}

	order.Status = models.StatusNew
	order.PaymentRef = paymentRef

	return order, nil
}

// AbandonOrder deletes an order whose payment session creation failed right
// after submit. Only PENDING_PAYMENT orders may be removed.
func (os *OrderService) AbandonOrder(ctx context.Context, orderID string) error {
	order, err := os.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != models.StatusPendingPayment {
		return models.ErrInvalidTransition
	}

	if err := os.repo.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			// the row moved underneath, treat as an illegal transition
			return models.ErrInvalidTransition
		}
		return err
	}

	return nil
}

// SetStatus moves order along the status graph on behalf of a tenant actor.
// The status write commits on its own; a READY transition then triggers
// dispatch whose outcome is reported separately and never fails the call.
func (os *OrderService) SetStatus(ctx context.Context, actor models.ActorPayload, tenantID, orderID string, next models.Status) (*models.Order, *models.DispatchOutcome, error) {
	if actor.TenantID != tenantID {
		return nil, nil, models.ErrNotAllowed
	}
	if !models.IsValidStatus(next) {
		return nil, nil, models.ErrValidation
	}

	order, err := os.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.TenantID != tenantID {
		return nil, nil, models.ErrDataNotFound
	}

	if err := models.ValidateTransition(order.Status, next); err != nil {
		return nil, nil, err
	}
	if next == models.StatusNew {
		// PENDING_PAYMENT -> NEW is reserved for the payment collaborator
		return nil, nil, models.ErrNotAllowed
	}

	if err := os.repo.UpdateStatus(ctx, orderID, order.Status, next, ""); err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, nil, models.ErrInvalidTransition
		}
		return nil, nil, err
	}

	order.Status = next

	if next != models.StatusReady {
		return order, nil, nil
	}

	// the status write is already committed, dispatch reports for itself
	outcome := os.dispatcher.Dispatch(ctx, tenantID, orderID)
	if !outcome.Sent() {
		logger.Log.Info("ready notification not sent",
			zap.String("order", orderID),
			zap.String("result", string(outcome.Result)),
			zap.String("skip_reason", string(outcome.SkipReason)),
			zap.String("error", outcome.Error))
	}

	return order, &outcome, nil
}

// RetryNotification runs one guarded manual notification retry
func (os *OrderService) RetryNotification(ctx context.Context, actor models.ActorPayload, tenantID, orderID string) (models.DispatchOutcome, error) {
	if actor.TenantID != tenantID {
		return models.DispatchOutcome{}, models.ErrNotAllowed
	}

	return os.dispatcher.Retry(ctx, tenantID, orderID)
}

// Query returns tenant orders, active ones or a rolling history window
func (os *OrderService) Query(ctx context.Context, actor models.ActorPayload, tenantID string, activeOnly bool, historyHours int) ([]models.Order, error) {
	if actor.TenantID != tenantID {
		return nil, models.ErrNotAllowed
	}

	if activeOnly {
		return os.repo.ListOrders(ctx, tenantID, true, time.Time{})
	}

	if historyHours <= 0 {
		return nil, models.ErrValidation
	}

	since := os.now().Add(-time.Duration(historyHours) * time.Hour)
	return os.repo.ListOrders(ctx, tenantID, false, since)
}
