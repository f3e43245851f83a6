package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dinehub/orderflow/internal/logger"
	"github.com/dinehub/orderflow/internal/models"
	"github.com/dinehub/orderflow/internal/notify"
)

// NotificationStore is order store surface the dispatcher needs. All
// cross-request safety comes from ClaimNotification's conditional write.
type NotificationStore interface {
	// GetOrder returns order with items by id
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	// RecordAttempt increments attempt counter and stamps last attempt time
	RecordAttempt(ctx context.Context, tenantID, orderID string, at time.Time) error
	// ClaimNotification performs the conditional send claim
	ClaimNotification(ctx context.Context, tenantID, orderID string, at time.Time) (bool, error)
	// CompleteNotification stores provider message id and status after a successful send
	CompleteNotification(ctx context.Context, orderID, messageID, status string) error
	// ReleaseNotification rolls the claim back after a failed send
	ReleaseNotification(ctx context.Context, orderID, errMsg string) error
}

// Sender delivers ready notifications
type Sender interface {
	// Send delivers one message
	Send(ctx context.Context, to, subject, body string) (*notify.SendResult, error)
}

// DispatchService performs the at-most-once ready notification send.
// Concurrent attempts race on a single conditional store write; everything
// else is bookkeeping.
type DispatchService struct {
	store        NotificationStore
	sender       Sender
	attemptLimit int
	cooldown     time.Duration
	now          func() time.Time
}

// NewDispatchService creates new DispatchService instance
func NewDispatchService(store NotificationStore, sender Sender, attemptLimit int, cooldown time.Duration) *DispatchService {
	return &DispatchService{
		store:        store,
		sender:       sender,
		attemptLimit: attemptLimit,
		cooldown:     cooldown,
		now:          time.Now,
	}
}

// Dispatch runs one claim-then-send attempt for an order that entered READY.
// A skip is a normal idempotent no-op; a failure means the claim was rolled
// back and a later attempt may retry.
func (ds *DispatchService) Dispatch(ctx context.Context, tenantID, orderID string) models.DispatchOutcome {
	// step 1: precondition read
	order, err := ds.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return models.SkipOutcome(models.SkipNotFound)
		}
		return models.FailedOutcome(err.Error())
	}
	if order.TenantID != tenantID {
		return models.SkipOutcome(models.SkipNotFound)
	}
	if order.Status != models.StatusReady {
		return models.SkipOutcome(models.SkipNotReady)
	}
	if !order.NotifyOnReady {
		return models.SkipOutcome(models.SkipNotOptedIn)
	}
	if order.CustomerEmail == "" {
		return models.SkipOutcome(models.SkipMissingDestination)
	}
	if order.SentMarker != nil {
		return models.SkipOutcome(models.SkipAlreadySent)
	}

	destination := order.CustomerEmail

	// step 2: best effort bookkeeping, never aborts the attempt
	if err := ds.store.RecordAttempt(ctx, tenantID, orderID, ds.now()); err != nil {
		logger.Log.Error("notification bookkeeping write failed",
			zap.String("order", orderID),
			zap.Error(err))
	}

	// step 3: atomic claim, exactly one concurrent attempt wins
	won, err := ds.store.ClaimNotification(ctx, tenantID, orderID, ds.now())
	if err != nil {
		return models.FailedOutcome(err.Error())
	}
	if !won {
		return models.SkipOutcome(models.SkipAlreadySent)
	}

	// step 4: send, rolling the claim back on failure
	res, err := ds.sender.Send(ctx, destination, readySubject, readyBody(order))
	if err != nil {
		if rbErr := ds.store.ReleaseNotification(ctx, orderID, err.Error()); rbErr != nil {
			logger.Log.Error("notification claim rollback failed",
				zap.String("order", orderID),
				zap.Error(rbErr))
		}
		return models.FailedOutcome(err.Error())
	}

	if err := ds.store.CompleteNotification(ctx, orderID, res.MessageID, res.Status); err != nil {
		// the send happened and the marker stays set, only the provider
		// echo is lost
		logger.Log.Error("storing provider result failed",
			zap.String("order", orderID),
			zap.Error(err))
	}

	return models.SentOutcome(res.MessageID)
}

// Retry is the manual retry entrypoint. The attempt cap and cooldown guards
// run before the normal dispatch protocol and apply even when the claim
// itself would succeed.
func (ds *DispatchService) Retry(ctx context.Context, tenantID, orderID string) (models.DispatchOutcome, error) {
	order, err := ds.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return models.SkipOutcome(models.SkipNotFound), nil
		}
		return models.DispatchOutcome{}, err
	}
	if order.TenantID != tenantID {
		return models.SkipOutcome(models.SkipNotFound), nil
	}

	if order.AttemptCount >= ds.attemptLimit {
		return models.DispatchOutcome{}, models.ErrRetryLimited
	}
	if order.LastAttemptAt != nil && ds.now().Sub(*order.LastAttemptAt) < ds.cooldown {
		return models.DispatchOutcome{}, models.ErrRetryTooSoon
	}

	return ds.Dispatch(ctx, tenantID, orderID), nil
}

const readySubject = "Your order is ready"

func readyBody(order *models.Order) string {
	name := order.CustomerName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s, your order %s is ready for pickup.", name, order.ID)
}
