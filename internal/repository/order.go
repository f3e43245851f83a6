package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dinehub/orderflow/internal/models"
	"github.com/dinehub/orderflow/internal/repository/postgres"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrderQuery = `
						INSERT INTO orders (id, tenant_id, status, currency, subtotal_cents, total_cents,
							scheduled_for, timezone, customer_name, customer_email, customer_phone, notify_on_ready)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
						RETURNING created_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, menu_item_id, name, unit_price_cents, quantity, note, add_ons)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	selectOrderQuery = `
						SELECT id, tenant_id, status, currency, subtotal_cents, total_cents,
							scheduled_for, timezone, customer_name, customer_email, customer_phone, notify_on_ready,
							sent_marker, provider_message_id, provider_status, error_message,
							attempt_count, last_attempt_at, payment_ref, created_at
						FROM orders
						WHERE id = $1
`
	selectOrderItemsQuery = `
						SELECT menu_item_id, name, unit_price_cents, quantity, note, add_ons
						FROM order_items
						WHERE order_id = $1
						ORDER BY id
`
	selectActiveOrdersQuery = `
						SELECT id, tenant_id, status, currency, subtotal_cents, total_cents,
							scheduled_for, timezone, customer_name, customer_email, customer_phone, notify_on_ready,
							sent_marker, provider_message_id, provider_status, error_message,
							attempt_count, last_attempt_at, payment_ref, created_at
						FROM orders
						WHERE tenant_id = $1 AND status NOT IN ('COMPLETED', 'CANCELED')
						ORDER BY created_at DESC
`
	selectHistoryOrdersQuery = `
						SELECT id, tenant_id, status, currency, subtotal_cents, total_cents,
							scheduled_for, timezone, customer_name, customer_email, customer_phone, notify_on_ready,
							sent_marker, provider_message_id, provider_status, error_message,
							attempt_count, last_attempt_at, payment_ref, created_at
						FROM orders
						WHERE tenant_id = $1 AND created_at >= $2
						ORDER BY created_at DESC
`
	updateStatusQuery = `
						UPDATE orders
						SET status = $1, payment_ref = COALESCE(NULLIF($2, ''), payment_ref)
						WHERE id = $3 AND status = $4
`
	deleteOrderQuery = `
						DELETE FROM orders
						WHERE id = $1 AND status = 'PENDING_PAYMENT'
`
	recordAttemptQuery = `
						UPDATE orders
						SET attempt_count = attempt_count + 1, last_attempt_at = $1
						WHERE id = $2 AND tenant_id = $3
`
	claimNotificationQuery = `
						UPDATE orders
						SET sent_marker = $1, provider_status = 'CLAIMED'
						WHERE id = $2 AND tenant_id = $3
							AND status = 'READY'
							AND notify_on_ready = TRUE
							AND sent_marker IS NULL
							AND customer_email <> ''
`
	completeNotificationQuery = `
						UPDATE orders
						SET provider_message_id = $1, provider_status = $2, error_message = ''
						WHERE id = $3
`
	releaseNotificationQuery = `
						UPDATE orders
						SET sent_marker = NULL, provider_message_id = '', provider_status = '', error_message = $1
						WHERE id = $2
`
)

// OrderRepository implements order persistence over postgres
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order with its items
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := or.db.QueryRow(ctx, insertOrderQuery,
		order.ID, order.TenantID, order.Status, order.Currency, order.SubtotalCents, order.TotalCents,
		order.ScheduledFor, order.Timezone, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.NotifyOnReady).Scan(&order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for _, item := range order.Items {
		addOns, err := json.Marshal(item.AddOns)
		if err != nil {
			return nil, err
		}
		_, err = or.db.Exec(ctx, insertOrderItemQuery,
			order.ID, item.MenuItemID, item.Name, item.UnitPriceCents, item.Quantity, item.Note, addOns)
		if err != nil {
			return nil, err
		}
	}

	return order, nil
}

// GetOrder returns order with items by id
func (or *OrderRepository) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderQuery, orderID).Scan(
		&order.ID, &order.TenantID, &order.Status, &order.Currency, &order.SubtotalCents, &order.TotalCents,
		&order.ScheduledFor, &order.Timezone, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.NotifyOnReady, &order.SentMarker, &order.ProviderMessageID, &order.ProviderStatus,
		&order.ErrorMessage, &order.AttemptCount, &order.LastAttemptAt, &order.PaymentRef, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	items, err := or.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

// ListOrders returns tenant orders, either active only or within history window
func (or *OrderRepository) ListOrders(ctx context.Context, tenantID string, activeOnly bool, since time.Time) ([]models.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if activeOnly {
		rows, err = or.db.Query(ctx, selectActiveOrdersQuery, tenantID)
	} else {
		rows, err = or.db.Query(ctx, selectHistoryOrdersQuery, tenantID, since)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(
			&order.ID, &order.TenantID, &order.Status, &order.Currency, &order.SubtotalCents, &order.TotalCents,
			&order.ScheduledFor, &order.Timezone, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
			&order.NotifyOnReady, &order.SentMarker, &order.ProviderMessageID, &order.ProviderStatus,
			&order.ErrorMessage, &order.AttemptCount, &order.LastAttemptAt, &order.PaymentRef, &order.CreatedAt)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := or.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

// UpdateStatus moves order from -> to with a conditional write on the prior status.
// Returns ErrDataNotFound when the row no longer matches.
func (or *OrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to models.Status, paymentRef string) error {
	cmd, err := or.db.Exec(ctx, updateStatusQuery, to, paymentRef, orderID, from)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeleteOrder removes order, used only to compensate failed payment session
// creation. The delete is conditional on PENDING_PAYMENT so a concurrent
// payment confirmation can never lose a paid order; a miss returns
// ErrDataNotFound.
func (or *OrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	cmd, err := or.db.Exec(ctx, deleteOrderQuery, orderID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// RecordAttempt increments attempt counter and stamps last attempt time
func (or *OrderRepository) RecordAttempt(ctx context.Context, tenantID, orderID string, at time.Time) error {
	_, err := or.db.Exec(ctx, recordAttemptQuery, at, orderID, tenantID)
	return err
}

// ClaimNotification performs the conditional send claim. It returns true only
// when this caller set the marker; false means another attempt already won
// or the row changed underneath.
func (or *OrderRepository) ClaimNotification(ctx context.Context, tenantID, orderID string, at time.Time) (bool, error) {
	cmd, err := or.db.Exec(ctx, claimNotificationQuery, at, orderID, tenantID)
	if err != nil {
		return false, err
	}

	return cmd.RowsAffected() == 1, nil
}

// CompleteNotification stores provider message id and status after a successful send
func (or *OrderRepository) CompleteNotification(ctx context.Context, orderID, messageID, status string) error {
	_, err := or.db.Exec(ctx, completeNotificationQuery, messageID, status, orderID)
	return err
}

// ReleaseNotification rolls the claim back after a failed send. The attempt
// counter is left untouched so repeated failures stay bounded.
func (or *OrderRepository) ReleaseNotification(ctx context.Context, orderID, errMsg string) error {
	_, err := or.db.Exec(ctx, releaseNotificationQuery, errMsg, orderID)
	return err
}

func (or *OrderRepository) loadItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := or.db.Query(ctx, selectOrderItemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}

	for rows.Next() {
		item := models.OrderItem{}
		var addOns []byte
		err = rows.Scan(&item.MenuItemID, &item.Name, &item.UnitPriceCents, &item.Quantity, &item.Note, &addOns)
		if err != nil {
			continue
		}
		if len(addOns) > 0 {
			if err := json.Unmarshal(addOns, &item.AddOns); err != nil {
				return nil, err
			}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
