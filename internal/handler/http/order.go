package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dinehub/orderflow/internal/models"
	"github.com/dinehub/orderflow/internal/service"
)

// OrderService drives the order lifecycle
type OrderService interface {
	Submit(ctx context.Context, tenantID string, req service.SubmitRequest) (*models.Order, error)
	SetStatus(ctx context.Context, actor models.ActorPayload, tenantID, orderID string, next models.Status) (*models.Order, *models.DispatchOutcome, error)
	RetryNotification(ctx context.Context, actor models.ActorPayload, tenantID, orderID string) (models.DispatchOutcome, error)
	Query(ctx context.Context, actor models.ActorPayload, tenantID string, activeOnly bool, historyHours int) ([]models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type submitAddOn struct {
	Name            string `json:"name"`
	PriceDeltaCents int64  `json:"price_delta_cents"`
}

type submitItem struct {
	MenuItemID string        `json:"menu_item_id"`
	Quantity   int           `json:"quantity"`
	Note       string        `json:"note,omitempty"`
	AddOns     []submitAddOn `json:"add_ons,omitempty"`
}

type submitOrderReq struct {
	Items         []submitItem `json:"items"`
	ScheduledFor  *time.Time   `json:"scheduled_for,omitempty"`
	CustomerName  string       `json:"customer_name,omitempty"`
	CustomerEmail string       `json:"customer_email"`
	CustomerPhone string       `json:"customer_phone,omitempty"`
	NotifyOnReady bool         `json:"notify_on_ready"`
}

type submitOrderResp struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	Currency      string `json:"currency"`
	SubtotalCents int64  `json:"subtotal_cents"`
	TotalCents    int64  `json:"total_cents"`
}

type dispatchResp struct {
	Result     string `json:"result"`
	SkipReason string `json:"skip_reason,omitempty"`
	MessageID  string `json:"message_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

type orderResp struct {
	OrderID       string     `json:"order_id"`
	Status        string     `json:"status"`
	Currency      string     `json:"currency"`
	SubtotalCents int64      `json:"subtotal_cents"`
	TotalCents    int64      `json:"total_cents"`
	ScheduledFor  *time.Time `json:"scheduled_for,omitempty"`
	CustomerName  string     `json:"customer_name,omitempty"`
	NotifyOnReady bool       `json:"notify_on_ready"`
	AttemptCount  int        `json:"attempt_count"`
	CreatedAt     string     `json:"created_at"`
}

type setStatusReq struct {
	Status string `json:"status"`
}

type setStatusResp struct {
	Order    orderResp     `json:"order"`
	Dispatch *dispatchResp `json:"dispatch,omitempty"`
}

type rejectionResp struct {
	Code string `json:"code"`
}

// SubmitOrder accepts a customer order submission
// 201 — заказ принят, ожидает оплаты;
// 400 — неверный формат запроса;
// 404 — неизвестный tenant;
// 409 — конфликт данных заказа;
// 422 — отклонено валидатором цен или расписания;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) SubmitOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := chi.URLParam(r, "tenant")

		var req submitOrderReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		items := make([]models.LineItemRequest, 0, len(req.Items))
		for _, it := range req.Items {
			addOns := make([]models.AddOnDefinition, 0, len(it.AddOns))
			for _, ao := range it.AddOns {
				addOns = append(addOns, models.AddOnDefinition{Name: ao.Name, PriceDeltaCents: ao.PriceDeltaCents})
			}
			items = append(items, models.LineItemRequest{
				MenuItemID: it.MenuItemID,
				Quantity:   it.Quantity,
				Note:       it.Note,
				AddOns:     addOns,
			})
		}

		order, err := oh.svc.Submit(r.Context(), tenantID, service.SubmitRequest{
			Items:        items,
			ScheduledFor: req.ScheduledFor,
			Contact: models.Contact{
				Name:  req.CustomerName,
				Email: req.CustomerEmail,
				Phone: req.CustomerPhone,
			},
			NotifyOnReady: req.NotifyOnReady,
		})
		if err != nil {
			writeOrderError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(submitOrderResp{
			OrderID:       order.ID,
			Status:        string(order.Status),
			Currency:      order.Currency,
			SubtotalCents: order.SubtotalCents,
			TotalCents:    order.TotalCents,
		})
	}
}

// SetOrderStatus advances an order along the status graph
// 200 — статус изменён, исход нотификации в поле dispatch;
// 400 — неверный формат запроса;
// 401 — пользователь не аутентифицирован;
// 403 — актор другого tenant;
// 404 — заказ не найден;
// 409 — недопустимый переход статуса;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) SetOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || actor == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tenantID := chi.URLParam(r, "tenant")
		orderID := chi.URLParam(r, "orderID")

		var req setStatusReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, outcome, err := oh.svc.SetStatus(r.Context(), *actor, tenantID, orderID, models.Status(req.Status))
		if err != nil {
			writeOrderError(w, err)
			return
		}

		resp := setStatusResp{Order: toOrderResp(order)}
		if outcome != nil {
			resp.Dispatch = toDispatchResp(*outcome)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// RetryNotification retries the ready notification for an order
// 200 — попытка выполнена, исход в теле;
// 401 — пользователь не аутентифицирован;
// 403 — актор другого tenant;
// 429 — превышен лимит попыток или не истёк кулдаун;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) RetryNotification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || actor == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tenantID := chi.URLParam(r, "tenant")
		orderID := chi.URLParam(r, "orderID")

		outcome, err := oh.svc.RetryNotification(r.Context(), *actor, tenantID, orderID)
		if err != nil {
			writeOrderError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(toDispatchResp(outcome))
	}
}

// ListOrders returns tenant orders, ?active=true or ?history_hours=N
// 200 — успешная обработка запроса;
// 204 — нет данных для ответа;
// 400 — неверные параметры фильтра;
// 401 — пользователь не аутентифицирован;
// 403 — актор другого tenant;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || actor == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tenantID := chi.URLParam(r, "tenant")

		activeOnly := r.URL.Query().Get("active") == "true"
		historyHours := 0
		if v := r.URL.Query().Get("history_hours"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			historyHours = n
		}

		orders, err := oh.svc.Query(r.Context(), *actor, tenantID, activeOnly, historyHours)
		if err != nil {
			writeOrderError(w, err)
			return
		}

		if len(orders) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		resp := make([]orderResp, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResp(&orders[i]))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func toOrderResp(order *models.Order) orderResp {
	return orderResp{
		OrderID:       order.ID,
		Status:        string(order.Status),
		Currency:      order.Currency,
		SubtotalCents: order.SubtotalCents,
		TotalCents:    order.TotalCents,
		ScheduledFor:  order.ScheduledFor,
		CustomerName:  order.CustomerName,
		NotifyOnReady: order.NotifyOnReady,
		AttemptCount:  order.AttemptCount,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
}

func toDispatchResp(outcome models.DispatchOutcome) *dispatchResp {
	return &dispatchResp{
		Result:     string(outcome.Result),
		SkipReason: string(outcome.SkipReason),
		MessageID:  outcome.MessageID,
		Error:      outcome.Error,
	}
}

func writeRejection(w http.ResponseWriter, statusCode int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(rejectionResp{Code: code})
}

func writeOrderError(w http.ResponseWriter, err error) {
	var schedErr models.SchedulingError

	switch {
	case errors.Is(err, models.ErrValidation):
		http.Error(w, "bad request", http.StatusBadRequest)
	case errors.Is(err, models.ErrNotAllowed):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, models.ErrDataNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrConflictData):
		http.Error(w, "conflict", http.StatusConflict)
	case errors.Is(err, models.ErrInvalidTransition):
		writeRejection(w, http.StatusConflict, "INVALID_TRANSITION")
	case errors.Is(err, models.ErrCatalogMismatch):
		writeRejection(w, http.StatusUnprocessableEntity, "CATALOG_MISMATCH")
	case errors.Is(err, models.ErrInvalidAddOn):
		writeRejection(w, http.StatusUnprocessableEntity, "INVALID_ADD_ON")
	case errors.As(err, &schedErr):
		writeRejection(w, http.StatusUnprocessableEntity, schedErr.Code)
	case errors.Is(err, models.ErrRetryLimited):
		writeRejection(w, http.StatusTooManyRequests, "RETRY_LIMITED")
	case errors.Is(err, models.ErrRetryTooSoon):
		writeRejection(w, http.StatusTooManyRequests, "RETRY_TOO_SOON")
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
