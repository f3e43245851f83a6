package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dinehub/orderflow/internal/models"
)

// payment session results the gateway reports back
const (
	gatewayStatusConfirmed = "confirmed"
	gatewayStatusFailed    = "failed"
)

// PaymentService is confirmation surface used by the payment collaborator
type PaymentService interface {
	ConfirmPayment(ctx context.Context, orderID, paymentRef string) (*models.Order, error)
	AbandonOrder(ctx context.Context, orderID string) error
}

// PaymentHandler represents HTTP handler for the payment gateway webhook
type PaymentHandler struct {
	svc PaymentService
}

// NewPaymentHandler creates new PaymentHandler instance
func NewPaymentHandler(svc PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type paymentWebhookReq struct {
	OrderID    string `json:"order_id"`
	PaymentRef string `json:"payment_ref,omitempty"`
	Status     string `json:"status"`
}

// ConfirmPayment handles the gateway webhook. "confirmed" moves the order to
// NEW, "failed" removes an order stuck in PENDING_PAYMENT.
// 200 — обработано;
// 400 — неверный формат запроса;
// 404 — заказ не найден;
// 409 — заказ уже вне PENDING_PAYMENT;
// 500 — внутренняя ошибка сервера.
func (ph *PaymentHandler) ConfirmPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentWebhookReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.OrderID == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		switch req.Status {
		case gatewayStatusConfirmed:
			order, err := ph.svc.ConfirmPayment(r.Context(), req.OrderID, req.PaymentRef)
			if err != nil {
				writePaymentError(w, err)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(setStatusResp{Order: toOrderResp(order)})
		case gatewayStatusFailed:
			if err := ph.svc.AbandonOrder(r.Context(), req.OrderID); err != nil {
				writePaymentError(w, err)
				return
			}

			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "bad request", http.StatusBadRequest)
		}
	}
}

func writePaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDataNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidTransition):
		writeRejection(w, http.StatusConflict, "INVALID_TRANSITION")
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
