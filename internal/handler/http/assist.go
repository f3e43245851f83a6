package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dinehub/orderflow/internal/models"
)

// AssistService runs governed text generation calls
type AssistService interface {
	Generate(ctx context.Context, tenantID, prompt string) (string, error)
}

// AssistHandler represents HTTP handler for assistant requests
type AssistHandler struct {
	svc AssistService
}

// NewAssistHandler creates new AssistHandler instance
func NewAssistHandler(svc AssistService) *AssistHandler {
	return &AssistHandler{svc: svc}
}

type assistReq struct {
	Prompt string `json:"prompt"`
}

type assistResp struct {
	Text string `json:"text"`
}

// Generate runs one governed generation call for tenant
// 200 — успешная обработка запроса;
// 400 — неверный формат запроса;
// 401 — пользователь не аутентифицирован;
// 403 — актор другого tenant;
// 429 — превышен лимит запросов tenant;
// 503 — circuit breaker открыт;
// 500 — внутренняя ошибка сервера.
func (ah *AssistHandler) Generate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || actor == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tenantID := chi.URLParam(r, "tenant")
		if actor.TenantID != tenantID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req assistReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		text, err := ah.svc.Generate(r.Context(), tenantID, req.Prompt)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrRateLimited):
				writeRejection(w, http.StatusTooManyRequests, "RATE_LIMITED")
			case errors.Is(err, models.ErrCircuitOpen):
				writeRejection(w, http.StatusServiceUnavailable, "CIRCUIT_OPEN")
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(assistResp{Text: text})
	}
}
