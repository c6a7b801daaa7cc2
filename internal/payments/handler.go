package payments

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/eazeinn/accounts/internal/platform/httpx"
	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// Handler wires HTTP endpoints for payments.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the payments handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers payment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleRecord)
	r.Get("/", h.handleList)
}

type recordRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=CUSTOMER SUPPLIER"`
	DocID  int64  `json:"doc_id" validate:"required,gt=0"`
	Amount string `json:"amount" validate:"required"`
	Method string `json:"method" validate:"omitempty,max=50"`
}

type paymentView struct {
	ID     int64  `json:"id"`
	Kind   string `json:"kind"`
	DocID  int64  `json:"doc_id"`
	Amount string `json:"amount"`
	Method string `json:"method,omitempty"`
	PaidAt string `json:"paid_at"`
}

func paymentViewOf(p Payment) paymentView {
	return paymentView{
		ID:     p.ID,
		Kind:   string(p.Kind),
		DocID:  p.DocID,
		Amount: p.Amount.String(),
		Method: p.Method,
		PaidAt: jsonstore.FormatTime(p.PaidAt),
	}
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}
	result, err := h.service.Record(r.Context(), RecordInput{
		Kind:   DocKind(req.Kind),
		DocID:  req.DocID,
		Amount: req.Amount,
		Method: req.Method,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		case errors.Is(err, ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		case errors.Is(err, ErrPersistence):
			h.logger.Error("payment persistence", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Persistence Error", err.Error())
		default:
			h.logger.Error("payment handler", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"payment":    paymentViewOf(result.Payment),
		"doc_total":  result.DocTotal.StringFixed(2),
		"paid_total": result.PaidTotal.StringFixed(2),
		"settled":    result.Settled,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	pays := h.service.List()
	views := make([]paymentView, 0, len(pays))
	for _, p := range pays {
		views = append(views, paymentViewOf(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": views})
}
