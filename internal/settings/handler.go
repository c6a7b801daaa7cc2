package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/eazeinn/accounts/internal/platform/httpx"
)

// Handler wires HTTP endpoints for company settings.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the settings handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/company", h.handleGet)
	r.Put("/company", h.handleUpdate)
}

type updateRequest struct {
	Name    string `json:"company_name" validate:"omitempty,max=200"`
	Address string `json:"company_address" validate:"omitempty,max=500"`
	Email   string `json:"company_email" validate:"omitempty,email"`
	Phone   string `json:"company_phone" validate:"omitempty,max=50"`
	GSTIN   string `json:"company_gstin" validate:"omitempty,max=20"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.service.Get())
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}
	company, err := h.service.Update(Company{
		Name:    req.Name,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		GSTIN:   req.GSTIN,
	})
	if err != nil {
		if errors.Is(err, ErrPersistence) {
			h.logger.Error("settings persistence", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Persistence Error", err.Error())
			return
		}
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}
