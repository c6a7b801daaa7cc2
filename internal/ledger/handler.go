package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eazeinn/accounts/internal/platform/httpx"
	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// Handler wires HTTP endpoints for the inventory collection.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/items", h.handleList)
	r.Get("/items/{id}", h.handleGet)
}

type recordView struct {
	ID          int64  `json:"id"`
	ItemName    string `json:"item_name"`
	Quantity    string `json:"quantity"`
	UnitCost    string `json:"unit_cost"`
	LastUpdated string `json:"last_updated,omitempty"`
	StatusFlag  string `json:"status_flag,omitempty"`
}

func viewOf(rec Record) recordView {
	v := recordView{
		ID:         rec.ID,
		ItemName:   rec.ItemName,
		Quantity:   rec.Quantity.String(),
		UnitCost:   rec.UnitCost.String(),
		StatusFlag: string(rec.StatusFlag),
	}
	if !rec.LastUpdated.IsZero() {
		v.LastUpdated = jsonstore.FormatTime(rec.LastUpdated)
	}
	return v
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records := h.service.Items()
	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		views = append(views, viewOf(rec))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": views})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item id")
		return
	}
	rec, err := h.service.Item(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		h.logger.Error("get inventory item", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(rec))
}
