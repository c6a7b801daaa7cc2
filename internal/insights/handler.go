package insights

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eazeinn/accounts/internal/platform/httpx"
	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// Handler wires HTTP endpoints for the dashboard.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	formatter FormatterPort
}

// NewHandler constructs the insights handler.
func NewHandler(logger *slog.Logger, service *Service, formatter FormatterPort) *Handler {
	return &Handler{logger: logger, service: service, formatter: formatter}
}

// MountRoutes registers insight routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.handleSummary)
	r.Get("/low-stock", h.handleLowStock)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("dashboard summary", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"pending_receivables":           summary.PendingReceivables.StringFixed(2),
		"pending_payables":              summary.PendingPayables.StringFixed(2),
		"inventory_value":               summary.InventoryValue.StringFixed(2),
		"pending_receivables_formatted": h.formatter.FormatAmount(summary.PendingReceivables),
		"pending_payables_formatted":    h.formatter.FormatAmount(summary.PendingPayables),
		"inventory_value_formatted":     h.formatter.FormatAmount(summary.InventoryValue),
	})
}

type lowStockView struct {
	ID          int64  `json:"id"`
	ItemName    string `json:"item_name"`
	Quantity    string `json:"quantity"`
	UnitCost    string `json:"unit_cost"`
	LastUpdated string `json:"last_updated,omitempty"`
	StatusFlag  string `json:"status_flag,omitempty"`
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	records := h.service.LowStock()
	views := make([]lowStockView, 0, len(records))
	for _, rec := range records {
		v := lowStockView{
			ID:         rec.ID,
			ItemName:   rec.ItemName,
			Quantity:   rec.Quantity.String(),
			UnitCost:   rec.UnitCost.String(),
			StatusFlag: string(rec.StatusFlag),
		}
		if !rec.LastUpdated.IsZero() {
			v.LastUpdated = jsonstore.FormatTime(rec.LastUpdated)
		}
		views = append(views, v)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"threshold": h.service.Threshold().String(),
		"items":     views,
	})
}
