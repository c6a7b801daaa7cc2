package procurement

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/eazeinn/accounts/internal/platform/httpx"
	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// Handler wires HTTP endpoints for supplier bills.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the procurement handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers procurement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/bills", h.handleCreate)
	r.Get("/bills", h.handleList)
	r.Get("/bills/{id}", h.handleGet)
}

type lineRequest struct {
	Item     string `json:"item" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Price    string `json:"price" validate:"required"`
}

type createBillRequest struct {
	SupplierName string        `json:"supplier_name" validate:"required,max=200"`
	Date         string        `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Lines        []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

type billView struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	SupplierName  string `json:"supplier_name"`
	PaymentStatus string `json:"payment_status"`
}

type itemView struct {
	ID       int64  `json:"id"`
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

func billViewOf(bill Bill) billView {
	return billView{
		ID:            bill.ID,
		Date:          bill.Date.Format(jsonstore.DateLayout),
		SupplierName:  bill.SupplierName,
		PaymentStatus: string(bill.Status),
	}
}

func itemViewsOf(items []BillItem) []itemView {
	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{
			ID:       item.ID,
			Item:     item.ItemName,
			Quantity: item.Quantity.String(),
			Price:    item.Price.String(),
		})
	}
	return views
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}
	input := CreateBillInput{SupplierName: req.SupplierName, Date: req.Date}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, LineInput{ItemName: line.Item, Quantity: line.Quantity, Price: line.Price})
	}
	result, err := h.service.CreateBill(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	body := map[string]any{
		"bill":  billViewOf(result.Bill),
		"items": itemViewsOf(result.Items),
		"total": result.Total.StringFixed(2),
	}
	if result.StockWarning != "" {
		body["stock_warning"] = result.StockWarning
	}
	httpx.JSON(w, http.StatusCreated, body)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	bills := h.service.ListBills()
	views := make([]billView, 0, len(bills))
	for _, bill := range bills {
		views = append(views, billViewOf(bill))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bills": views})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid bill id")
		return
	}
	bill, items, err := h.service.GetBill(id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	total, _ := h.service.BillTotal(id)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"bill":  billViewOf(bill),
		"items": itemViewsOf(items),
		"total": total.StringFixed(2),
	})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrPersistence):
		h.logger.Error("bill persistence", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Persistence Error", err.Error())
	default:
		h.logger.Error("bill handler", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
