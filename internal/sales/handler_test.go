package sales

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	svc := newTestService(t, &fakeLedger{})
	h := NewHandler(testLogger(), svc)
	r := chi.NewRouter()
	r.Route("/sales", h.MountRoutes)
	return r
}

func TestCreateInvoiceEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{
        "customer_name": "Asha Stores",
        "date": "2024-03-15",
        "lines": [
            {"item": "Pen", "quantity": "10", "price": "5.00"},
            {"item": "Book", "quantity": "2", "price": "120.50"}
        ]
    }`
	req := httptest.NewRequest(http.MethodPost, "/sales/invoices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Invoice invoiceView `json:"invoice"`
		Items   []itemView  `json:"items"`
		Total   string      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(1), resp.Invoice.ID)
	require.Equal(t, "PENDING", resp.Invoice.PaymentStatus)
	require.Equal(t, "2024-03-15", resp.Invoice.Date)
	require.Len(t, resp.Items, 2)
	require.Equal(t, "291.00", resp.Total)

	getReq := httptest.NewRequest(http.MethodGet, "/sales/invoices/1", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)
}

func TestCreateInvoiceEndpointRejectsMissingLines(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/sales/invoices", strings.NewReader(`{"customer_name": "Asha"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Validation Failed")
}

func TestGetInvoiceEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/sales/invoices/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
