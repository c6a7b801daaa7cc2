package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/eazeinn/accounts/internal/insights"
	"github.com/eazeinn/accounts/internal/ledger"
	"github.com/eazeinn/accounts/internal/observability"
	"github.com/eazeinn/accounts/internal/payments"
	"github.com/eazeinn/accounts/internal/procurement"
	"github.com/eazeinn/accounts/internal/sales"
	"github.com/eazeinn/accounts/internal/settings"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dataDir := t.TempDir()
	metrics := observability.NewMetrics()

	ledgerService := ledger.NewService(ledger.NewRepository(filepath.Join(dataDir, "inventory.json"), logger, metrics), logger, metrics)
	salesService := sales.NewService(sales.NewRepository(dataDir, logger, metrics), ledgerService, logger)
	procurementService := procurement.NewService(procurement.NewRepository(dataDir, logger, metrics), ledgerService, logger)
	paymentsService := payments.NewService(payments.NewRepository(dataDir, logger, metrics), salesService, procurementService, logger)
	settingsService := settings.NewService(dataDir, logger)
	insightsService := insights.NewService(ledgerService, salesService, procurementService, decimal.NewFromInt(5))

	return NewRouter(RouterParams{
		Logger:             logger,
		Config:             &Config{AppEnv: "test"},
		LedgerHandler:      ledger.NewHandler(logger, ledgerService),
		SalesHandler:       sales.NewHandler(logger, salesService),
		ProcurementHandler: procurement.NewHandler(logger, procurementService),
		PaymentsHandler:    payments.NewHandler(logger, paymentsService),
		SettingsHandler:    settings.NewHandler(logger, settingsService),
		InsightsHandler:    insights.NewHandler(logger, insightsService, settingsService),
		Metrics:            metrics,
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBillThenInvoiceFlow(t *testing.T) {
	router := newTestRouter(t)

	bill := `{"supplier_name": "Mehta", "lines": [{"item": "Pen", "quantity": "100", "price": "2.50"}]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/procurement/bills", strings.NewReader(bill))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	invoice := `{"customer_name": "Asha", "lines": [{"item": "pen", "quantity": "30", "price": "5.00"}]}`
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/sales/invoices", strings.NewReader(invoice))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory/items/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"quantity":"70"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/insights/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"inventory_value":"175.00"`)
}
