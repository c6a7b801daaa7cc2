package sales

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// File names inside the data directory.
const (
	invoicesFile = "invoices.json"
	itemsFile    = "invoice_items.json"
)

type invoiceDoc struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	CustomerName  string `json:"customer_name"`
	PaymentStatus string `json:"payment_status"`
}

type itemDoc struct {
	ID        int64  `json:"id"`
	InvoiceID int64  `json:"invoice_id"`
	Item      string `json:"item"`
	Quantity  string `json:"quantity"`
	Price     string `json:"price"`
}

// Repository reads and writes the customer invoice collections.
type Repository struct {
	invoicesPath string
	itemsPath    string
	logger       *slog.Logger
	recorder     jsonstore.CoercionRecorder
}

// NewRepository builds a Repository rooted at dataDir.
func NewRepository(dataDir string, logger *slog.Logger, recorder jsonstore.CoercionRecorder) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		invoicesPath: filepath.Join(dataDir, invoicesFile),
		itemsPath:    filepath.Join(dataDir, itemsFile),
		logger:       logger,
		recorder:     recorder,
	}
}

// Load decodes both collections with the lenient numeric policy.
func (r *Repository) Load() ([]Invoice, []InvoiceItem, []jsonstore.FieldWarning, error) {
	var invDocs []invoiceDoc
	if err := jsonstore.Load(r.invoicesPath, &invDocs); err != nil {
		return nil, nil, nil, fmt.Errorf("sales: load invoices: %w", err)
	}
	var itemDocs []itemDoc
	if err := jsonstore.Load(r.itemsPath, &itemDocs); err != nil {
		return nil, nil, nil, fmt.Errorf("sales: load invoice items: %w", err)
	}

	invoices := make([]Invoice, 0, len(invDocs))
	for _, doc := range invDocs {
		inv := Invoice{ID: doc.ID, CustomerName: doc.CustomerName, Status: statusOf(doc.PaymentStatus)}
		if date, err := time.ParseInLocation(jsonstore.DateLayout, doc.Date, time.Local); err == nil {
			inv.Date = date
		} else if doc.Date != "" {
			r.logger.Warn("invalid invoice date ignored",
				slog.Int64("record_id", doc.ID), slog.String("raw", doc.Date))
		}
		invoices = append(invoices, inv)
	}

	coercer := &jsonstore.Coercer{Collection: "invoice_items", Logger: r.logger, Recorder: r.recorder}
	items := make([]InvoiceItem, 0, len(itemDocs))
	for _, doc := range itemDocs {
		items = append(items, InvoiceItem{
			ID:        doc.ID,
			InvoiceID: doc.InvoiceID,
			ItemName:  doc.Item,
			Quantity:  coercer.Decimal(doc.ID, "quantity", doc.Quantity),
			Price:     coercer.Decimal(doc.ID, "price", doc.Price),
		})
	}
	return invoices, items, coercer.Warnings(), nil
}

// SaveInvoices rewrites the invoice header collection atomically.
func (r *Repository) SaveInvoices(invoices []Invoice) error {
	docs := make([]invoiceDoc, 0, len(invoices))
	for _, inv := range invoices {
		docs = append(docs, invoiceDoc{
			ID:            inv.ID,
			Date:          inv.Date.Format(jsonstore.DateLayout),
			CustomerName:  inv.CustomerName,
			PaymentStatus: string(inv.Status),
		})
	}
	if err := jsonstore.Save(r.invoicesPath, docs); err != nil {
		return fmt.Errorf("sales: save invoices: %w", err)
	}
	return nil
}

// SaveItems rewrites the invoice item collection atomically.
func (r *Repository) SaveItems(items []InvoiceItem) error {
	docs := make([]itemDoc, 0, len(items))
	for _, item := range items {
		docs = append(docs, itemDoc{
			ID:        item.ID,
			InvoiceID: item.InvoiceID,
			Item:      item.ItemName,
			Quantity:  item.Quantity.String(),
			Price:     item.Price.String(),
		})
	}
	if err := jsonstore.Save(r.itemsPath, docs); err != nil {
		return fmt.Errorf("sales: save invoice items: %w", err)
	}
	return nil
}

func statusOf(raw string) PaymentStatus {
	switch raw {
	case string(PaymentStatusPaid):
		return PaymentStatusPaid
	default:
		// Legacy files carry "P" for pending; anything unknown stays pending.
		return PaymentStatusPending
	}
}
