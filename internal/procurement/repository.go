package procurement

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

// File names inside the data directory.
const (
	billsFile = "supplier_invoices.json"
	itemsFile = "supplier_invoice_items.json"
)

type billDoc struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	SupplierName  string `json:"supplier_name"`
	PaymentStatus string `json:"payment_status"`
}

type itemDoc struct {
	ID       int64  `json:"id"`
	BillID   int64  `json:"supplier_invoice_id"`
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// Repository reads and writes the supplier bill collections.
type Repository struct {
	billsPath string
	itemsPath string
	logger    *slog.Logger
	recorder  jsonstore.CoercionRecorder
}

// NewRepository builds a Repository rooted at dataDir.
func NewRepository(dataDir string, logger *slog.Logger, recorder jsonstore.CoercionRecorder) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		billsPath: filepath.Join(dataDir, billsFile),
		itemsPath: filepath.Join(dataDir, itemsFile),
		logger:    logger,
		recorder:  recorder,
	}
}

// Load decodes both collections with the lenient numeric policy.
func (r *Repository) Load() ([]Bill, []BillItem, []jsonstore.FieldWarning, error) {
	var billDocs []billDoc
	if err := jsonstore.Load(r.billsPath, &billDocs); err != nil {
		return nil, nil, nil, fmt.Errorf("procurement: load bills: %w", err)
	}
	var itemDocs []itemDoc
	if err := jsonstore.Load(r.itemsPath, &itemDocs); err != nil {
		return nil, nil, nil, fmt.Errorf("procurement: load bill items: %w", err)
	}

	bills := make([]Bill, 0, len(billDocs))
	for _, doc := range billDocs {
		bill := Bill{ID: doc.ID, SupplierName: doc.SupplierName, Status: statusOf(doc.PaymentStatus)}
		if date, err := time.ParseInLocation(jsonstore.DateLayout, doc.Date, time.Local); err == nil {
			bill.Date = date
		} else if doc.Date != "" {
			r.logger.Warn("invalid bill date ignored",
				slog.Int64("record_id", doc.ID), slog.String("raw", doc.Date))
		}
		bills = append(bills, bill)
	}

	coercer := &jsonstore.Coercer{Collection: "supplier_invoice_items", Logger: r.logger, Recorder: r.recorder}
	items := make([]BillItem, 0, len(itemDocs))
	for _, doc := range itemDocs {
		items = append(items, BillItem{
			ID:       doc.ID,
			BillID:   doc.BillID,
			ItemName: doc.Item,
			Quantity: coercer.Decimal(doc.ID, "quantity", doc.Quantity),
			Price:    coercer.Decimal(doc.ID, "price", doc.Price),
		})
	}
	return bills, items, coercer.Warnings(), nil
}

// SaveBills rewrites the bill header collection atomically.
func (r *Repository) SaveBills(bills []Bill) error {
	docs := make([]billDoc, 0, len(bills))
	for _, bill := range bills {
		docs = append(docs, billDoc{
			ID:            bill.ID,
			Date:          bill.Date.Format(jsonstore.DateLayout),
			SupplierName:  bill.SupplierName,
			PaymentStatus: string(bill.Status),
		})
	}
	if err := jsonstore.Save(r.billsPath, docs); err != nil {
		return fmt.Errorf("procurement: save bills: %w", err)
	}
	return nil
}

// SaveItems rewrites the bill item collection atomically.
func (r *Repository) SaveItems(items []BillItem) error {
	docs := make([]itemDoc, 0, len(items))
	for _, item := range items {
		docs = append(docs, itemDoc{
			ID:       item.ID,
			BillID:   item.BillID,
			Item:     item.ItemName,
			Quantity: item.Quantity.String(),
			Price:    item.Price.String(),
		})
	}
	if err := jsonstore.Save(r.itemsPath, docs); err != nil {
		return fmt.Errorf("procurement: save bill items: %w", err)
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
