// Package settings manages the company profile stored in settings.json and
// the currency formatting derived from it.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/eazeinn/accounts/internal/platform/jsonstore"
)

const settingsFile = "settings.json"

// CurrencySymbol prefixes formatted amounts.
const CurrencySymbol = "₹"

// Company is the stored company profile.
type Company struct {
	Name    string `json:"company_name"`
	Address string `json:"company_address"`
	Email   string `json:"company_email"`
	Phone   string `json:"company_phone"`
	GSTIN   string `json:"company_gstin,omitempty"`
}

// Defaults fill fields missing from the settings file.
var Defaults = Company{
	Name:    "Your Company Name",
	Address: "Your Company Address, City, PIN",
	Email:   "your.email@example.com",
	Phone:   "Your Phone Number",
}

// ErrPersistence indicates the settings file could not be written.
var ErrPersistence = errors.New("settings: save failed")

// Service owns the company profile and its backing file.
type Service struct {
	mu      sync.Mutex
	path    string
	logger  *slog.Logger
	company Company
	printer *message.Printer
}

// NewService loads settings, merging defaults over missing fields. A corrupt
// file falls back to defaults with a logged error.
func NewService(dataDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		path:    filepath.Join(dataDir, settingsFile),
		logger:  logger,
		company: Defaults,
		printer: message.NewPrinter(language.English),
	}
	var loaded Company
	if err := jsonstore.Load(s.path, &loaded); err != nil {
		logger.Error("settings load failed, using defaults", slog.Any("error", err))
		return s
	}
	s.company = mergeDefaults(loaded)
	return s
}

// Get returns the current company profile.
func (s *Service) Get() Company {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.company
}

// Update replaces the profile and persists it. Missing fields fall back to
// defaults rather than persisting blanks.
func (s *Service) Update(company Company) (Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := mergeDefaults(company)
	if err := jsonstore.Save(s.path, merged); err != nil {
		return Company{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.company = merged
	return merged, nil
}

// FormatAmount renders an amount with the currency symbol, thousands
// separators and two decimal places, e.g. "₹1,234.50".
func (s *Service) FormatAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return CurrencySymbol + s.printer.Sprintf("%v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func mergeDefaults(c Company) Company {
	if c.Name == "" {
		c.Name = Defaults.Name
	}
	if c.Address == "" {
		c.Address = Defaults.Address
	}
	if c.Email == "" {
		c.Email = Defaults.Email
	}
	if c.Phone == "" {
		c.Phone = Defaults.Phone
	}
	return c
}
