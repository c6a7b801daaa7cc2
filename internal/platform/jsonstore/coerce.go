package jsonstore

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// CoercionRecorder counts numeric coercions so the leniency policy stays
// observable.
type CoercionRecorder interface {
	ObserveCoercion(collection, field string)
}

// FieldWarning describes one coerced field.
type FieldWarning struct {
	Collection string
	RecordID   int64
	Field      string
	Raw        string
}

// Coercer applies the loader leniency policy: an unparseable numeric field is
// coerced to zero with a structured warning instead of dropping the record or
// aborting the load.
type Coercer struct {
	Collection string
	Logger     *slog.Logger
	Recorder   CoercionRecorder

	warnings []FieldWarning
}

// Decimal parses raw, substituting zero and recording a warning when the
// value is malformed.
func (c *Coercer) Decimal(recordID int64, field, raw string) decimal.Decimal {
	d, ok := ParseDecimal(raw)
	if ok {
		return d
	}
	c.warnings = append(c.warnings, FieldWarning{Collection: c.Collection, RecordID: recordID, Field: field, Raw: raw})
	if c.Logger != nil {
		c.Logger.Warn("invalid decimal coerced to zero",
			slog.String("collection", c.Collection),
			slog.Int64("record_id", recordID),
			slog.String("field", field),
			slog.String("raw", raw))
	}
	if c.Recorder != nil {
		c.Recorder.ObserveCoercion(c.Collection, field)
	}
	return decimal.Zero
}

// Warnings returns the coercions recorded so far.
func (c *Coercer) Warnings() []FieldWarning {
	return c.warnings
}
