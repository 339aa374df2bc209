// Package csvio reads seed files and writes/reads backup files.
//
// Seed header: product_name, product_price, product_quantity, date_updated
// (any order, extra columns ignored). Prices carry a currency symbol and are
// converted to minor units; dates use Options.DateLayout.
//
// Backup header: product_id, product_name, product_quantity, product_price,
// date_updated, in that order, with raw integer prices.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

const DefaultDateLayout = "01/02/2006"

const (
	ColID       = "product_id"
	ColName     = "product_name"
	ColQuantity = "product_quantity"
	ColPrice    = "product_price"
	ColDate     = "date_updated"
)

var (
	seedColumns   = []string{ColName, ColPrice, ColQuantity, ColDate}
	backupColumns = []string{ColID, ColName, ColQuantity, ColPrice, ColDate}
)

type Options struct {
	DateLayout     string
	CurrencySymbol string
}

func (o Options) layout() string {
	if o.DateLayout == "" {
		return DefaultDateLayout
	}
	return o.DateLayout
}

var unpad = strings.NewReplacer("01", "1", "02", "2")

// parseDate reads a date in the configured layout, also accepting month and
// day without a leading zero ("11/1/2018").
func (o Options) parseDate(s string) (time.Time, error) {
	layout := o.layout()
	ts, err := time.Parse(layout, s)
	if err == nil {
		return ts, nil
	}
	if loose := unpad.Replace(layout); loose != layout {
		if ts, lerr := time.Parse(loose, s); lerr == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// RowError locates a malformed value. Line is the 1-based line in the file.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// header maps lower-cased column names to their index and checks that every
// required column is present.
type header map[string]int

func readHeader(cr *csv.Reader, required []string) (header, error) {
	rec, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: empty file, missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: reading header: %w", err)
	}
	h := header{}
	for i, name := range rec {
		name = strings.TrimPrefix(name, "\ufeff")
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := h[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv: header missing %s", strings.Join(missing, ", "))
	}
	return h, nil
}

// field returns the trimmed value of col, or a RowError when the record is
// too short to hold it.
func (h header) field(rec []string, line int, col string) (string, error) {
	i := h[col]
	if i >= len(rec) {
		return "", &RowError{Line: line, Column: col, Err: fmt.Errorf("missing value")}
	}
	return strings.TrimSpace(rec[i]), nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}
