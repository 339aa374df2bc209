package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"stockroom/internal/domain"
)

// ScanFunc feeds products to a visitor, e.g. (*repos.ProductRepo).Scan bound
// to a context.
type ScanFunc func(fn func(domain.Product) error) error

// WriteBackup writes the header and one line per product produced by scan.
// It returns the number of product lines written.
func WriteBackup(w io.Writer, opts Options, scan ScanFunc) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(backupColumns); err != nil {
		return 0, err
	}
	n := 0
	err := scan(func(p domain.Product) error {
		n++
		return cw.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			strconv.Itoa(p.Quantity),
			strconv.FormatInt(p.Price, 10),
			p.UpdatedAt.Format(opts.layout()),
		})
	})
	if err != nil {
		return n, err
	}
	cw.Flush()
	return n, cw.Error()
}

// ReadBackup parses a file produced by WriteBackup. Any malformed line fails
// the whole read with a *RowError.
func ReadBackup(r io.Reader, opts Options) ([]domain.Product, error) {
	cr := newReader(r)
	h, err := readHeader(cr, backupColumns)
	if err != nil {
		return nil, err
	}

	var out []domain.Product
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &RowError{Line: pe.Line, Err: pe.Err}
			}
			return nil, fmt.Errorf("csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		var vals [5]string
		for i, col := range backupColumns {
			if vals[i], err = h.field(rec, line, col); err != nil {
				return nil, err
			}
		}
		id, err := strconv.ParseInt(vals[0], 10, 64)
		if err != nil {
			return nil, &RowError{Line: line, Column: ColID, Err: err}
		}
		qty, err := strconv.Atoi(vals[2])
		if err != nil {
			return nil, &RowError{Line: line, Column: ColQuantity, Err: err}
		}
		price, err := strconv.ParseInt(vals[3], 10, 64)
		if err != nil {
			return nil, &RowError{Line: line, Column: ColPrice, Err: err}
		}
		ts, err := opts.parseDate(vals[4])
		if err != nil {
			return nil, &RowError{Line: line, Column: ColDate, Err: err}
		}
		out = append(out, domain.Product{ID: id, Name: vals[1], Quantity: qty, Price: price, UpdatedAt: ts})
	}
}
