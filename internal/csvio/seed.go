package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"stockroom/internal/domain"
	"stockroom/internal/money"
)

// SeedRow is one data line of a seed file: either a parsed Product or the
// reason it could not be parsed.
type SeedRow struct {
	Line    int
	Product domain.Product
	Err     error
}

// ReadSeed parses every data row. The returned error covers only problems
// with the file as a whole (unreadable, bad header); per-row problems are
// reported on SeedRow.Err as *RowError.
func ReadSeed(r io.Reader, opts Options) ([]SeedRow, error) {
	cr := newReader(r)
	h, err := readHeader(cr, seedColumns)
	if err != nil {
		return nil, err
	}

	var rows []SeedRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				rows = append(rows, SeedRow{Line: pe.Line, Err: &RowError{Line: pe.Line, Err: pe.Err}})
				continue
			}
			return nil, fmt.Errorf("csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		p, err := parseSeedRecord(h, rec, line, opts)
		rows = append(rows, SeedRow{Line: line, Product: p, Err: err})
	}
	return rows, nil
}

func parseSeedRecord(h header, rec []string, line int, opts Options) (domain.Product, error) {
	name, err := h.field(rec, line, ColName)
	if err != nil {
		return domain.Product{}, err
	}
	if name == "" {
		return domain.Product{}, &RowError{Line: line, Column: ColName, Err: errors.New("empty name")}
	}

	rawPrice, err := h.field(rec, line, ColPrice)
	if err != nil {
		return domain.Product{}, err
	}
	price, err := money.ParseMinor(rawPrice, opts.CurrencySymbol)
	if err != nil {
		return domain.Product{}, &RowError{Line: line, Column: ColPrice, Err: err}
	}

	rawQty, err := h.field(rec, line, ColQuantity)
	if err != nil {
		return domain.Product{}, err
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil {
		return domain.Product{}, &RowError{Line: line, Column: ColQuantity, Err: err}
	}
	if qty < 0 {
		return domain.Product{}, &RowError{Line: line, Column: ColQuantity, Err: fmt.Errorf("negative quantity %d", qty)}
	}

	rawDate, err := h.field(rec, line, ColDate)
	if err != nil {
		return domain.Product{}, err
	}
	ts, err := opts.parseDate(rawDate)
	if err != nil {
		return domain.Product{}, &RowError{Line: line, Column: ColDate, Err: err}
	}

	return domain.Product{Name: name, Quantity: qty, Price: price, UpdatedAt: ts}, nil
}
