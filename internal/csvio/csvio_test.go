package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/domain"
)

var opts = Options{DateLayout: "01/02/2006", CurrencySymbol: "$"}

func TestReadSeed_Widget(t *testing.T) {
	in := "product_name,product_price,product_quantity,date_updated\n" +
		"Widget,$12.50,5,01/02/2020\n"

	rows, err := ReadSeed(strings.NewReader(in), opts)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, rows[0].Err)

	p := rows[0].Product
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, int64(1250), p.Price)
	assert.Equal(t, 5, p.Quantity)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), p.UpdatedAt)
	assert.Equal(t, 2, rows[0].Line)
}

func TestReadSeed_HeaderOrderAndQuotes(t *testing.T) {
	in := "\ufeffdate_updated, Product_Quantity ,product_price,product_name,notes\n" +
		`11/30/2018,0,"$1,000.00","Bolts, M4",x` + "\n"

	rows, err := ReadSeed(strings.NewReader(in), opts)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// thousands separators are not part of the format
	var re *RowError
	require.ErrorAs(t, rows[0].Err, &re)
	assert.Equal(t, ColPrice, re.Column)

	in = "\ufeffdate_updated, Product_Quantity ,product_price,product_name\n" +
		`11/30/2018,0,$1000.00,"Bolts, M4"` + "\n"
	rows, err = ReadSeed(strings.NewReader(in), opts)
	require.NoError(t, err)
	require.NoError(t, rows[0].Err)
	assert.Equal(t, "Bolts, M4", rows[0].Product.Name)
	assert.Equal(t, int64(100000), rows[0].Product.Price)
}

func TestReadSeed_BadRows(t *testing.T) {
	in := "product_name,product_price,product_quantity,date_updated\n" +
		"Good,$1.00,1,01/01/2020\n" +
		"BadQty,$1.00,many,01/01/2020\n" +
		"BadDate,$1.00,1,2020-01-01\n" +
		"Short,$1.00\n" +
		"NegQty,$1.00,-2,01/01/2020\n"

	rows, err := ReadSeed(strings.NewReader(in), opts)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.NoError(t, rows[0].Err)
	wantCols := []string{ColQuantity, ColDate, ColQuantity, ColQuantity}
	for i, col := range wantCols {
		var re *RowError
		require.ErrorAs(t, rows[i+1].Err, &re, "row %d", i+1)
		assert.Equal(t, col, re.Column)
		assert.Equal(t, i+3, re.Line)
	}
}

func TestReadSeed_MissingHeaderColumn(t *testing.T) {
	_, err := ReadSeed(strings.NewReader("product_name,product_price\nA,$1\n"), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product_quantity")

	_, err = ReadSeed(strings.NewReader(""), opts)
	assert.Error(t, err)
}

func scanOf(ps []domain.Product) ScanFunc {
	return func(fn func(domain.Product) error) error {
		for _, p := range ps {
			if err := fn(p); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestWriteBackup_Format(t *testing.T) {
	ps := []domain.Product{
		{ID: 1, Name: "Widget", Quantity: 5, Price: 1250, UpdatedAt: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Bolts, M4", Quantity: 0, Price: 7, UpdatedAt: time.Date(2021, 12, 31, 23, 59, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	n, err := WriteBackup(&buf, opts, scanOf(ps))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := "product_id,product_name,product_quantity,product_price,date_updated\n" +
		"1,Widget,5,1250,01/02/2020\n" +
		"2,\"Bolts, M4\",0,7,12/31/2021\n"
	assert.Equal(t, want, buf.String())
}

func TestBackupRoundTrip(t *testing.T) {
	ps := []domain.Product{
		{ID: 3, Name: "Widget", Quantity: 5, Price: 1250, UpdatedAt: time.Date(2020, 1, 2, 15, 4, 5, 0, time.UTC)},
		{ID: 9, Name: "Gadget \"XL\"", Quantity: 12, Price: 900, UpdatedAt: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)},
	}
	var buf bytes.Buffer
	_, err := WriteBackup(&buf, opts, scanOf(ps))
	require.NoError(t, err)

	back, err := ReadBackup(&buf, opts)
	require.NoError(t, err)
	require.Len(t, back, len(ps))
	for i := range ps {
		assert.Equal(t, ps[i].ID, back[i].ID)
		assert.Equal(t, ps[i].Name, back[i].Name)
		assert.Equal(t, ps[i].Quantity, back[i].Quantity)
		assert.Equal(t, ps[i].Price, back[i].Price)
		y, m, d := ps[i].UpdatedAt.Date()
		by, bm, bd := back[i].UpdatedAt.Date()
		assert.Equal(t, []int{y, int(m), d}, []int{by, int(bm), bd})
	}
}

func TestReadBackup_Malformed(t *testing.T) {
	in := "product_id,product_name,product_quantity,product_price,date_updated\n" +
		"x,Widget,5,1250,01/02/2020\n"
	_, err := ReadBackup(strings.NewReader(in), opts)
	var re *RowError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ColID, re.Column)
	assert.Equal(t, 2, re.Line)
}

func TestReadSeed_UnpaddedDate(t *testing.T) {
	in := "product_name,product_price,product_quantity,date_updated\n" +
		"Bread,$6.21,8,11/1/2018\n" +
		"Milk,$2.00,3,4/09/2019\n"

	rows, err := ReadSeed(strings.NewReader(in), opts)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NoError(t, rows[0].Err)
	require.NoError(t, rows[1].Err)
	assert.Equal(t, time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC), rows[0].Product.UpdatedAt)
	assert.Equal(t, time.Date(2019, 4, 9, 0, 0, 0, 0, time.UTC), rows[1].Product.UpdatedAt)

	// rendering keeps the padded layout
	var buf bytes.Buffer
	_, err = WriteBackup(&buf, opts, scanOf([]domain.Product{rows[0].Product}))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), ",11/01/2018\n")
}

func TestReadBackup_UnpaddedDate(t *testing.T) {
	in := "product_id,product_name,product_quantity,product_price,date_updated\n" +
		"1,Widget,5,1250,1/2/2020\n"
	back, err := ReadBackup(strings.NewReader(in), opts)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), back[0].UpdatedAt)
}
