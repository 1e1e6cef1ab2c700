// Package catalog reads product spreadsheets exported as CSV, the way
// suppliers and the store's own catalog sheets are usually shared.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/pdv/internal/encoding"
	"github.com/MrJamesThe3rd/pdv/internal/money"
	"github.com/MrJamesThe3rd/pdv/internal/product"
)

var (
	ErrNoProfile       = errors.New("no matching catalog format found")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Parser reads `;` separated product CSV files. It auto-detects the layout
// by matching column headers against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]product.Product, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("%w: expected columns for fornecedor or planilha", ErrNoProfile)
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// index returns the position of name, or -1 when the profile does not use
// the column or the file does not have it.
func (c colIndex) index(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts products from data rows using the matched profile.
// Rows without a name or a price are skipped (blank lines, totals).
// firstRow is the 0-based index in the file of rows[0], used for error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, firstRow int) ([]product.Product, error) {
	var products []product.Product

	for i, row := range rows {
		rowNum := firstRow + i + 1 // 1-based

		name := cellValue(row, cols.index(p.NameCol))
		priceStr := cellValue(row, cols.index(p.PriceCol))

		if name == "" || priceStr == "" {
			continue
		}

		price, err := money.Parse(priceStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: price: %w", rowNum, err)
		}

		stock, err := parseQuantity(cellValue(row, cols.index(p.StockCol)))
		if err != nil {
			return nil, fmt.Errorf("row %d: stock: %w", rowNum, err)
		}

		minStock, err := parseQuantity(cellValue(row, cols.index(p.MinStockCol)))
		if err != nil {
			return nil, fmt.Errorf("row %d: minimum stock: %w", rowNum, err)
		}

		var cost money.Cents
		if s := cellValue(row, cols.index(p.CostCol)); s != "" {
			if cost, err = money.Parse(s); err != nil {
				return nil, fmt.Errorf("row %d: cost: %w", rowNum, err)
			}
		}

		products = append(products, product.Product{
			Name:        name,
			Description: cellValue(row, cols.index(p.DescCol)),
			Price:       price,
			Cost:        cost,
			Stock:       stock,
			MinStock:    minStock,
			Category:    cellValue(row, cols.index(p.CategoryCol)),
			Barcode:     cleanCode(cellValue(row, cols.index(p.BarcodeCol))),
			Brand:       cellValue(row, cols.index(p.BrandCol)),
			Model:       cellValue(row, cols.index(p.ModelCol)),
			Supplier:    cellValue(row, cols.index(p.SupplierCol)),
		})
	}

	return products, nil
}

// parseQuantity reads a whole quantity. Spreadsheets often write "12,0",
// which is accepted; "1,5" is not. An empty cell is zero.
func parseQuantity(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", "."))
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}

	return int(d.IntPart()), nil
}

// cleanCode unwraps the ="0001" form spreadsheets use to keep leading zeros.
func cleanCode(s string) string {
	s = strings.TrimPrefix(s, "=")
	return strings.Trim(s, `"`)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
