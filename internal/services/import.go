package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rms/internal/domain"
	"rms/internal/repos"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var importColumns = []string{"sku", "name", "unit_price_cents", "quantity_available", "reorder_level"}

type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// decoderFor wraps r so the CSV reader always sees UTF-8.
func decoderFor(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1251", "cp1251":
		return transform.NewReader(r, charmap.Windows1251.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "iso-8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, invalid("charset", "unsupported charset "+charset)
	}
}

// ImportProducts upserts products by SKU from CSV rows
// (sku,name,unit_price_cents,quantity_available[,reorder_level]). A header
// row is optional. The whole file is one transaction: any bad row aborts it.
func (s *CatalogService) ImportProducts(ctx context.Context, r io.Reader, charset string) (ImportResult, error) {
	dec, err := decoderFor(r, charset)
	if err != nil {
		return ImportResult{}, err
	}
	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return ImportResult{}, invalid("csv", err.Error())
	}
	if len(rows) == 0 {
		return ImportResult{}, invalid("csv", "csv data is empty")
	}

	colIdx := map[string]int{}
	first := 0
	if strings.EqualFold(header(rows[0][0]), "sku") {
		for i, name := range rows[0] {
			colIdx[strings.ToLower(header(name))] = i
		}
		first = 1
	} else {
		for i, name := range importColumns {
			colIdx[name] = i
		}
	}
	for _, required := range importColumns[:4] {
		if _, ok := colIdx[required]; !ok {
			return ImportResult{}, invalid("csv", "missing column "+required)
		}
	}

	var res ImportResult
	err = repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		prods := repos.NewProductRepo(tx)
		sups := repos.NewSupplierRepo(tx)
		for n, row := range rows[first:] {
			line := first + n + 1
			p, err := productFromRow(row, colIdx, line)
			if err != nil {
				return err
			}

			existing, err := prods.BySKU(ctx, strings.TrimSpace(p.SKU))
			switch {
			case err == nil:
				existing.Name = p.Name
				existing.UnitPriceCents = p.UnitPriceCents
				existing.QuantityAvailable = p.QuantityAvailable
				if _, ok := colIdx["reorder_level"]; ok && cell(row, colIdx, "reorder_level") != "" {
					existing.ReorderLevel = p.ReorderLevel
				}
				if err := s.checkProduct(ctx, prods, sups, &existing); err != nil {
					return lineErr(line, err)
				}
				if err := prods.Update(ctx, &existing); err != nil {
					return storeErr("import product", "product", existing.ID, err)
				}
				res.Updated++
			case errors.Is(err, sql.ErrNoRows):
				if err := s.checkProduct(ctx, prods, sups, &p); err != nil {
					return lineErr(line, err)
				}
				if err := prods.Create(ctx, &p); err != nil {
					return storeErr("import product", "product", 0, err)
				}
				res.Created++
			default:
				return storeErr("import product", "product", 0, err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

// header strips whitespace and a UTF-8 byte order mark.
func header(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\uFEFF"))
}

func cell(row []string, colIdx map[string]int, name string) string {
	i, ok := colIdx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func productFromRow(row []string, colIdx map[string]int, line int) (domain.Product, error) {
	p := domain.Product{
		SKU:          cell(row, colIdx, "sku"),
		Name:         cell(row, colIdx, "name"),
		ReorderLevel: defaultReorderLevel,
	}
	num := func(col string) (int64, error) {
		v, err := strconv.ParseInt(cell(row, colIdx, col), 10, 64)
		if err != nil {
			return 0, invalid(fmt.Sprintf("line %d", line), col+" must be an integer")
		}
		return v, nil
	}

	price, err := num("unit_price_cents")
	if err != nil {
		return p, err
	}
	qty, err := num("quantity_available")
	if err != nil {
		return p, err
	}
	p.UnitPriceCents, p.QuantityAvailable = price, int(qty)

	if cell(row, colIdx, "reorder_level") != "" {
		lvl, err := num("reorder_level")
		if err != nil {
			return p, err
		}
		p.ReorderLevel = int(lvl)
	}
	return p, nil
}

func lineErr(line int, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return invalid(fmt.Sprintf("line %d", line), ve.Error())
	}
	return fmt.Errorf("line %d: %w", line, err)
}
