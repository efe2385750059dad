package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	ID       string
	Name     string
	Slug     string
	Desc     string
	Price    string
	Quantity int
	Shipping bool
}

// Run parses CSV rows and upserts products.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var imported int
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Name == "" || row.Price == "" {
		return fmt.Errorf("invalid product row (missing required fields) for slug %q", row.Slug)
	}
	if row.ID != "" && len(row.ID) != 36 {
		return fmt.Errorf("invalid id for slug %q: %s", row.Slug, row.ID)
	}

	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return fmt.Errorf("invalid price for slug %q: %w", row.Slug, err)
	}

	slug := row.Slug
	if slug == "" {
		slug = Slugify(row.Name)
	}

	p := domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        slug,
		Description: row.Desc,
		Price:       price,
		Quantity:    row.Quantity,
		Shipping:    row.Shipping,
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", slug, err)
	}
	return nil
}

// Slugify lowercases a name and collapses non-alphanumeric runs to hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	if name == "" {
		return nil
	}

	quantity, _ := strconv.Atoi(pick(record, index, "quantity"))
	shipping, _ := strconv.ParseBool(pick(record, index, "shipping"))

	return &csvRow{
		ID:       pick(record, index, "id"),
		Name:     name,
		Slug:     pick(record, index, "slug"),
		Desc:     pick(record, index, "description"),
		Price:    pick(record, index, "price"),
		Quantity: quantity,
		Shipping: shipping,
	}
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
