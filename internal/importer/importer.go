package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopfront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products. A row
// with a sku starts a product; rows with only variant columns or image
// columns extend the current product.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	currency    string
}

func NewCSVImporter(r io.Reader, repo ProductWriter, currency string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		currency:    currency,
	}
}

type csvRow struct {
	SKU       string
	Slug      string
	Name      string
	Desc      string
	Cents     int64
	Stock     int
	ImageURLs []string
	Variant   *domain.ProductVariant
}

// Run parses CSV rows and upserts products grouped by sku.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *domain.Product
		imported int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		if err := i.save(ctx, current); err != nil {
			return err
		}
		imported++
		current = nil
		return nil
	}

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

		if row.SKU != "" {
			if err := flush(); err != nil {
				return imported, err
			}
			current = &domain.Product{
				SKU:         row.SKU,
				Slug:        row.Slug,
				Name:        row.Name,
				Description: row.Desc,
				PriceCents:  row.Cents,
				Currency:    i.currency,
				Stock:       row.Stock,
				Images:      row.ImageURLs,
				Active:      true,
			}
			if row.Variant != nil {
				current.Variants = append(current.Variants, *row.Variant)
			}
			continue
		}

		// Continuation rows carry variants or extra images for the
		// current product.
		if current == nil {
			continue
		}
		if row.Variant != nil {
			current.Variants = append(current.Variants, *row.Variant)
		}
		current.Images = append(current.Images, row.ImageURLs...)
	}

	if err := flush(); err != nil {
		return imported, err
	}
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, p *domain.Product) error {
	if p.SKU == "" || p.Name == "" || p.PriceCents == 0 {
		return fmt.Errorf("invalid product row (missing required fields) for sku %q", p.SKU)
	}
	if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.SKU, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	row := &csvRow{
		SKU:  pick(record, index, "sku"),
		Slug: pick(record, index, "slug"),
		Name: pick(record, index, "name"),
		Desc: pick(record, index, "description"),
	}
	if centStr := pick(record, index, "price_cents"); centStr != "" {
		row.Cents, _ = strconv.ParseInt(centStr, 10, 64)
	}
	if stockStr := pick(record, index, "stock"); stockStr != "" {
		row.Stock, _ = strconv.Atoi(stockStr)
	}
	if images := pick(record, index, "images"); images != "" {
		for _, u := range strings.Split(images, ";") {
			if u = strings.TrimSpace(u); u != "" {
				row.ImageURLs = append(row.ImageURLs, u)
			}
		}
	}

	variantSKU := pick(record, index, "variant_sku")
	if variantSKU != "" {
		v := domain.ProductVariant{
			ID:      variantSKU,
			SKU:     variantSKU,
			Options: parseOptions(pick(record, index, "variant_options")),
		}
		if centStr := pick(record, index, "variant_price_cents"); centStr != "" {
			v.PriceCents, _ = strconv.ParseInt(centStr, 10, 64)
		}
		if stockStr := pick(record, index, "variant_stock"); stockStr != "" {
			v.Stock, _ = strconv.Atoi(stockStr)
		}
		row.Variant = &v
	}

	if row.SKU == "" && row.Variant == nil && len(row.ImageURLs) == 0 {
		return nil
	}
	return row
}

// parseOptions turns "size=M;color=black" into a map.
func parseOptions(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	opts := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		opts[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
