package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/moldcart/catalog-api/internal/model"
	"github.com/moldcart/catalog-api/internal/repository"
)

var (
	ErrImportFailed = errors.New("import failed")
	ErrEmptySheet   = errors.New("spreadsheet has no data rows")
)

// ImporterService turns an uploaded spreadsheet into catalog entries. Rows
// are never rejected: missing cells fall back to the catalog defaults. The
// insert runs in a single transaction, so a failing row rolls back the whole
// import.
type ImporterService struct {
	productRepo repository.ProductRepository
}

func NewImporterService(productRepo repository.ProductRepository) *ImporterService {
	return &ImporterService{productRepo: productRepo}
}

func (s *ImporterService) Import(ctx context.Context, r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: open spreadsheet: %v", ErrImportFailed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("%w: read sheet: %v", ErrImportFailed, err)
	}
	if len(rows) < 2 {
		return 0, ErrEmptySheet
	}

	cols := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		cols[header] = i
	}

	products := make([]model.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		product := model.Product{
			Name:          cell("Name"),
			Description:   cell("Description"),
			Price:         parseDecimal(cell("Price")),
			Currency:      cell("Currency"),
			ImageURL:      splitImages(cell("Images")),
			Stock:         parseInt(cell("Stock")),
			CategoryID:    int64(parseInt(cell("CategoryId"))),
			SubCategoryID: parseOptionalID(cell("Subcategory")),
			Discount:      parseFloat(cell("Discount")),
			NameRo:        optionalString(cell("NameRO")),
			DescriptionRo: optionalString(cell("DescriptionRO")),
		}
		applyProductDefaults(&product)
		products = append(products, product)
	}

	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}
	return len(products), nil
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseOptionalID(s string) *int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func splitImages(s string) []string {
	if s == "" {
		return nil
	}
	var images []string
	for _, img := range strings.Split(s, ",") {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	return images
}
