package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names of the product image export
const (
	ColumnSKU         = "sku"
	ColumnTitle       = "product_title"
	ColumnImageURL    = "image_url"
	ColumnSEOFilename = "image_seo_filename"
	ColumnPosition    = "image_position"
)

var requiredColumns = []string{ColumnSKU, ColumnTitle, ColumnImageURL, ColumnSEOFilename, ColumnPosition}

// LoadError is returned when the export cannot be used at all.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load input file %s: %s", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load parses the semicolon-delimited export at path. Rows are grouped by
// SKU in first-seen order and each product's images are sorted by position.
func Load(path string) ([]ProductRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	products, err := Parse(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return products, nil
}

// Parse reads export rows from r.
func Parse(r io.Reader) ([]ProductRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("file is empty, header row expected")
	} else if err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[cleanHeader(h)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var (
		order    []string
		products = make(map[string]*ProductRecord)
	)

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if blank(row) {
			continue
		}

		cell := func(col string) string {
			if i := idx[col]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		sku := cell(ColumnSKU)
		p, ok := products[sku]
		if !ok {
			p = &ProductRecord{SKU: sku, Name: cell(ColumnTitle)}
			products[sku] = p
			order = append(order, sku)
		}

		img := ImageDescriptor{
			URL:         cell(ColumnImageURL),
			SEOFilename: cell(ColumnSEOFilename),
		}
		rawPos := cell(ColumnPosition)
		if img.URL == "" && img.SEOFilename == "" && rawPos == "" {
			continue
		}
		// unparseable positions stay nil and fail validation later
		if pos, err := strconv.Atoi(rawPos); err == nil {
			img.Position = Pos(pos)
		}

		p.Images = append(p.Images, img)
	}

	result := make([]ProductRecord, 0, len(order))
	for _, sku := range order {
		p := products[sku]
		SortImages(p.Images)
		result = append(result, *p)
	}

	return result, nil
}

// cleanHeader strips a UTF-8 BOM, whitespace and stray quotes and
// lower-cases the column name.
func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.Trim(strings.TrimSpace(h), `"'`)
	return strings.ToLower(strings.TrimSpace(h))
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
