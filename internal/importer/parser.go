package importer

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Candidate is a tentatively parsed product row, not yet committed to the catalog.
type Candidate struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Price       *int64 `json:"price"` // minor currency units
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
	Valid       bool   `json:"valid"`
}

type Field string

const (
	FieldName     Field = "name"
	FieldBrand    Field = "brand"
	FieldCategory Field = "category"
	FieldPrice    Field = "price"
	FieldRow      Field = "row"
)

// FieldError is a row-scoped validation error. Row is 1-based, the header is row 1.
type FieldError struct {
	Row     int    `json:"row"`
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	Candidates []Candidate  `json:"candidates"`
	Errors     []FieldError `json:"errors"`
}

// File-level failures. These abort the import; no partial candidate list is produced.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format: upload a .csv or .xlsx file")
	ErrEmptyFile         = errors.New("file is empty")
	ErrNoSheets          = errors.New("spreadsheet contains no sheets")
)

type MissingColumnsError struct {
	Columns []string // display names: Name, Brand, Category, Price
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// Parse extracts product candidates from a CSV or XLSX file. Row-level
// problems come back in Result.Errors; structural problems (unknown
// extension, empty file, unmappable required columns) are returned as errors.
func Parse(data []byte, filename string) (*Result, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return parseCSV(data)
	case strings.HasSuffix(name, ".xlsx"), strings.HasSuffix(name, ".xls"):
		return parseXLSX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// columnMap holds the inferred column index per semantic field, -1 when absent.
type columnMap struct {
	name, brand, category, price int
	imageURL, description        int
}

// mapColumns infers semantic fields from header text by case-insensitive
// substring match. First match wins per field; a column is claimed by at
// most one field.
func mapColumns(header []string) columnMap {
	cm := columnMap{name: -1, brand: -1, category: -1, price: -1, imageURL: -1, description: -1}
	for idx, col := range header {
		n := strings.ToLower(strings.TrimSpace(col))
		switch {
		case cm.name == -1 && (strings.Contains(n, "name") || n == "product" || strings.Contains(n, "item")):
			cm.name = idx
		case cm.brand == -1 && (strings.Contains(n, "brand") || strings.Contains(n, "make") || strings.Contains(n, "manufacturer")):
			cm.brand = idx
		case cm.category == -1 && (strings.Contains(n, "category") || strings.Contains(n, "type") || strings.Contains(n, "group")):
			cm.category = idx
		case cm.price == -1 && (strings.Contains(n, "price") || strings.Contains(n, "cost") || strings.Contains(n, "amount") || strings.Contains(n, "rate")):
			cm.price = idx
		case cm.imageURL == -1 && (strings.Contains(n, "image") || strings.Contains(n, "url") || strings.Contains(n, "photo") || strings.Contains(n, "picture")):
			cm.imageURL = idx
		case cm.description == -1 && (strings.Contains(n, "description") || strings.Contains(n, "desc") || strings.Contains(n, "details") || strings.Contains(n, "info")):
			cm.description = idx
		}
	}
	return cm
}

func (cm columnMap) missingRequired() []string {
	var missing []string
	if cm.name == -1 {
		missing = append(missing, "Name")
	}
	if cm.brand == -1 {
		missing = append(missing, "Brand")
	}
	if cm.category == -1 {
		missing = append(missing, "Category")
	}
	if cm.price == -1 {
		missing = append(missing, "Price")
	}
	return missing
}

// parseGrid runs header inference, extraction and validation over a
// row/cell grid. Shared by the CSV and XLSX modes.
func parseGrid(grid [][]string) (*Result, error) {
	if len(grid) == 0 {
		return nil, ErrEmptyFile
	}
	cm := mapColumns(grid[0])
	if missing := cm.missingRequired(); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	res := &Result{}
	for i, row := range grid[1:] {
		rowNum := i + 2 // header is row 1
		if blankRow(row) {
			continue
		}
		if !validEncoding(row) {
			res.Errors = append(res.Errors, FieldError{Row: rowNum, Field: FieldRow, Message: "Row contains invalid text encoding"})
			continue
		}
		c := extractCandidate(row, cm)
		res.Candidates = append(res.Candidates, c)
		if !c.Valid {
			validateCandidate(c, rowNum, &res.Errors)
		}
	}
	return res, nil
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func validEncoding(row []string) bool {
	for _, v := range row {
		if !utf8.ValidString(v) {
			return false
		}
	}
	return true
}

// cell returns the trimmed value at idx, or "" when the column is unmapped
// or the row is short (absent cells default to empty).
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func extractCandidate(row []string, cm columnMap) Candidate {
	c := Candidate{
		Name:        cell(row, cm.name),
		Brand:       cell(row, cm.brand),
		Category:    cell(row, cm.category),
		Price:       parsePrice(cell(row, cm.price)),
		ImageURL:    cell(row, cm.imageURL),
		Description: cell(row, cm.description),
	}
	c.Valid = c.Name != "" && c.Brand != "" && c.Category != "" && c.Price != nil
	return c
}

// parsePrice strips currency symbols, thousands separators and whitespace,
// then accepts only strictly positive amounts, rounded to the nearest
// integer minor unit. Anything else is nil.
func parsePrice(s string) *int64 {
	if s == "" {
		return nil
	}
	clean := strings.Map(func(r rune) rune {
		if r == '₹' || r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || f <= 0 {
		return nil
	}
	// sub-unit amounts round down to 0 and are not a valid price
	v := int64(math.Round(f))
	if v <= 0 {
		return nil
	}
	return &v
}

func validateCandidate(c Candidate, rowNum int, errs *[]FieldError) {
	if c.Name == "" {
		*errs = append(*errs, FieldError{Row: rowNum, Field: FieldName, Message: "Name is required"})
	}
	if c.Brand == "" {
		*errs = append(*errs, FieldError{Row: rowNum, Field: FieldBrand, Message: "Brand is required"})
	}
	if c.Category == "" {
		*errs = append(*errs, FieldError{Row: rowNum, Field: FieldCategory, Message: "Category is required"})
	}
	if c.Price == nil {
		*errs = append(*errs, FieldError{Row: rowNum, Field: FieldPrice, Message: "Valid price is required"})
	}
}
