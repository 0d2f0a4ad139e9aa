package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSVBasic(t *testing.T) {
	data := []byte("Name,Brand,Category,Price\niPhone 14,Apple,Smartphone,\"₹69,999\"\n")

	res, err := Parse(data, "phones.csv")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Empty(t, res.Errors)

	c := res.Candidates[0]
	assert.Equal(t, "iPhone 14", c.Name)
	assert.Equal(t, "Apple", c.Brand)
	assert.Equal(t, "Smartphone", c.Category)
	require.NotNil(t, c.Price)
	assert.Equal(t, int64(69999), *c.Price)
	assert.True(t, c.Valid)
}

func TestParseRowOrderAndBlankLines(t *testing.T) {
	data := []byte("Name,Brand,Category,Price\n\nGalaxy S23,Samsung,Smartphone,74999\n   \nPixel 8,Google,Smartphone,59999\n")

	res, err := Parse(data, "phones.csv")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "Galaxy S23", res.Candidates[0].Name)
	assert.Equal(t, "Pixel 8", res.Candidates[1].Name)
}

func TestParseQuotedCommaInField(t *testing.T) {
	data := []byte("Name,Brand,Category,Price\n\"iPhone 14, Pro Max\",Apple,Smartphone,129999\n")

	res, err := Parse(data, "phones.csv")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "iPhone 14, Pro Max", res.Candidates[0].Name)
}

func TestHeaderInference(t *testing.T) {
	data := []byte("Item Name,Manufacturer,Device Type,Product Price (₹),Photo URL,Details\nredmi note,Xiaomi,Smartphone,12999,http://img,budget phone\n")

	res, err := Parse(data, "phones.csv")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Equal(t, "redmi note", c.Name)
	assert.Equal(t, "Xiaomi", c.Brand)
	assert.Equal(t, "Smartphone", c.Category)
	require.NotNil(t, c.Price)
	assert.Equal(t, int64(12999), *c.Price)
	assert.Equal(t, "http://img", c.ImageURL)
	assert.Equal(t, "budget phone", c.Description)
}

func TestHeaderInferenceFirstMatchWins(t *testing.T) {
	// Both columns match "name"; the first one must be used.
	data := []byte("Name,Display Name,Brand,Category,Price\nfirst,second,Apple,Phone,100\n")

	res, err := Parse(data, "x.csv")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "first", res.Candidates[0].Name)
}

func TestMissingRequiredColumns(t *testing.T) {
	data := []byte("Name,Brand\na,b\n")

	_, err := Parse(data, "x.csv")
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Category", "Price"}, missing.Columns)
	assert.Contains(t, missing.Error(), "Category")
	assert.Contains(t, missing.Error(), "Price")
}

func TestEmptyFile(t *testing.T) {
	_, err := Parse([]byte{}, "x.csv")
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Parse([]byte("\n  \n\n"), "x.csv")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Parse([]byte("Name,Brand,Category,Price\n"), "x.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUnreadableWorkbookIsUnsupported(t *testing.T) {
	// a .xls extension with non-OOXML bytes must not leak a raw decode error
	_, err := Parse([]byte("not a workbook"), "legacy.xls")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRowValidationErrors(t *testing.T) {
	data := []byte("Name,Brand,Category,Price\niPhone,,Smartphone,free\n")

	res, err := Parse(data, "x.csv")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.False(t, res.Candidates[0].Valid)
	assert.Nil(t, res.Candidates[0].Price)

	require.Len(t, res.Errors, 2)
	assert.Equal(t, FieldError{Row: 2, Field: FieldBrand, Message: "Brand is required"}, res.Errors[0])
	assert.Equal(t, FieldError{Row: 2, Field: FieldPrice, Message: "Valid price is required"}, res.Errors[1])
}

func TestSubUnitPriceIsInvalid(t *testing.T) {
	data := []byte("Name,Brand,Category,Price\niPhone,Apple,Phone,0.4\n")

	res, err := Parse(data, "x.csv")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Nil(t, c.Price)
	assert.False(t, c.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, FieldError{Row: 2, Field: FieldPrice, Message: "Valid price is required"}, res.Errors[0])
}

func TestRowErrorsMatchOriginatingRow(t *testing.T) {
	data := []byte("Name,Brand,Category,Price\nok,Apple,Phone,100\n,Apple,Phone,200\nok2,Samsung,Phone,300\n")

	res, err := Parse(data, "x.csv")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 3)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, FieldName, res.Errors[0].Field)
}

func TestInvalidEncodingRow(t *testing.T) {
	data := []byte("Name,Brand,Category,Price\n\xff\xfebad,Apple,Phone,100\nok,Apple,Phone,100\n")

	res, err := Parse(data, "x.csv")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "ok", res.Candidates[0].Name)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Row)
	assert.Equal(t, FieldRow, res.Errors[0].Field)
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want *int64
	}{
		{"₹79,999", ptr(79999)},
		{"$1,299.49", ptr(1299)},
		{"69.5", ptr(70)},
		{" 500 ", ptr(500)},
		{"0", nil},
		{"0.4", nil}, // rounds to 0, not a valid price
		{"-5", nil},
		{"free", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := parsePrice(tc.in)
		if tc.want == nil {
			assert.Nil(t, got, "input %q", tc.in)
		} else {
			require.NotNil(t, got, "input %q", tc.in)
			assert.Equal(t, *tc.want, *got, "input %q", tc.in)
		}
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	headers := []string{"Name", "Brand", "Category", "Price"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, h))
	}
	row := []any{"iPhone 14", "Apple", "Smartphone", "₹69,999"}
	for i, v := range row {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := Parse(buf.Bytes(), "phones.xlsx")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Equal(t, "iPhone 14", c.Name)
	require.NotNil(t, c.Price)
	assert.Equal(t, int64(69999), *c.Price)
	assert.True(t, c.Valid)
}

func TestParseXLSXShortRow(t *testing.T) {
	// Absent trailing cells default to empty strings.
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Brand", "Category", "Price"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"iPhone", "Apple"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := Parse(buf.Bytes(), "phones.xlsx")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.False(t, res.Candidates[0].Valid)
	require.Len(t, res.Errors, 2) // category + price
}

func ptr(v int64) *int64 { return &v }
