package httpx

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportRejectsUnsupportedFormat(t *testing.T) {
	h := &AdminHandler{}
	rec := httptest.NewRecorder()
	h.importProducts(rec, importRequest(t, "phones.txt", []byte("Name,Brand,Category,Price\n")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNSUPPORTED_FORMAT")
}

func TestImportRejectsEmptyFile(t *testing.T) {
	h := &AdminHandler{}
	rec := httptest.NewRecorder()
	h.importProducts(rec, importRequest(t, "phones.csv", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_FILE")
}

func TestImportRejectsMissingColumns(t *testing.T) {
	h := &AdminHandler{}
	rec := httptest.NewRecorder()
	h.importProducts(rec, importRequest(t, "phones.csv", []byte("Name,Brand\na,b\n")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_COLUMNS")
	assert.Contains(t, rec.Body.String(), "Category")
}

func TestImportRequiresFileField(t *testing.T) {
	h := &AdminHandler{}
	req := httptest.NewRequest(http.MethodPost, "/admin/products/import", nil)
	rec := httptest.NewRecorder()
	h.importProducts(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE_REQUIRED")
}

func TestImportAllRowsInvalidSkipsBackend(t *testing.T) {
	// Catalog is nil: the handler must not reach the repo when no row is valid.
	h := &AdminHandler{}
	rec := httptest.NewRecorder()
	h.importProducts(rec, importRequest(t, "phones.csv", []byte("Name,Brand,Category,Price\n,,Phone,free\n")))

	require.Equal(t, http.StatusOK, rec.Code)

	var res ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.TotalRows)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.NotEmpty(t, res.Errors)
}
