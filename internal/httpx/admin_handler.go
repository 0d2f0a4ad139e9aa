package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/sistertele/phonestore/internal/admin"
	"github.com/sistertele/phonestore/internal/catalog"
	"github.com/sistertele/phonestore/internal/importer"
	"github.com/sistertele/phonestore/internal/inquiry"
	"github.com/sistertele/phonestore/internal/orders"
)

const maxImportBytes = 10 << 20

type AdminHandler struct {
	Catalog   *catalog.Repo
	Orders    *orders.Repo
	Inquiries *inquiry.Repo
	Admins    *admin.Service
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Get("/admin/me", h.me)
	r.Get("/admin/exists", h.exists)
	r.Post("/admin/claim", h.claim)

	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(h.Admins))
		r.Post("/admin/products", h.createProduct)
		r.Post("/admin/products/import", h.importProducts)
		r.Get("/admin/orders", h.listOrders)
		r.Put("/admin/orders/{id}/status", h.updateOrderStatus)
		r.Get("/admin/inquiries", h.listInquiries)
	})
}

// me reports whether the caller holds the admin role. Timeouts are reported
// distinctly so the client can retry instead of treating them as a denial.
func (h *AdminHandler) me(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if p == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing "+HeaderPrincipal+" header")
		return
	}
	ok, err := h.Admins.IsCallerAdmin(r.Context(), p)
	if err != nil {
		h.writeAdminErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_admin": ok})
}

func (h *AdminHandler) exists(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Admins.HasAnyAdmin(r.Context())
	if err != nil {
		h.writeAdminErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"has_admin": ok})
}

func (h *AdminHandler) claim(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if p == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing "+HeaderPrincipal+" header")
		return
	}
	err := h.Admins.ClaimInitialAdmin(r.Context(), p)
	if errors.Is(err, admin.ErrAlreadyClaimed) {
		writeError(w, http.StatusConflict, "ALREADY_CLAIMED", "an admin already exists")
		return
	}
	if err != nil {
		h.writeAdminErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_admin": true})
}

func (h *AdminHandler) writeAdminErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, admin.ErrCheckTimeout):
		writeError(w, http.StatusGatewayTimeout, "ADMIN_CHECK_TIMEOUT", "admin verification timed out, retry")
	case errors.Is(err, admin.ErrUnavailable):
		writeError(w, http.StatusNotImplemented, "ADMIN_CHECK_UNAVAILABLE", "admin check is not available on this backend")
	default:
		writeError(w, http.StatusInternalServerError, "ADMIN_CHECK_FAILED", err.Error())
	}
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if in.Name == "" || in.Brand == "" || in.Category == "" || in.Price <= 0 {
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", "name, brand, category and a positive price are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, err := h.Catalog.Create(ctx, in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"product_id": id})
}

// ImportResult is the import endpoint response: partial-success semantics,
// valid rows are created and invalid ones reported per row.
type ImportResult struct {
	Success    bool                  `json:"success"`
	TotalRows  int                   `json:"total_rows"`
	Created    int                   `json:"created"`
	Skipped    int                   `json:"skipped"`
	CreatedIDs []int64               `json:"created_ids"`
	Errors     []importer.FieldError `json:"errors"`
}

// importProducts accepts a multipart CSV/XLSX upload, parses it and creates
// every valid candidate in one batch. File-structural problems abort with a
// coded 400; row-level problems only skip their row.
func (h *AdminHandler) importProducts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "FILE_REQUIRED", "upload a CSV or Excel file in the 'file' field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "FILE_READ_FAILED", err.Error())
		return
	}

	res, err := importer.Parse(data, header.Filename)
	if err != nil {
		h.writeParseErr(w, err)
		return
	}

	valid := make([]importer.Candidate, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		if c.Valid {
			valid = append(valid, c)
		}
	}

	out := ImportResult{
		TotalRows:  len(res.Candidates),
		Skipped:    len(res.Candidates) - len(valid),
		CreatedIDs: []int64{},
		Errors:     res.Errors,
	}
	if out.Errors == nil {
		out.Errors = []importer.FieldError{}
	}

	if len(valid) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		ids, err := h.Catalog.BulkCreate(ctx, valid)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "BULK_CREATE_FAILED", err.Error())
			return
		}
		out.CreatedIDs = ids
		out.Created = len(ids)
	}
	out.Success = out.Created > 0 || out.TotalRows == 0

	logrus.WithFields(logrus.Fields{
		"file":    header.Filename,
		"rows":    out.TotalRows,
		"created": out.Created,
		"skipped": out.Skipped,
	}).Info("product import finished")

	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) writeParseErr(w http.ResponseWriter, err error) {
	var missing *importer.MissingColumnsError
	switch {
	case errors.Is(err, importer.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", err.Error())
	case errors.Is(err, importer.ErrEmptyFile), errors.Is(err, importer.ErrNoSheets):
		writeError(w, http.StatusBadRequest, "EMPTY_FILE", err.Error())
	case errors.As(err, &missing):
		writeError(w, http.StatusBadRequest, "MISSING_COLUMNS", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "PARSE_ERROR", err.Error())
	}
}

func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Orders.List(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

type updateStatusReq struct {
	Status orders.Status `json:"status"`
}

func (h *AdminHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Orders.UpdateStatus(ctx, orderID, req.Status)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "order not found")
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]string{"order_id": orderID, "status": string(req.Status)})
	}
}

func (h *AdminHandler) listInquiries(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Inquiries.List(ctx, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	if out == nil {
		out = []inquiry.Inquiry{}
	}
	writeJSON(w, http.StatusOK, out)
}
