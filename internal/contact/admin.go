package contact

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/export"
	"github.com/westmarkadvisory/website/internal/httputil"
)

// AdminHandler serves the operator endpoints under /admin. The router
// mounts it behind the API-key middleware.
type AdminHandler struct {
	svc    *Service
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler over the given service.
func NewAdminHandler(svc *Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

// listResponse is the JSON envelope for GET /admin/contacts.
type listResponse struct {
	Submissions []*Submission `json:"submissions"`
}

// List handles GET /admin/contacts.
// Query params: status (all/unread/read), limit (1-100, default 20), offset.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)

	subs, err := h.svc.List(r.Context(), opts)
	if err != nil {
		h.logger.Error("list submissions failed", zap.Error(err))
		httputil.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if subs == nil {
		subs = []*Submission{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Submissions: subs})
}

// Export handles GET /admin/contacts/export?format=csv|xlsx.
// It exports every submission matching the status filter (no pagination).
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		httputil.JSONError(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	opts := ListOptions{Status: r.URL.Query().Get("status"), Limit: 100}
	var all []*Submission
	for {
		page, err := h.svc.List(r.Context(), opts)
		if err != nil {
			h.logger.Error("export submissions failed", zap.Error(err))
			httputil.JSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		all = append(all, page...)
		if len(page) < opts.Limit {
			break
		}
		opts.Offset += opts.Limit
	}

	const timeLayout = "2006-01-02 15:04:05"

	if format == "xlsx" {
		wb := NewExcelExport(all, timeLayout)
		defer wb.Close()
		if err := wb.WriteHTTP(w, "contacts.xlsx"); err != nil {
			h.logger.Error("write xlsx export", zap.Error(err))
		}
		return
	}

	c := export.NewCSV().Headers("id", "email", "message", "status", "created_at", "updated_at")
	for _, sub := range all {
		c.Row(sub.ID, sub.Email, sub.Message, sub.Status,
			sub.CreatedAt.Format(timeLayout), sub.UpdatedAt.Format(timeLayout))
	}
	if err := c.WriteHTTP(w, "contacts.csv"); err != nil {
		h.logger.Error("write csv export", zap.Error(err))
	}
}

// NewExcelExport builds an xlsx workbook holding the given submissions.
func NewExcelExport(subs []*Submission, timeLayout string) *export.Excel {
	wb := export.NewExcel("Contacts").
		Headers("id", "email", "message", "status", "created_at", "updated_at")
	for _, sub := range subs {
		wb.Row(sub.ID, sub.Email, sub.Message, sub.Status,
			sub.CreatedAt.Format(timeLayout), sub.UpdatedAt.Format(timeLayout))
	}
	return wb
}

// MarkRead handles POST /admin/contacts/{id}/read.
func (h *AdminHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.JSONError(w, http.StatusBadRequest, "missing submission id")
		return
	}

	err := h.svc.MarkRead(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.JSONError(w, http.StatusNotFound, "submission not found")
	case err != nil:
		h.logger.Error("mark read failed", zap.String("id", id), zap.Error(err))
		httputil.JSONError(w, http.StatusInternalServerError, "Internal server error")
	default:
		httputil.JSONSuccess(w, "marked read")
	}
}

func listOptionsFromQuery(r *http.Request) ListOptions {
	opts := ListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  20,
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}
	return opts
}
