package contact

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/httputil"
	"github.com/westmarkadvisory/website/internal/metrics"
)

// successMessage is the acknowledgement text the form shows after a
// successful submission.
const successMessage = "Thank you for reaching out. We'll be in touch shortly."

// Handler serves the public contact endpoint.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a Handler over the given service.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// submitRequest is the expected JSON body for POST /api/contact.
type submitRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit handles POST /api/contact.
//
// Responses:
//
//	200 {"success": true, "message": "..."} — stored
//	400 {"error": "..."}                    — missing/malformed email or bad JSON
//	500 {"error": "Internal server error"}  — anything else
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httputil.BindJSON(r, &req); err != nil {
		metrics.SubmissionsRejected.WithLabelValues("bad_request").Inc()
		httputil.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.svc.Submit(r.Context(), req.Email, req.Message)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			httputil.JSONError(w, http.StatusBadRequest, verr.Msg)
			return
		}
		h.logger.Error("contact submission failed", zap.Error(err))
		httputil.JSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httputil.JSONSuccess(w, successMessage)
}
