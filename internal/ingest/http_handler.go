package ingest

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/logging"
)

// FormField is the multipart field carrying the uploaded document.
const FormField = "file"

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Import handles POST /books/import
// @Summary Import books
// @Description Bulk import a JSON or CSV document; each row succeeds or fails on its own
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "JSON or CSV document"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 413 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/import [post]
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	file, header, err := r.FormFile(FormField)
	if err != nil {
		if httpx.IsBodyTooLarge(err) {
			httpx.PayloadTooLarge(w, r)
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "multipart field \"file\" is required", nil)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "cannot read uploaded file", nil)
		return
	}

	report, err := h.svc.Import(r.Context(), payload, header.Filename, header.Header.Get("Content-Type"), userID)
	switch {
	case err == nil:
		httpx.JSONSuccess(w, r, report, nil)
	case errors.Is(err, ErrUnsupportedFormat):
		httpx.JSONError(w, r, http.StatusBadRequest, "UNSUPPORTED_FORMAT", err.Error(), nil)
	case errors.Is(err, ErrMalformedPayload):
		httpx.JSONError(w, r, http.StatusBadRequest, "MALFORMED_PAYLOAD", err.Error(), nil)
	default:
		// The client went away mid-import; committed rows stay.
		logging.FromContext(r.Context()).Warn("import interrupted",
			"created", report.Created, "skipped", report.Skipped, "error", err)
		httpx.InternalError(w, r)
	}
}

// Runs handles GET /books/import/runs
// @Summary List import runs
// @Description Most recent imports of the authenticated user, newest first
// @Tags import
// @Produce json
// @Security Bearer
// @Param limit query int false "Maximum runs" default(20)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/import/runs [get]
func (h *HTTPHandler) Runs(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.svc.Runs(r.Context(), userID, limit)
	if err != nil {
		logging.FromContext(r.Context()).Error("list import runs failed", "error", err)
		httpx.InternalError(w, r)
		return
	}
	httpx.JSONSuccess(w, r, runs, map[string]any{"count": len(runs)})
}
