package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/logging"

	"github.com/go-chi/chi/v5"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /books
// @Summary List books
// @Description Search, filter, sort and page the public catalog
// @Tags books
// @Produce json
// @Param search query string false "Title or author substring"
// @Param author query string false "Author name"
// @Param genre query string false "Fiction, Non-Fiction, Science or History"
// @Param year_from query int false "Earliest publication year"
// @Param year_to query int false "Latest publication year"
// @Param sort query string false "title, author or year" default(title)
// @Param order query string false "asc or desc" default(asc)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	books, err := h.service.List(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	q = q.normalized()
	httpx.JSONSuccess(w, r, books, map[string]any{
		"limit":  q.Limit,
		"offset": q.Offset,
		"count":  len(books),
	})
}

// ListOwned handles GET /books/by-owner
// @Summary List my books
// @Description List the books owned by the authenticated user
// @Tags books
// @Produce json
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/by-owner [get]
func (h *HTTPHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}
	books, err := h.service.ListOwned(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"count": len(books)})
}

// Get handles GET /books/id/{id}
// @Summary Get book by ID
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/id/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books
// @Summary Create a book
// @Description Add a book owned by the authenticated user
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body RawRecord true "Book"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}
	raw, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	b, err := h.service.Create(r.Context(), raw, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, b)
}

// Update handles PUT /books/{id}
// @Summary Replace a book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Param request body RawRecord true "Book"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	raw, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	b, err := h.service.Update(r.Context(), id, raw, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Delete handles DELETE /books/{id}
// @Summary Delete a book
// @Tags books
// @Produce json
// @Security Bearer
// @Param id path int true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := httpx.UserIDFrom(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]bool{"ok": true}, nil)
}

// Export handles GET /books/export?format=json|csv
// @Summary Export books
// @Description Download books as a JSON array or a CSV file
// @Tags books
// @Produce json
// @Produce text/csv
// @Param format query string true "json or csv"
// @Param genre query string false "Genre filter"
// @Param limit query int false "Row limit" default(100)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/export [get]
func (h *HTTPHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid parameters",
			[]httpx.ErrorDetail{{Field: "format", Message: "must be json or csv"}})
		return
	}
	q, err := ParseExportQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	books, err := h.service.Export(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	body, contentType, err := Encode(format, books)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if format == FormatCSV {
		w.Header().Set("Content-Disposition", `attachment; filename="books.csv"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Archive handles POST /books/export/archive
// @Summary Archive an export
// @Description Store an export in object storage
// @Tags books
// @Produce json
// @Security Bearer
// @Param format query string true "json or csv"
// @Param genre query string false "Genre filter"
// @Param limit query int false "Row limit" default(100)
// @Param offset query int false "Rows to skip" default(0)
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /books/export/archive [post]
func (h *HTTPHandler) Archive(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid parameters",
			[]httpx.ErrorDetail{{Field: "format", Message: "must be json or csv"}})
		return
	}
	q, err := ParseExportQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.service.Archive(r.Context(), q, format)
	if err != nil {
		if errors.Is(err, ErrArchiveDisabled) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Export archive is not configured", nil)
			return
		}
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, r, res)
}

func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return 0, false
	}
	return id, true
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (RawRecord, bool) {
	var raw RawRecord
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", nil)
		return RawRecord{}, false
	}
	return raw, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		details := make([]httpx.ErrorDetail, len(verrs))
		for i, e := range verrs {
			details[i] = httpx.ErrorDetail{Field: e.Field, Message: e.Reason}
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrForbidden):
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Not allowed to modify this book", nil)
	case errors.Is(err, ErrDuplicate):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE", "Book already exists for this author and year", nil)
	default:
		logging.FromContext(r.Context()).Error("book request failed", "path", r.URL.Path, "error", err)
		httpx.InternalError(w, r)
	}
}
