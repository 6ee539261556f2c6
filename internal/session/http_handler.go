package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hrsuite/bulkupload/internal/dispatch"
	"github.com/hrsuite/bulkupload/internal/ingestion"
	"github.com/hrsuite/bulkupload/internal/listing"
	"github.com/hrsuite/bulkupload/internal/sharepoint"
)

// Handler exposes the upload session to the browser front-end.
type Handler struct {
	session *Session
	logger  *zap.Logger
	mux     *http.ServeMux
}

// NewHTTPHandler wires the session's endpoints onto a mux.
func NewHTTPHandler(session *Session, logger *zap.Logger) http.Handler {
	h := &Handler{session: session, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/files", h.handleUpload)
	mux.HandleFunc("POST /api/dispatch", h.handleDispatch)
	mux.HandleFunc("GET /api/progress", h.handleProgress)
	mux.HandleFunc("GET /api/items", h.handleItems)
	mux.HandleFunc("POST /api/items/refresh", h.handleRefresh)
	h.mux = mux
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read file: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.session.HandleFile(header.Filename, payload)
	switch {
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ingestion.ErrNotSpreadsheet):
		// Decode failure is unrecoverable for this upload; the user has to
		// pick another file.
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type dispatchRequest struct {
	Strategy string `json:"strategy"`
}

func (h *Handler) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	strategy, err := dispatch.ParseStrategy(req.Strategy)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Dispatch runs on a background context: once writes start, a dropped
	// browser connection must not cancel them mid-batch.
	ack, err := h.session.Dispatch(context.Background(), strategy)
	switch {
	case errors.Is(err, ErrDispatchInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, ErrNoBatch):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, ack)
}

func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	fraction, dispatching := h.session.Progress()
	writeJSON(w, http.StatusOK, map[string]any{
		"fraction":    fraction,
		"dispatching": dispatching,
	})
}

func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	items := h.session.Items()

	query := r.URL.Query()
	if term := query.Get("q"); term != "" {
		items = listing.Filter(items, term)
	}
	if key := query.Get("sort"); key != "" {
		items = listing.SortItems(items, key, query.Get("desc") == "1")
	}
	if items == nil {
		items = []sharepoint.Item{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// A failing read already cleared the cache; the front-end just shows an
	// empty list, so this stays a 200 either way.
	if err := h.session.Refresh(r.Context()); err != nil {
		h.logger.Warn("roster refresh failed", zap.Error(err))
	}
	h.handleItems(w, r)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
