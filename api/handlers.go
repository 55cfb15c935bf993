/*
handlers.go - HTTP API handlers for the MonkMode sync backend

PURPOSE:
  Exposes the singleton document over HTTP. Handles request decoding and
  response encoding, and delegates persistence to a habit.DocumentStore.

ENDPOINTS:
  GET  /           Liveness text
  GET  /data       Full document
  POST /save       Replace currentDate, today and history (upsert)
  POST /save-log   Set one date's journal entry
  POST /add-rule   Append a rule

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Document persistence (memory, SQLite or MongoDB)
  - Now: Clock for rule timestamps
  - Logger: Structured logger for failures

ERROR HANDLING:
  - 400: {"error":"Invalid input"} for malformed bodies
  - 404: {"error":"Not found"} when the document was never saved
  - 500: Plain status text; the cause is logged, never sent

SECURITY NOTE:
  No authentication. The service is meant for a single user.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/monkmode/monkmode/habit"
)

const (
	msgInvalidInput = "Invalid input"
	msgNotFound     = "Not found"
	maxBodyBytes    = 1 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  habit.DocumentStore
	Now    func() time.Time
	Logger *log.Logger
}

// NewHandler creates a new handler with the given store.
func NewHandler(store habit.DocumentStore, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		Store:  store,
		Now:    time.Now,
		Logger: logger,
	}
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Health handles GET /.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("MonkMode backend running 🚀"))
}

// GetData handles GET /data.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Store.Load(r.Context())
	if err != nil {
		h.fail(w, "load document", err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentDTO(doc))
}

// Save handles POST /save.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}

	doc, err := h.Store.SaveSnapshot(r.Context(), habit.Snapshot{
		CurrentDate: req.CurrentDate,
		Today:       req.Today,
		History:     req.History,
	})
	if err != nil {
		h.fail(w, "save snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentDTO(doc))
}

// SaveLog handles POST /save-log.
func (h *Handler) SaveLog(w http.ResponseWriter, r *http.Request) {
	var req SaveLogRequest
	if err := decodeBody(w, r, &req); err != nil || req.Date == "" {
		writeError(w, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}
	text, present, err := decodeText(req.Text)
	if err != nil || !present {
		writeError(w, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}
	if strings.TrimSpace(text) == "" {
		writeJSON(w, http.StatusOK, SkippedResponse{Success: true, Skipped: true})
		return
	}

	doc, err := h.Store.SetLog(r.Context(), habit.Date(req.Date), text)
	if err != nil {
		h.fail(w, "save log", err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentDTO(doc))
}

// AddRule handles POST /add-rule.
func (h *Handler) AddRule(w http.ResponseWriter, r *http.Request) {
	var req AddRuleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}
	text, _, err := decodeText(req.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidInput, nil)
		return
	}
	if strings.TrimSpace(text) == "" {
		writeJSON(w, http.StatusOK, SkippedResponse{Success: true, Skipped: true})
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		h.fail(w, "generate rule id", err)
		return
	}
	rules, err := h.Store.AppendRule(r.Context(), habit.Rule{
		ID:        id.String(),
		Text:      text,
		CreatedAt: h.Now().UTC(),
	})
	if err != nil {
		h.fail(w, "append rule", err)
		return
	}
	writeJSON(w, http.StatusOK, AddRuleResponse{Success: true, Rules: toRuleDTOs(rules)})
}

// =============================================================================
// HELPERS
// =============================================================================

// fail maps a store error to a response. Causes of 500s are logged only.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case habit.IsNotFound(err):
		writeError(w, http.StatusNotFound, msgNotFound, nil)
	case errors.Is(err, habit.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgInvalidInput, nil)
	default:
		h.Logger.Error("request failed", "op", op, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", habit.ErrInvalidInput, err)
	}
	return nil
}

// decodeText reads an optional JSON string. Missing and null are "not present";
// any other non-string value is invalid.
func decodeText(raw json.RawMessage) (text string, present bool, err error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false, nil
	}
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false, fmt.Errorf("%w: text must be a string", habit.ErrInvalidInput)
	}
	return text, true, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
