package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sandevgo/teammem/internal/core"
	"github.com/sandevgo/teammem/internal/metrics"
	"github.com/sandevgo/teammem/pkg/log"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 50
	defaultQueryLimit  = 10
	maxBodyBytes       = 1 << 20
)

type Handler struct {
	memory  core.MemoryService
	metrics *metrics.Collector
}

func NewHandler(memory core.MemoryService, m *metrics.Collector) *Handler {
	return &Handler{memory: memory, metrics: m}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type queryRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

type queryResponse struct {
	Query    string              `json:"query"`
	Memories []core.MemoryRecord `json:"memories"`
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: core.AppName,
		Version: core.AppVersion,
	})
}

func (h *Handler) createMemory(w http.ResponseWriter, r *http.Request) {
	var in core.NewMemory
	if !decodeBody(w, r, &in) {
		return
	}

	rec, err := h.memory.Save(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) getMemory(w http.ResponseWriter, r *http.Request) {
	rec, err := h.memory.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) recentMemories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultRecentLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRecentLimit {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "limit must be an integer between 1 and 50"})
			return
		}
		limit = n
	}

	var typ *core.MemoryType
	if raw := q.Get("type"); raw != "" {
		t, err := core.ParseMemoryType(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		typ = &t
	}

	records, err := h.memory.Recent(r.Context(), typ, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	limit := defaultQueryLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if strings.TrimSpace(req.Query) == "" || limit < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "query must be non-empty and limit positive"})
		return
	}

	records, err := h.memory.Search(r.Context(), req.Query, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, queryResponse{Query: req.Query, Memories: nonNil(records)})
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "query must be non-empty"})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Query:  req.Query,
		Answer: h.memory.Ask(r.Context(), req.Query),
	})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Memory not found"})
	default:
		log.FromCtx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func nonNil(records []core.MemoryRecord) []core.MemoryRecord {
	if records == nil {
		return []core.MemoryRecord{}
	}
	return records
}
