package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/karthi209/notkarthik/internal/models"
)

type LogsHandler struct {
	store LogStore
}

func NewLogsHandler(store LogStore) *LogsHandler {
	return &LogsHandler{store: store}
}

type LogRequest struct {
	Title      string        `json:"title"`
	Type       string        `json:"type"`
	Content    string        `json:"content"`
	Rating     models.Rating `json:"rating"`
	Status     string        `json:"status"`
	Completion string        `json:"completion"`
	Author     string        `json:"author"`
}

func (req LogRequest) entry() models.LogEntry {
	return models.LogEntry{
		Title:      strings.TrimSpace(req.Title),
		Type:       models.LogKind(strings.TrimSpace(req.Type)),
		Content:    req.Content,
		Rating:     req.Rating,
		Status:     req.Status,
		Completion: req.Completion,
		Author:     req.Author,
	}
}

type DeleteLogResponse struct {
	Message string           `json:"message"`
	Log     *models.LogEntry `json:"log"`
}

func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "")
}

func (h *LogsHandler) ListByKind(w http.ResponseWriter, r *http.Request) {
	kind, err := models.ParseLogKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondStoreError(w, r, err, "", "")
		return
	}
	h.list(w, r, kind)
}

func (h *LogsHandler) list(w http.ResponseWriter, r *http.Request, kind models.LogKind) {
	entries, err := h.store.ListLogs(r.Context(), kind)
	if err != nil {
		respondStoreError(w, r, err, "", "failed to load logs")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *LogsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid log ID format")
		return
	}
	entry, err := h.store.GetLog(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "Log not found", "failed to load log")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *LogsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	entry := req.entry()
	if err := entry.Validate(); err != nil {
		respondStoreError(w, r, err, "", "")
		return
	}
	created, err := h.store.CreateLog(r.Context(), entry)
	if err != nil {
		respondStoreError(w, r, err, "", "failed to create log")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *LogsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid log ID format")
		return
	}
	var req LogRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	entry := req.entry()
	if err := entry.Validate(); err != nil {
		respondStoreError(w, r, err, "", "")
		return
	}
	updated, err := h.store.UpdateLog(r.Context(), id, entry)
	if err != nil {
		respondStoreError(w, r, err, "Log not found", "failed to update log")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *LogsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid log ID format")
		return
	}
	deleted, err := h.store.DeleteLog(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "Log not found", "failed to delete log")
		return
	}
	respondJSON(w, http.StatusOK, DeleteLogResponse{Message: "Log deleted successfully", Log: deleted})
}
