package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"jobmate/application-tracker/internal/application"
	"jobmate/application-tracker/internal/insights"
)

// UserHeader carries the authenticated user id set by the Gateway.
const UserHeader = "x-user-id"

type instrumenter interface {
	Instrument(route string, next http.Handler) http.Handler
}

// Handler exposes Service over HTTP.
//
// All /applications routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	GET    /applications                          → list (search, status, type query)
//	POST   /applications                          → create
//	GET    /applications/{id}                     → get
//	PUT    /applications/{id}                     → replace
//	DELETE /applications/{id}                     → delete
//	GET    /applications/stats                    → dashboard statistics
//	GET    /applications/reminders                → follow-up reminders
//	POST   /applications/reminders/{id}/dismiss   → hide a reminder
//	GET    /applications/timeline                 → applications grouped by date
//	GET    /applications/export                   → CSV download
type Handler struct {
	svc     *Service
	metrics instrumenter
}

// NewHandler returns a configured Handler. metrics may be nil.
func NewHandler(svc *Service, metrics instrumenter) *Handler {
	return &Handler{svc: svc, metrics: metrics}
}

// RegisterRoutes mounts all tracker routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	h.handle(mux, "GET /applications", h.listApplications)
	h.handle(mux, "POST /applications", h.createApplication)
	h.handle(mux, "GET /applications/stats", h.dashboard)
	h.handle(mux, "GET /applications/reminders", h.reminders)
	h.handle(mux, "POST /applications/reminders/{id}/dismiss", h.dismissReminder)
	h.handle(mux, "GET /applications/timeline", h.timeline)
	h.handle(mux, "GET /applications/export", h.exportCSV)
	h.handle(mux, "GET /applications/{id}", h.getApplication)
	h.handle(mux, "PUT /applications/{id}", h.updateApplication)
	h.handle(mux, "DELETE /applications/{id}", h.deleteApplication)
}

func (h *Handler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	var handler http.Handler = fn
	if h.metrics != nil {
		handler = h.metrics.Instrument(pattern, handler)
	}
	mux.Handle(pattern, handler)
}

// ─── Individual handlers ─────────────────────────────────────────────────────

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	qs := r.URL.Query()
	q, err := insights.ParseQuery(qs.Get("search"), qs.Get("status"), qs.Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}

	apps, err := h.svc.ListApplications(r.Context(), userID, q)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, apps)
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	app, err := h.svc.GetApplication(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, app)
}

func (h *Handler) createApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	app, err := h.svc.CreateApplication(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonStatus(w, http.StatusCreated, app)
}

func (h *Handler) updateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	app, err := h.svc.UpdateApplication(r.Context(), userID, id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, app)
}

func (h *Handler) deleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteApplication(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, stats)
}

func (h *Handler) reminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	reminders, err := h.svc.Reminders(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, reminders)
}

func (h *Handler) dismissReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DismissReminder(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	groups, err := h.svc.Timeline(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonOK(w, groups)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filename, body, err := h.svc.ExportCSV(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(UserHeader)
	if raw == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		jsonError(w, "invalid x-user-id header", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, "application not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func decodeInput(w http.ResponseWriter, r *http.Request) (application.Input, bool) {
	var in application.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		if application.IsValidation(err) {
			writeError(w, err)
		} else {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
		}
		return application.Input{}, false
	}
	return in, true
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var ve *application.ValidationError
	switch {
	case errors.Is(err, application.ErrNotFound):
		jsonError(w, "application not found", http.StatusNotFound)
	case errors.As(err, &ve):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": ve.Msg, "fields": ve.Fields})
	case application.IsValidation(err):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("tracker request failed", "err", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusOK, v)
}

func jsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
