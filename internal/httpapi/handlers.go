package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/service"
)

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

type handler struct {
	svc    Service
	logger *slog.Logger
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// updateRequest is the body accepted by PUT.
type updateRequest struct {
	AssignTo string            `json:"assignTo"`
	Content  string            `json:"content"`
	Status   annotation.Status `json:"status"`
}

func (h *handler) welcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(WelcomeText))
}

func (h *handler) statusValues(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, annotation.StatusValues())
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	seek := 0
	if raw := r.URL.Query().Get("seekPosition"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "seekPosition must be a non-negative integer")
			return
		}
		seek = n
	}
	results, err := h.svc.Search(r.Context(), index, r.URL.Query().Get("q"), seek)
	if err != nil {
		h.fail(w, err)
		return
	}
	if results == nil {
		results = []annotation.Annotation{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.History(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Create(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	a, err := h.svc.Update(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "id"), annotation.Annotation{
		AssignTo: req.AssignTo,
		Content:  req.Content,
		Status:   req.Status,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", slog.Any("error", err))
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrExists):
		return http.StatusConflict
	case errors.Is(err, annotation.ErrInvalidKey), errors.Is(err, annotation.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Status: status, Error: msg})
}
