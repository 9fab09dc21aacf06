package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ersonp/betnorm/internal/application/handlers"
	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/services"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// entityRef names one reference entity in disable/enable requests.
type entityRef struct {
	Canonical string `json:"canonical"`
	Sport     string `json:"sport"`
}

// ignoreRequest is the body of the ignore action.
type ignoreRequest struct {
	GroupKey string `json:"group_key"`
}

// HealthCheck returns the health status of the API.
func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"profile":   a.profile,
		"queued":    a.h.Queue.Count(),
	})
}

// Resolve resolves one raw value.
// Query params: raw, sport, team
func (a *API) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := a.h.Resolve.Handle(handlers.ResolveRequest{
		Kind:  chi.URLParam(r, "kind"),
		Raw:   q.Get("raw"),
		Sport: q.Get("sport"),
		Team:  q.Get("team"),
	})
	if err != nil {
		a.respondFailure(w, "failed to resolve", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// QueueGroups lists grouped queue items.
// Query params: kind, sport
func (a *API) QueueGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.h.Queue.Groups(r.URL.Query().Get("kind"), r.URL.Query().Get("sport"))
	if err != nil {
		a.respondFailure(w, "failed to list queue", err)
		return
	}
	if groups == nil {
		groups = []entities.GroupedQueueItem{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"groups": groups,
		"count":  len(groups),
	})
}

// QueueCount returns the number of raw queue items.
func (a *API) QueueCount(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"count": a.h.Queue.Count()})
}

// Enqueue adds a raw value to the queue.
func (a *API) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req handlers.EnqueueRequest
	if !a.decode(w, r, &req) {
		return
	}
	item, err := a.h.Queue.Enqueue(r.Context(), req)
	if err != nil {
		a.respondFailure(w, "failed to enqueue", err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// MapGroup maps a queue group onto an existing canonical.
func (a *API) MapGroup(w http.ResponseWriter, r *http.Request) {
	var req services.MapRequest
	if !a.decode(w, r, &req) {
		return
	}
	outcome, err := a.h.Queue.Map(r.Context(), req)
	if err != nil {
		a.respondFailure(w, "failed to map group", err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

// CreateGroup creates a canonical from a queue group.
func (a *API) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req services.CreateRequest
	if !a.decode(w, r, &req) {
		return
	}
	outcome, err := a.h.Queue.Create(r.Context(), req)
	if err != nil {
		a.respondFailure(w, "failed to create canonical", err)
		return
	}
	respondJSON(w, http.StatusCreated, outcome)
}

// IgnoreGroup drops a queue group.
func (a *API) IgnoreGroup(w http.ResponseWriter, r *http.Request) {
	var req ignoreRequest
	if !a.decode(w, r, &req) {
		return
	}
	outcome, err := a.h.Queue.Ignore(r.Context(), req.GroupKey)
	if err != nil {
		a.respondFailure(w, "failed to ignore group", err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

// ListRefData lists reference entities of a kind.
// Query params: sport
func (a *API) ListRefData(w http.ResponseWriter, r *http.Request) {
	list, err := a.h.RefData.List(chi.URLParam(r, "kind"), r.URL.Query().Get("sport"))
	if err != nil {
		a.respondFailure(w, "failed to list reference data", err)
		return
	}
	if list == nil {
		list = []entities.CanonicalEntity{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"entities": list,
		"count":    len(list),
	})
}

// AddRefData registers a reference entity.
func (a *API) AddRefData(w http.ResponseWriter, r *http.Request) {
	var entity entities.CanonicalEntity
	if !a.decode(w, r, &entity) {
		return
	}
	added, err := a.h.RefData.Add(r.Context(), chi.URLParam(r, "kind"), entity)
	if err != nil {
		a.respondFailure(w, "failed to add entity", err)
		return
	}
	respondJSON(w, http.StatusCreated, added)
}

// DisableRefData disables a reference entity.
func (a *API) DisableRefData(w http.ResponseWriter, r *http.Request) {
	var ref entityRef
	if !a.decode(w, r, &ref) {
		return
	}
	if err := a.h.RefData.Disable(r.Context(), chi.URLParam(r, "kind"), ref.Canonical, ref.Sport); err != nil {
		a.respondFailure(w, "failed to disable entity", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"canonical": ref.Canonical, "disabled": true})
}

// EnableRefData re-enables a reference entity.
func (a *API) EnableRefData(w http.ResponseWriter, r *http.Request) {
	var ref entityRef
	if !a.decode(w, r, &ref) {
		return
	}
	if err := a.h.RefData.Enable(r.Context(), chi.URLParam(r, "kind"), ref.Canonical, ref.Sport); err != nil {
		a.respondFailure(w, "failed to enable entity", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"canonical": ref.Canonical, "disabled": false})
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		a.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

// respondFailure maps domain errors to HTTP status codes.
func (a *API) respondFailure(w http.ResponseWriter, message string, err error) {
	a.respondError(w, statusFor(err), message+": "+err.Error(), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, handlers.ErrInvalidRequest), errors.Is(err, services.ErrInvalidEntity):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrEntityNotFound), errors.Is(err, services.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateEntity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (a *API) respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil && status >= http.StatusInternalServerError {
		a.logger.Error(message, "error", err)
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
