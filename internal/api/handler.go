package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dkrasnov/envguard/internal/resolver"
	"github.com/dkrasnov/envguard/internal/schema"
	"github.com/dkrasnov/envguard/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the resolver core and spec storage into HTTP handlers.
type Handler struct {
	resolver *resolver.Resolver
	storage  storage.Storage

	clock func() time.Time

	mu            sync.RWMutex
	specUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies. The
// resolver is used for environment-backed resolution; requests carrying an
// explicit value snapshot get their own resolver over that snapshot.
func NewHandler(res *resolver.Resolver, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		resolver: res,
		storage:  store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.specUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSpec(w http.ResponseWriter, r *http.Request) {
	_ = r
	spec, err := h.storage.GetSpec()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := specResponse{
		Spec:      spec,
		UpdatedAt: h.currentSpecUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutSpec(w http.ResponseWriter, r *http.Request) {
	var spec schema.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if err := h.storage.SetSpec(&spec); err != nil {
		if errors.Is(err, storage.ErrInvalidSpec) {
			writeError(w, http.StatusBadRequest, "Invalid spec", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markSpecUpdated()

	stored, err := h.storage.GetSpec()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := specResponse{
		Spec:      stored,
		UpdatedAt: h.currentSpecUpdatedAt(),
		Message:   "Spec updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	spec, err := h.storage.GetSpec()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	// An explicit snapshot resolves against its own source; otherwise the
	// service's environment-backed resolver is used.
	res := h.resolver
	if req.Values != nil {
		res = resolver.New(resolver.WithSource(resolver.MapSource(req.Values)))
	}

	start := time.Now()
	resolved, resErr := res.Load(spec)
	elapsed := time.Since(start)

	if resErr != nil {
		writeResolverError(w, resErr)
		return
	}

	resp := resolveResponse{
		Config:           resolved,
		Entries:          len(resolved),
		ResolutionTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeResolverError(w http.ResponseWriter, err error) {
	var resErr *resolver.Error
	if !errors.As(err, &resErr) {
		writeInternalError(w, err)
		return
	}

	resp := errorResponse{
		Error:    "Validation failed",
		Details:  resErr.Error(),
		Kind:     string(resErr.Kind),
		Variable: resErr.Name,
	}

	status := http.StatusUnprocessableEntity
	switch resErr.Kind {
	case resolver.KindInvalidSpec:
		status = http.StatusBadRequest
		resp.Error = "Invalid spec"
	case resolver.KindMissingRequired:
		resp.Suggestion = fmt.Sprintf("Set %s or declare a default for it", resErr.Name)
	case resolver.KindEnumMismatch:
		resp.Suggestion = fmt.Sprintf("Use one of: %s", strings.Join(resErr.Allowed, ", "))
	}

	writeJSON(w, status, resp)
}

func (h *Handler) currentSpecUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.specUpdatedAt
}

func (h *Handler) markSpecUpdated() {
	h.mu.Lock()
	h.specUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type resolveRequest struct {
	Values map[string]string `json:"values"`
}

type resolveResponse struct {
	Config           resolver.Resolved `json:"config"`
	Entries          int               `json:"entries"`
	ResolutionTimeMs int64             `json:"resolutionTimeMs"`
}

type specResponse struct {
	Spec      *schema.Spec `json:"spec"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Message   string       `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Variable   string `json:"variable,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
