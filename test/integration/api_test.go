package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/dkrasnov/envguard/internal/api"
	"github.com/dkrasnov/envguard/internal/resolver"
	"github.com/dkrasnov/envguard/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	res := resolver.New(resolver.WithSource(resolver.MapSource{}))
	handler := api.NewHandler(res, store)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	specPayload, _ := json.Marshal(map[string]any{"global": []map[string]any{
		{"name": "PORT", "type": "int", "min": 1, "max": 65535, "default": 8080},
		{"name": "MODE", "type": "enum", "allowed": []string{"Dev", "Prod"}, "required": true},
		{"name": "TOKEN", "required": true},
	}})
	rec = performRequest(t, handler, http.MethodPut, "/api/spec", specPayload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from spec update, got %d: %s", rec.Code, rec.Body.String())
	}

	resolvePayload, _ := json.Marshal(map[string]any{"values": map[string]string{
		"MODE":  "prod",
		"TOKEN": "secret",
	}})
	rec = performRequest(t, handler, http.MethodPost, "/api/resolve", resolvePayload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from resolve, got %d: %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Config map[string]any `json:"config"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Config["PORT"] != float64(8080) {
		t.Fatalf("expected defaulted PORT 8080, got %v", response.Config["PORT"])
	}
	if response.Config["MODE"] != "Prod" {
		t.Fatalf("expected canonical MODE Prod, got %v", response.Config["MODE"])
	}

	brokenPayload, _ := json.Marshal(map[string]any{"values": map[string]string{
		"MODE": "prod",
	}})
	rec = performRequest(t, handler, http.MethodPost, "/api/resolve", brokenPayload, jsonHeaders)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing required TOKEN, got %d", rec.Code)
	}

	var failure struct {
		Kind     string `json:"kind"`
		Variable string `json:"variable"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&failure); err != nil {
		t.Fatalf("decode failure: %v", err)
	}
	if failure.Kind != "missing_required" || failure.Variable != "TOKEN" {
		t.Fatalf("unexpected failure body: %+v", failure)
	}
}
