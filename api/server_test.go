package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/multixspace/msa/api"
)

func TestHandleHealth(t *testing.T) {
	s := api.NewServer(0)
	defer s.Shutdown(nil) //nolint:errcheck

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp api.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
}

func TestHandleCompile_Success(t *testing.T) {
	s := api.NewServer(0)
	defer s.Shutdown(nil) //nolint:errcheck

	body := api.CompileRequest{Source: ": 0\nx1 1\n_\n", Hex: true, Trace: true}
	buf, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", bytes.NewReader(buf))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp api.CompileResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got errors: %+v", resp.Errors)
	}
	if resp.Bytes == 0 {
		t.Error("expected nonzero byte count")
	}
	if resp.Hex == "" {
		t.Error("expected hex dump to be populated")
	}
	if len(resp.Trace) == 0 {
		t.Error("expected trace to be populated")
	}
}

func TestHandleCompile_Error(t *testing.T) {
	s := api.NewServer(0)
	defer s.Shutdown(nil) //nolint:errcheck

	body := api.CompileRequest{Source: ": 0\nundefined_label\n_\n"}
	buf, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", bytes.NewReader(buf))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	var resp api.CompileResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Fatal("expected failure")
	}
	if len(resp.Errors) == 0 {
		t.Error("expected at least one error")
	}
}

func TestHandleCompile_MissingSource(t *testing.T) {
	s := api.NewServer(0)
	defer s.Shutdown(nil) //nolint:errcheck

	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCORSRejectsRemoteOrigin(t *testing.T) {
	s := api.NewServer(0)
	defer s.Shutdown(nil) //nolint:errcheck

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS header for a remote origin")
	}
}
