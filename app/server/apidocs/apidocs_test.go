package apidocs

import (
	"context"
	"encoding/json"
	"github.com/labstack/echo/v4"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSpecIsValid(t *testing.T) {
	raw, err := Spec(context.Background())
	if err != nil {
		t.Fatalf("spec: %v", err)
	}

	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	if err = json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode spec: %v", err)
	}
	for _, p := range []string{"/users", "/session", "/records", "/records/{id}", "/records/summary"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Errorf("spec is missing %s", p)
		}
	}
}

func TestDocMiddleware(t *testing.T) {
	e := echo.New()
	e.Pre(Doc("/api", []byte(`{"openapi":"3.0.3"}`), WithAuthorizer(func(r *http.Request) bool {
		return r.Header.Get("X-Allow") == "yes"
	})))
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	serve := func(path string, allow bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if allow {
			req.Header.Set("X-Allow", "yes")
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	if rec := serve("/api/apispec.json", true); rec.Code != http.StatusOK || rec.Body.String() != `{"openapi":"3.0.3"}` {
		t.Fatalf("spec: %d %s", rec.Code, rec.Body.String())
	}
	if rec := serve("/api/apidocs", true); rec.Code != http.StatusOK {
		t.Fatalf("docs page: %d", rec.Code)
	}
	if rec := serve("/api", true); rec.Code != http.StatusFound || rec.Header().Get("Location") != "/api/apidocs" {
		t.Fatalf("redirect: %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if rec := serve("/api/apidocs", false); rec.Code != http.StatusForbidden {
		t.Fatalf("unauthorized docs: %d", rec.Code)
	}
	if rec := serve("/healthz", false); rec.Code != http.StatusOK {
		t.Fatalf("passthrough: %d", rec.Code)
	}
}
