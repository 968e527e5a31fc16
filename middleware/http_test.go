package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	j "github.com/goccy/go-json"

	recskema "github.com/reoring/recskema"
	g "github.com/reoring/recskema/dsl"
	"github.com/reoring/recskema/middleware"
	"github.com/reoring/recskema/user"
)

func handler(t *testing.T) http.Handler {
	t.Helper()
	s := user.Schema("Arjan")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inst, ok := middleware.InstanceFromContext(r.Context())
		if !ok {
			t.Fatalf("instance missing from context")
		}
		out, err := inst.Dump(r.Context(), g.DumpOpt{Shape: recskema.ShapeWire})
		if err != nil {
			t.Fatalf("dump: %v", err)
		}
		middleware.WriteJSON(w, http.StatusCreated, out)
	})
	return middleware.ValidateJSON(s, middleware.DefaultParseOpt())(next)
}

func TestValidateJSON_Valid(t *testing.T) {
	body := `{"name":"Arjan","email":"example@arjancodes.com","password":"Password123","role":"Admin"}`
	rec := httptest.NewRecorder()
	handler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body.String())
	}
	var m map[string]any
	if err := j.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m["name"] != "Arjan" || m["role"] != "Admin" {
		t.Fatalf("body=%v", m)
	}
}

func TestValidateJSON_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing password": `{"name":"Arjan","email":"example@arjancodes.com"}`,
		"not an object":    `["x"]`,
		"broken json":      `{"name":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body)))
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("code=%d", rec.Code)
			}
			var rep recskema.Report
			if err := j.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if rep.Status != recskema.StatusInvalid || len(rep.Errors) == 0 {
				t.Fatalf("report=%+v", rep)
			}
		})
	}
}

func TestErrorPayload_StatusMapping(t *testing.T) {
	if code, _ := middleware.ErrorPayload(recskema.ErrNotFound); code != http.StatusNotFound {
		t.Fatalf("not found: %d", code)
	}
	if code, _ := middleware.ErrorPayload(context.Canceled); code != http.StatusBadRequest {
		t.Fatalf("other: %d", code)
	}
	if code, rep := middleware.ErrorPayload(nil); code != http.StatusOK || rep.Status != recskema.StatusOK {
		t.Fatalf("ok: %d %+v", code, rep)
	}
}
