package middleware

import (
	"net/http"

	j "github.com/goccy/go-json"

	recskema "github.com/reoring/recskema"
	g "github.com/reoring/recskema/dsl"
)

// ValidateJSON validates the request body with s, stores the instance in the
// request context on success, or writes the Report with 422 on failure.
func ValidateJSON(s *g.Schema, opt recskema.ParseOpt) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inst, err := Decode(r.Context(), s, r, opt)
			if err != nil {
				recskema.Logger(r.Context()).Debug().Err(err).Str("record", s.Name()).Msg("request rejected")
				code, rep := ErrorPayload(err)
				WriteJSON(w, code, rep)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithInstance(r.Context(), inst)))
		})
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	b, err := j.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}
