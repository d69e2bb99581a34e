// Package binding resolves hash IDs in gorilla/mux path variables to
// model keys before the handler runs.
package binding

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nhAnik/modelhashid/hashid"
)

type contextKey struct {
	model string
}

// Bind returns a middleware that decodes the path variable varName with t.
// Requests whose variable is not a hash ID of t get a 404 JSON response.
func Bind[K hashid.Key](t *hashid.Type[K], varName string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := mux.Vars(r)[varName]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			key, ok := t.KeyFromHashID(raw)
			if !ok {
				slog.Debug("unresolved hash id", slog.String("model", t.Name()), slog.String("path", r.URL.Path))
				sendErrorMsg(w, http.StatusNotFound, t.Name()+" not found")
				return
			}
			ctx := context.WithValue(r.Context(), contextKey{model: t.Name()}, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BindFunc is Bind for a single handler function.
func BindFunc[K hashid.Key](t *hashid.Type[K], varName string, next http.HandlerFunc) http.HandlerFunc {
	return Bind(t, varName)(next).ServeHTTP
}

// KeyFrom returns the key Bind stored for t.
func KeyFrom[K hashid.Key](ctx context.Context, t *hashid.Type[K]) (K, bool) {
	key, ok := ctx.Value(contextKey{model: t.Name()}).(K)
	return key, ok
}

func sendErrorMsg(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
