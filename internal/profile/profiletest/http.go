package profiletest

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Handler serves q over the GraphQL HTTP protocol. Requests without a
// bearer token get 401; a failing query is answered with a GraphQL error.
func Handler(q *Querier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		var data json.RawMessage
		if err := q.Execute(r.Context(), req.Query, req.Variables, &data); err != nil {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"errors": []map[string]string{{"message": err.Error()}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	})
}
