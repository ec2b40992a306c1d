package health

import (
	"encoding/json"
	"net/http"
)

// Handler returns the health endpoint used by external probes. It
// answers 200 whenever the process is listening; component failures
// show up as "degraded" in the body but do not change the status code,
// because a degraded server is still serving.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := c.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if r.Method != http.MethodHead {
			_ = json.NewEncoder(w).Encode(status)
		}
	}
}
