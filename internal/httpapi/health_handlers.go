package httpapi

import (
	"net/http"
	"time"
)

var startedAt = time.Now()

type HealthHandler struct{}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"ok":             true,
		"uptime_seconds": int(time.Since(startedAt).Seconds()),
	})
}
