package handler

import (
	"net/http"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
)

// ============================================================
// Operational — GET /healthz, GET /readyz
// ============================================================

func healthzHandler() http.HandlerFunc {
	started := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status: "healthy",
			Services: []domain.ServiceHealth{
				{
					Name:        "engine",
					Status:      "healthy",
					LatencyMs:   0,
					LastChecked: started.Format(time.RFC3339),
				},
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
