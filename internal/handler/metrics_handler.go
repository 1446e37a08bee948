package handler

import (
	"net/http"

	"github.com/masareefy/masareefy-engine-go/internal/infra/observability"

	"go.uber.org/zap"
)

// ============================================================
// Engine metrics — GET /v1/metrics/engine
// ============================================================

func engineMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/metrics/engine")
		defer span.End()

		snapshot := metrics.GetEngineSnapshot()
		logger.Debug("engine metrics snapshot",
			zap.Int64("total_requests", snapshot.TotalRequests),
		)
		writeJSON(w, http.StatusOK, snapshot)
	}
}
