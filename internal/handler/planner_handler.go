package handler

import (
	"encoding/json"
	"net/http"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Budget plans — GET /v1/users/{userId}/plans
// ============================================================

func getPlansHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/plans")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}
		span.SetAttributes(attribute.String("user.id", userID))

		if !authorizeUser(w, r, userID) {
			return
		}

		resp, err := planner.GetPlans(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// ============================================================
// Plan selection — POST /v1/users/{userId}/plans/select
// ============================================================

func selectPlanHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/plans/select")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}
		span.SetAttributes(attribute.String("user.id", userID))

		if !authorizeUser(w, r, userID) {
			return
		}

		var req domain.SelectPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := planner.SelectPlan(ctx, userID, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "plan selected"})
	}
}

// ============================================================
// Dashboard — GET /v1/users/{userId}/dashboard
// ============================================================

func getDashboardHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/dashboard")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}
		span.SetAttributes(attribute.String("user.id", userID))

		if !authorizeUser(w, r, userID) {
			return
		}

		dash, err := planner.GetDashboard(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, dash)
	}
}

// ============================================================
// Transactions — GET /v1/users/{userId}/transactions
// ============================================================

func getTransactionsHandler(planner *service.Planner, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/transactions")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}
		span.SetAttributes(attribute.String("user.id", userID))

		if !authorizeUser(w, r, userID) {
			return
		}

		transactions, err := planner.GetTransactions(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		page, pageSize := parsePagination(r)
		start := (page - 1) * pageSize
		if start > len(transactions) {
			start = len(transactions)
		}
		end := start + pageSize
		if end > len(transactions) {
			end = len(transactions)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"user_id":      userID,
			"transactions": transactions[start:end],
			"page":         page,
			"page_size":    pageSize,
			"total":        len(transactions),
		})
	}
}
