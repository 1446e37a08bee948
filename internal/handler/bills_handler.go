package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Bills — GET /v1/users/{userId}/bills
// ============================================================

func listBillsHandler(svc *service.BillService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusServiceUnavailable, "bill store unavailable: Supabase not configured")
			return
		}
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/bills")
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

		bills, err := svc.ListBills(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"user_id": userID,
			"bills":   bills,
		})
	}
}

// ============================================================
// Bills — POST /v1/users/{userId}/bills
// ============================================================

func createBillHandler(svc *service.BillService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusServiceUnavailable, "bill store unavailable: Supabase not configured")
			return
		}
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/bills")
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

		var req domain.CreateBillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		bill, err := svc.CreateBill(ctx, userID, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, bill)
	}
}

// ============================================================
// Bills — POST /v1/users/{userId}/bills/{billId}/pay
// ============================================================

func payBillHandler(svc *service.BillService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusServiceUnavailable, "bill store unavailable: Supabase not configured")
			return
		}
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/bills/{billId}/pay")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		billID := chi.URLParam(r, "billId")
		if userID == "" || billID == "" {
			writeError(w, http.StatusBadRequest, "userId and billId are required")
			return
		}
		span.SetAttributes(
			attribute.String("user.id", userID),
			attribute.String("bill.id", billID),
		)

		if !authorizeUser(w, r, userID) {
			return
		}

		// An empty body means "paid today".
		var req domain.PayBillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		bill, err := svc.PayBill(ctx, userID, billID, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, bill)
	}
}

// ============================================================
// Bills — DELETE /v1/users/{userId}/bills/{billId}
// ============================================================

func deleteBillHandler(svc *service.BillService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusServiceUnavailable, "bill store unavailable: Supabase not configured")
			return
		}
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/users/{userId}/bills/{billId}")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		billID := chi.URLParam(r, "billId")
		if userID == "" || billID == "" {
			writeError(w, http.StatusBadRequest, "userId and billId are required")
			return
		}
		span.SetAttributes(
			attribute.String("user.id", userID),
			attribute.String("bill.id", billID),
		)

		if !authorizeUser(w, r, userID) {
			return
		}

		if err := svc.DeleteBill(ctx, userID, billID); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "bill deleted"})
	}
}
