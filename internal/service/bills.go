package service

import (
	"context"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var billsTracer = otel.Tracer("service/bills")

// BillService manages the user's recurring bills. Mutations invalidate the
// planner's snapshot because unpaid bills feed the disposable computation.
type BillService struct {
	store   port.BillStore
	planner *Planner
	logger  *zap.Logger
	now     func() time.Time
}

// NewBillService creates a new bill service.
func NewBillService(store port.BillStore, planner *Planner, logger *zap.Logger) *BillService {
	return &BillService{
		store:   store,
		planner: planner,
		logger:  logger,
		now:     time.Now,
	}
}

// ListBills returns the user's recurring bills.
func (s *BillService) ListBills(ctx context.Context, userID string) ([]domain.RecurringBill, error) {
	ctx, span := billsTracer.Start(ctx, "BillService.ListBills")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	return s.store.GetBills(ctx, userID)
}

// CreateBill validates and stores a new recurring bill.
func (s *BillService) CreateBill(ctx context.Context, userID string, req *domain.CreateBillRequest) (*domain.RecurringBill, error) {
	ctx, span := billsTracer.Start(ctx, "BillService.CreateBill")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "is required"}
	}
	if req.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}

	bill, err := s.store.CreateBill(ctx, userID, &domain.RecurringBill{
		Name:   req.Name,
		Amount: req.Amount,
	})
	if err != nil {
		return nil, err
	}

	s.planner.InvalidateSnapshot(userID)

	s.logger.Info("bill created",
		zap.String("user_id", userID),
		zap.String("bill_id", bill.ID),
		zap.Float64("amount", bill.Amount),
	)
	return bill, nil
}

// PayBill marks a bill paid for the month of the given date. An empty date
// defaults to today.
func (s *BillService) PayBill(ctx context.Context, userID, billID string, req *domain.PayBillRequest) (*domain.RecurringBill, error) {
	ctx, span := billsTracer.Start(ctx, "BillService.PayBill")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("bill.id", billID),
	)

	paidDate := req.PaidDate
	if paidDate == "" {
		paidDate = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", paidDate); err != nil {
		return nil, &domain.ErrValidation{Field: "paid_date", Message: "must be YYYY-MM-DD"}
	}

	bill, err := s.store.MarkBillPaid(ctx, userID, billID, paidDate)
	if err != nil {
		return nil, err
	}

	s.planner.InvalidateSnapshot(userID)

	s.logger.Info("bill paid",
		zap.String("user_id", userID),
		zap.String("bill_id", billID),
		zap.String("paid_date", paidDate),
	)
	return bill, nil
}

// DeleteBill removes a recurring bill.
func (s *BillService) DeleteBill(ctx context.Context, userID, billID string) error {
	ctx, span := billsTracer.Start(ctx, "BillService.DeleteBill")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("bill.id", billID),
	)

	if err := s.store.DeleteBill(ctx, userID, billID); err != nil {
		return err
	}

	s.planner.InvalidateSnapshot(userID)

	s.logger.Info("bill deleted",
		zap.String("user_id", userID),
		zap.String("bill_id", billID),
	)
	return nil
}
