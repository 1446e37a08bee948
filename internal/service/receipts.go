package service

import (
	"context"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var receiptsTracer = otel.Tracer("service/receipts")

// ReceiptService turns uploaded receipts into transaction drafts via the
// parsing agent. The agent output is treated as untrusted and normalized
// before it reaches the client.
type ReceiptService struct {
	parser port.ReceiptParser
	logger *zap.Logger
	now    func() time.Time
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(parser port.ReceiptParser, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		parser: parser,
		logger: logger,
		now:    time.Now,
	}
}

// ParseReceipt sends the receipt image to the agent and promotes the result
// to a transaction draft. Drafts are returned to the caller, never stored;
// confirming a draft is the presentation layer's job.
func (s *ReceiptService) ParseReceipt(ctx context.Context, req *domain.ReceiptParseRequest) (*domain.TransactionDraft, error) {
	ctx, span := receiptsTracer.Start(ctx, "ReceiptService.ParseReceipt")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", req.UserID))

	if req.ImageData == "" {
		return nil, &domain.ErrValidation{Field: "image_data", Message: "is required"}
	}
	if req.MimeType == "" {
		return nil, &domain.ErrValidation{Field: "mime_type", Message: "is required"}
	}

	result, err := s.parser.Parse(ctx, req)
	if err != nil {
		return nil, err
	}

	if result.Amount <= 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "agent returned a non-positive amount"}
	}

	date := s.now()
	if result.Date != "" {
		if parsed, err := time.Parse("2006-01-02", result.Date); err == nil {
			date = parsed
		}
	}

	category := result.Category
	if category == "" {
		category = "uncategorized"
	}

	draft := &domain.TransactionDraft{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		Amount:     result.Amount,
		Vendor:     result.Vendor,
		Category:   category,
		Date:       date,
		Note:       result.Note,
		Type:       "expense",
		Confidence: result.Confidence,
		CreatedAt:  s.now(),
	}

	s.logger.Info("receipt parsed",
		zap.String("user_id", req.UserID),
		zap.String("draft_id", draft.ID),
		zap.Float64("amount", draft.Amount),
		zap.Float64("confidence", draft.Confidence),
	)

	return draft, nil
}
