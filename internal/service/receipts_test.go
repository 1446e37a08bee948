package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/service"

	"go.uber.org/zap"
)

type mockReceiptParser struct {
	result *domain.ReceiptParseResult
	err    error
}

func (m *mockReceiptParser) Parse(_ context.Context, _ *domain.ReceiptParseRequest) (*domain.ReceiptParseResult, error) {
	return m.result, m.err
}

func TestParseReceipt_Success(t *testing.T) {
	parser := &mockReceiptParser{result: &domain.ReceiptParseResult{
		Amount:     84.5,
		Vendor:     "Carrefour",
		Category:   "groceries",
		Date:       "2026-08-20",
		Confidence: 0.91,
	}}
	svc := service.NewReceiptService(parser, zap.NewNop())

	draft, err := svc.ParseReceipt(context.Background(), &domain.ReceiptParseRequest{
		UserID:    "user-1",
		ImageData: "aGVsbG8=",
		MimeType:  "image/jpeg",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if draft.ID == "" {
		t.Error("expected a generated draft id")
	}
	if draft.Amount != 84.5 {
		t.Errorf("expected amount 84.5, got %f", draft.Amount)
	}
	if draft.Type != "expense" {
		t.Errorf("expected type expense, got %s", draft.Type)
	}
	if got := draft.Date.Format("2006-01-02"); got != "2026-08-20" {
		t.Errorf("expected date 2026-08-20, got %s", got)
	}
}

func TestParseReceipt_DefaultsCategory(t *testing.T) {
	parser := &mockReceiptParser{result: &domain.ReceiptParseResult{
		Amount:     10,
		Confidence: 0.4,
	}}
	svc := service.NewReceiptService(parser, zap.NewNop())

	draft, err := svc.ParseReceipt(context.Background(), &domain.ReceiptParseRequest{
		UserID:    "user-1",
		ImageData: "aGVsbG8=",
		MimeType:  "image/png",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if draft.Category != "uncategorized" {
		t.Errorf("expected uncategorized, got %s", draft.Category)
	}
}

func TestParseReceipt_MissingImage(t *testing.T) {
	svc := service.NewReceiptService(&mockReceiptParser{}, zap.NewNop())

	_, err := svc.ParseReceipt(context.Background(), &domain.ReceiptParseRequest{
		UserID:   "user-1",
		MimeType: "image/jpeg",
	})

	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseReceipt_AgentError(t *testing.T) {
	svc := service.NewReceiptService(&mockReceiptParser{err: errors.New("agent unavailable")}, zap.NewNop())

	_, err := svc.ParseReceipt(context.Background(), &domain.ReceiptParseRequest{
		UserID:    "user-1",
		ImageData: "aGVsbG8=",
		MimeType:  "image/jpeg",
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestParseReceipt_NonPositiveAmount(t *testing.T) {
	parser := &mockReceiptParser{result: &domain.ReceiptParseResult{Amount: 0}}
	svc := service.NewReceiptService(parser, zap.NewNop())

	_, err := svc.ParseReceipt(context.Background(), &domain.ReceiptParseRequest{
		UserID:    "user-1",
		ImageData: "aGVsbG8=",
		MimeType:  "image/jpeg",
	})

	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
