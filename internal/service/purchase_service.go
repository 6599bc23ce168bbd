package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/emmaus-school/talent-api/internal/dto"
	"github.com/emmaus-school/talent-api/internal/repository"
	"github.com/emmaus-school/talent-api/pkg/events"
)

// PurchaseService handles reward store purchases and catalog reads.
type PurchaseService interface {
	Purchase(ctx context.Context, payload dto.PurchaseRequest) (dto.PurchaseResponse, error)
	Products(ctx context.Context, onlyAvailable bool) ([]dto.ProductResponse, error)
}

type purchaseService struct {
	engine    LedgerEngine
	products  repository.ProductRepository
	validator *validator.Validate
	publisher events.Publisher
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewPurchaseService constructs a PurchaseService instance.
func NewPurchaseService(engine LedgerEngine, products repository.ProductRepository, validate *validator.Validate, publisher events.Publisher, logger zerolog.Logger) PurchaseService {
	return &purchaseService{
		engine:    engine,
		products:  products,
		validator: validate,
		publisher: publisher,
		logger:    logger.With().Str("component", "purchase_service").Logger(),
		tracer:    otel.Tracer("github.com/emmaus-school/talent-api/internal/service/purchase"),
	}
}

func (s *purchaseService) Purchase(ctx context.Context, payload dto.PurchaseRequest) (dto.PurchaseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "purchase.submit")
	defer span.End()
	span.SetAttributes(
		attribute.Int("purchase.student_id", int(payload.StudentID)),
		attribute.Int("purchase.product_id", int(payload.ProductID)),
		attribute.Int("purchase.quantity", payload.Quantity),
	)

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.PurchaseResponse{}, err
	}

	result, err := s.engine.Purchase(ctx, payload.StudentID, payload.ProductID, payload.Quantity, sanitizeText(payload.Requirements))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ledger write failed")
		return dto.PurchaseResponse{}, err
	}

	s.publisher.Publish(ctx, events.Event{
		Kind:       "purchase",
		EntityKind: "student",
		EntityID:   payload.StudentID,
		Amount:     -result.Purchase.TotalPrice,
		Balance:    result.RemainingBalance,
		Reason:     result.Purchase.Status,
	})
	s.logger.Info().
		Uint("student_id", payload.StudentID).
		Uint("product_id", payload.ProductID).
		Int("quantity", payload.Quantity).
		Int("total_price", result.Purchase.TotalPrice).
		Msg("purchase recorded")

	return dto.PurchaseResponse{
		PurchaseID:       result.Purchase.ID,
		ProductID:        result.Purchase.ProductID,
		Quantity:         result.Purchase.Quantity,
		TotalPrice:       result.Purchase.TotalPrice,
		RemainingBalance: result.RemainingBalance,
		RemainingStock:   result.RemainingStock,
		Status:           result.Purchase.Status,
		CreatedAt:        result.Purchase.CreatedAt,
	}, nil
}

func (s *purchaseService) Products(ctx context.Context, onlyAvailable bool) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx, onlyAvailable)
	if err != nil {
		return nil, err
	}

	return dto.NewProductResponseSlice(products), nil
}
