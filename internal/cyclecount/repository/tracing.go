package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

var tracer = otel.Tracer("cyclecount-repository")

// TracingRepository decorates a domain.Repository with spans on the write
// paths. Read methods pass through via the embedded interface.
type TracingRepository struct {
	domain.Repository
}

// NewTracingRepository creates a repository decorator that records spans
func NewTracingRepository(next domain.Repository) *TracingRepository {
	return &TracingRepository{Repository: next}
}

func (r *TracingRepository) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	ctx, span := tracer.Start(ctx, "repository.InTx")
	defer span.End()

	err := r.Repository.InTx(ctx, func(tx domain.Repository) error {
		return fn(&TracingRepository{Repository: tx})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingRepository) CreateItems(ctx context.Context, items []domain.CountItem) error {
	ctx, span := tracer.Start(ctx, "repository.CreateItems",
		trace.WithAttributes(attribute.Int("items.count", len(items))),
	)
	defer span.End()

	err := r.Repository.CreateItems(ctx, items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingRepository) CreateResult(ctx context.Context, result *domain.CountResult) error {
	ctx, span := tracer.Start(ctx, "repository.CreateResult",
		trace.WithAttributes(
			attribute.Int("result.item_id", int(result.ItemID)),
			attribute.Bool("result.has_discrepancy", result.HasDiscrepancy),
		),
	)
	defer span.End()

	err := r.Repository.CreateResult(ctx, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("result.id", int(result.ID)))
	return nil
}

func (r *TracingRepository) CreateAdjustment(ctx context.Context, adjustment *domain.CountAdjustment) error {
	ctx, span := tracer.Start(ctx, "repository.CreateAdjustment",
		trace.WithAttributes(
			attribute.Int("adjustment.result_id", int(adjustment.ResultID)),
			attribute.String("adjustment.type", adjustment.AdjustmentType),
		),
	)
	defer span.End()

	err := r.Repository.CreateAdjustment(ctx, adjustment)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("adjustment.id", int(adjustment.ID)))
	return nil
}

func (r *TracingRepository) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	ctx, span := tracer.Start(ctx, "repository.CreateNotification",
		trace.WithAttributes(
			attribute.Int("notification.user_id", int(notification.UserID)),
			attribute.String("notification.type", notification.Type),
		),
	)
	defer span.End()

	err := r.Repository.CreateNotification(ctx, notification)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
