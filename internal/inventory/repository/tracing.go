package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-provider")

// TracingProvider wraps a domain.Provider with tracing
type TracingProvider struct {
	next domain.Provider
}

// NewTracingProvider creates a provider decorator that records spans
func NewTracingProvider(next domain.Provider) *TracingProvider {
	return &TracingProvider{next: next}
}

func (p *TracingProvider) Get(ctx context.Context, ref domain.Ref) (*domain.Record, error) {
	ctx, span := tracer.Start(ctx, "provider.Get",
		attributesFor(ref)...,
	)
	defer span.End()

	record, err := p.next.Get(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("inventory.number", record.Number))
	return record, nil
}

func (p *TracingProvider) SetField(ctx context.Context, ref domain.Ref, field, value string) (string, error) {
	ctx, span := tracer.Start(ctx, "provider.SetField",
		attributesFor(ref, attribute.String("inventory.field", field))...,
	)
	defer span.End()

	oldValue, err := p.next.SetField(ctx, ref, field, value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return oldValue, nil
}

func (p *TracingProvider) List(ctx context.Context, kind domain.ItemKind, filter domain.ListFilter) ([]domain.Record, error) {
	ctx, span := tracer.Start(ctx, "provider.List",
		attributesFor(domain.Ref{Kind: kind},
			attribute.String("filter.location", filter.Location),
			attribute.String("filter.category", filter.Category),
		)...,
	)
	defer span.End()

	records, err := p.next.List(ctx, kind, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(records)))
	return records, nil
}

func (p *TracingProvider) UsageScore(ctx context.Context, ref domain.Ref) (float64, error) {
	ctx, span := tracer.Start(ctx, "provider.UsageScore",
		attributesFor(ref)...,
	)
	defer span.End()

	score, err := p.next.UsageScore(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Float64("inventory.usage_score", score))
	return score, nil
}

func attributesFor(ref domain.Ref, extra ...attribute.KeyValue) []trace.SpanStartOption {
	attrs := []attribute.KeyValue{
		attribute.String("inventory.kind", string(ref.Kind)),
		attribute.Int("inventory.id", int(ref.ID)),
	}
	attrs = append(attrs, extra...)
	return []trace.SpanStartOption{trace.WithAttributes(attrs...)}
}
