package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ladderhq/ladder/internal/hierarchy"
)

const repositoryScopeName = "github.com/ladderhq/ladder/repository"

// InstrumentedRepository wraps a hierarchy.Repository with OTel tracing
// and metrics. Every tracker call gets a span and is counted in
// ladder.repository.* metrics. Use WrapRepository to create one; it
// returns the original repository unchanged when telemetry is disabled.
type InstrumentedRepository struct {
	inner  hierarchy.Repository
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapRepository returns r decorated with OTel instrumentation.
// When telemetry is disabled, r is returned as-is with zero overhead.
func WrapRepository(r hierarchy.Repository) hierarchy.Repository {
	if !Enabled() {
		return r
	}
	m := Meter(repositoryScopeName)
	ops, _ := m.Int64Counter("ladder.repository.operations",
		metric.WithDescription("Total tracker operations executed"),
	)
	dur, _ := m.Float64Histogram("ladder.repository.operation.duration",
		metric.WithDescription("Tracker operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("ladder.repository.errors",
		metric.WithDescription("Total tracker operation errors"),
	)
	return &InstrumentedRepository{
		inner:  r,
		tracer: Tracer(repositoryScopeName),
		ops:    ops,
		dur:    dur,
		errs:   errs,
	}
}

// op starts a span and records a metric for the named tracker operation.
func (r *InstrumentedRepository) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("ladder.operation", name)}, attrs...)
	ctx, span := r.tracer.Start(ctx, "repository."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	r.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (r *InstrumentedRepository) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	r.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (r *InstrumentedRepository) Query(ctx context.Context, jql string, fields []string, limit int) ([]hierarchy.ParentIssue, error) {
	attrs := []attribute.KeyValue{attribute.Int("ladder.query.limit", limit)}
	ctx, span, t := r.op(ctx, "Query", attrs...)
	parents, err := r.inner.Query(ctx, jql, fields, limit)
	if err == nil {
		span.SetAttributes(attribute.Int("ladder.query.results", len(parents)))
	}
	r.done(ctx, span, t, err, attrs...)
	return parents, err
}

func (r *InstrumentedRepository) Create(ctx context.Context, fields map[string]interface{}) (hierarchy.CreatedIssue, error) {
	attrs := []attribute.KeyValue{attribute.Int("ladder.field.count", len(fields))}
	ctx, span, t := r.op(ctx, "Create", attrs...)
	created, err := r.inner.Create(ctx, fields)
	if err == nil {
		span.SetAttributes(attribute.String("ladder.issue.key", created.Key))
	}
	r.done(ctx, span, t, err, attrs...)
	return created, err
}

func (r *InstrumentedRepository) UpdateField(ctx context.Context, issueKey, fieldName string, value interface{}) error {
	attrs := []attribute.KeyValue{
		attribute.String("ladder.issue.key", issueKey),
		attribute.String("ladder.field", fieldName),
	}
	ctx, span, t := r.op(ctx, "UpdateField", attrs...)
	err := r.inner.UpdateField(ctx, issueKey, fieldName, value)
	r.done(ctx, span, t, err, attrs...)
	return err
}

func (r *InstrumentedRepository) CreateLink(ctx context.Context, linkTypeID, inwardKey, outwardKey string) error {
	attrs := []attribute.KeyValue{
		attribute.String("ladder.link.type_id", linkTypeID),
	}
	ctx, span, t := r.op(ctx, "CreateLink", attrs...)
	err := r.inner.CreateLink(ctx, linkTypeID, inwardKey, outwardKey)
	r.done(ctx, span, t, err, attrs...)
	return err
}
