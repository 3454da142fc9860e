package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/ladderhq/ladder/internal/hierarchy"
)

// StartRun opens the root span for one synchronization run. The returned
// end function records the run's outcome counts on the span and in
// ladder.sync.outcomes; call it exactly once with the run's result.
// When telemetry is disabled both are no-ops.
func StartRun(ctx context.Context) (context.Context, func(*hierarchy.Result, error)) {
	if !Enabled() {
		return ctx, func(*hierarchy.Result, error) {}
	}

	ctx, span := Tracer(instrumentationScope).Start(ctx, "sync.run")

	outcomes, _ := Meter(instrumentationScope).Int64Counter("ladder.sync.outcomes",
		metric.WithDescription("Per-parent sync outcomes by kind"),
	)

	return ctx, func(res *hierarchy.Result, err error) {
		defer span.End()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		if res == nil {
			return
		}

		span.SetAttributes(
			attribute.Int("ladder.sync.parents", res.Stats.Parents),
			attribute.Int("ladder.sync.created", res.Stats.Created),
			attribute.Int("ladder.sync.skipped", res.Stats.Skipped),
			attribute.Int("ladder.sync.create_failures", res.Stats.CreateFailures),
			attribute.Int("ladder.sync.link_failures", res.Stats.LinkFailures),
			attribute.Bool("ladder.sync.success", res.Success),
		)
		for _, o := range res.Outcomes {
			outcomes.Add(ctx, 1, metric.WithAttributes(
				attribute.String("ladder.outcome", string(o.Kind)),
			))
		}
	}
}
