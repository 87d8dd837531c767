package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/datasync/keymarker/internal/emitter"
	"github.com/datasync/keymarker/internal/sessions/domain"
)

// Traced wraps an emitter so each emission becomes a span under the
// session span.
type Traced struct {
	next    emitter.Emitter
	tracer  trace.Tracer
	ctx     context.Context
	session trace.Span
}

// StartSession opens the session span and returns an emitter whose spans
// are its children. Call End when the session finishes.
func StartSession(ctx context.Context, tracer trace.Tracer, next emitter.Emitter, guid, host string) *Traced {
	ctx, span := tracer.Start(ctx, SpanSession, trace.WithAttributes(
		attribute.String(AttrSessionGUID, guid),
		attribute.String(AttrHost, host),
	))
	return &Traced{next: next, tracer: tracer, ctx: ctx, session: span}
}

// Emit records a span starting at the marker timestamp around next.Emit.
func (t *Traced) Emit(marker string, at time.Time) {
	_, span := t.tracer.Start(t.ctx, SpanEmit,
		trace.WithTimestamp(at),
		trace.WithAttributes(
			attribute.String(AttrMarkerName, marker),
			attribute.String(AttrMarkerKind, string(domain.ClassifyMarker(marker))),
		),
	)
	defer span.End()
	t.next.Emit(marker, at)
}

// End closes the session span.
func (t *Traced) End() {
	t.session.End()
}
