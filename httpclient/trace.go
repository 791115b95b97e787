package httpclient

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/probekit/probekit/httpclient"

// startCallSpan opens one span per logical call. Individual attempts are
// recorded as span events, not child spans.
func startCallSpan(ctx context.Context, method, path, requestID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("request.id", requestID),
		),
	)
}

func recordAttemptStatus(span trace.Span, attempt, status int) {
	span.AddEvent("attempt", trace.WithAttributes(
		attribute.Int("attempt", attempt),
		attribute.Int("http.response.status_code", status),
	))
	span.SetAttributes(attribute.Int("http.response.status_code", status))
}

func recordAttemptError(span trace.Span, attempt int, err error) {
	span.AddEvent("attempt", trace.WithAttributes(
		attribute.Int("attempt", attempt),
		attribute.String("error", err.Error()),
	))
}

func recordTerminalError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func recordCancellation(span trace.Span, err error) {
	span.SetStatus(codes.Error, "cancelled")
	span.RecordError(err)
}
