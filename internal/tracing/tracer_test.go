package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/datasync/keymarker/internal/emitter"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled, "tracing should be disabled by default")
	require.Equal(t, ExporterFile, cfg.Exporter)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "keymarker", cfg.ServiceName)
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.False(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), "noop")
	span.End()
	require.False(t, span.SpanContext().IsValid())
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: ExporterFile})
	require.ErrorContains(t, err, "file_path required")

	_, err = NewProvider(Config{Enabled: true, Exporter: "zipkin"})
	require.ErrorContains(t, err, "unsupported exporter")
}

func TestNewProvider_None(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: ExporterNone})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), "internal")
	require.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporterWritesOnShutdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "traces.jsonl")

	provider, err := NewProvider(Config{Enabled: true, Exporter: ExporterFile, FilePath: path, SampleRate: 1})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), "flush-me")
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), `"name":"flush-me"`)
}

func TestFileExporter_RecordShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exp, err := NewFileExporter(path)
	require.NoError(t, err)

	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	stub := tracetest.SpanStub{
		Name:      SpanEmit,
		StartTime: start,
		EndTime:   start.Add(1500 * time.Microsecond),
		Status:    sdktrace.Status{Code: codes.Error},
		Attributes: []attribute.KeyValue{
			attribute.String(AttrMarkerName, "Books"),
		},
		Events: []sdktrace.Event{{Name: "retry"}},
	}
	require.NoError(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))
	require.Error(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	var rec SpanRecord
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
	require.Equal(t, SpanEmit, rec.Name)
	require.Equal(t, "ERROR", rec.Status)
	require.InDelta(t, 1.5, rec.DurationMs, 0.001)
	require.Equal(t, "Books", rec.Attributes[AttrMarkerName])
	require.Equal(t, []string{"retry"}, rec.Events)
	require.False(t, scanner.Scan(), "only one line expected")
}

func setupTestTracer(t *testing.T) (trace.Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider.Tracer("test"), exporter
}

func attr(span tracetest.SpanStub, key string) string {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestTraced_EmitsChildSpans(t *testing.T) {
	tracer, exporter := setupTestTracer(t)

	var got []string
	inner := emitter.Func(func(marker string, _ time.Time) { got = append(got, marker) })

	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	traced := StartSession(context.Background(), tracer, inner, "guid-1", "studio")
	traced.Emit("Books", at)
	traced.Emit("UNDO_Books", at.Add(time.Second))
	traced.End()

	require.Equal(t, []string{"Books", "UNDO_Books"}, got)

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)

	var session tracetest.SpanStub
	var emits []tracetest.SpanStub
	for _, s := range spans {
		switch s.Name {
		case SpanSession:
			session = s
		case SpanEmit:
			emits = append(emits, s)
		}
	}
	require.Equal(t, "guid-1", attr(session, AttrSessionGUID))
	require.Len(t, emits, 2)
	for _, e := range emits {
		require.Equal(t, session.SpanContext.SpanID(), e.Parent.SpanID())
	}
	require.Equal(t, "Books", attr(emits[0], AttrMarkerName))
	require.Equal(t, "event", attr(emits[0], AttrMarkerKind))
	require.True(t, emits[0].StartTime.Equal(at))
	require.Equal(t, "undo", attr(emits[1], AttrMarkerKind))
}

func TestNewProviderWithExporter_Sync(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := newProviderWithExporter(Config{ServiceName: "svc"}, exporter, true)
	defer provider.Shutdown(context.Background())

	_, span := provider.Tracer().Start(context.Background(), "s")
	span.End()
	require.Len(t, exporter.GetSpans(), 1)
}
