package diagnostic

import (
	"context"
	"sync"
	"testing"

	"bennypowers.dev/rxls/lsp/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.opentelemetry.io/otel/trace/noop"
)

type startedSpan struct {
	name  string
	attrs []attribute.KeyValue
}

type spanRecorder struct {
	embedded.TracerProvider
	mu    sync.Mutex
	spans []startedSpan
}

func (r *spanRecorder) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{rec: r}
}

func (r *spanRecorder) reset() []startedSpan {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.spans
	r.spans = nil
	return out
}

type recordingTracer struct {
	embedded.Tracer
	rec *spanRecorder
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	t.rec.mu.Lock()
	t.rec.spans = append(t.rec.spans, startedSpan{name: name, attrs: cfg.Attributes()})
	t.rec.mu.Unlock()
	return noop.NewTracerProvider().Tracer("").Start(ctx, name, opts...)
}

// The global provider delegates only once, so every run shares one recorder.
var (
	recorderOnce sync.Once
	recorder     = &spanRecorder{}
)

func installRecorder(t *testing.T) *spanRecorder {
	t.Helper()
	recorderOnce.Do(func() { otel.SetTracerProvider(recorder) })
	recorder.reset()
	return recorder
}

func TestFindings_Span(t *testing.T) {
	rec := installRecorder(t)
	ctx := testutil.NewMockServerContext()
	open(t, ctx, "file:///a.js", "javascript", jsSource)

	_, err := Findings(ctx, "file:///a.js")
	require.NoError(t, err)

	spans := rec.reset()
	require.Len(t, spans, 1)
	assert.Equal(t, "rxls.diagnostics", spans[0].name)
	assert.Contains(t, spans[0].attrs, attribute.String("rxls.uri", "file:///a.js"))
}

func TestFindings_SpanForUntrackedDocument(t *testing.T) {
	rec := installRecorder(t)

	findings, err := Findings(testutil.NewMockServerContext(), "file:///missing.js")
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.Len(t, rec.reset(), 1)
}
