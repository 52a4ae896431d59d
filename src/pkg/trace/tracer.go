package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	TRACER_NAME             = "semver-gate"
	PERFORMANCE_REPORT_FILE = "performance-report.json"
)

var (
	tracer       trace.Tracer
	spanRecorder *SpanRecorder
	outputDir    string
)

// SpanRecorder keeps finished spans for the performance report
type SpanRecorder struct {
	mu    sync.Mutex
	spans []spanRecord
}

type spanRecord struct {
	Name     string
	Duration time.Duration
	Start    time.Time
	End      time.Time
	ParentID string
	SpanID   string
	Attrs    map[string]string
}

type SpanInfo struct {
	Name       string            `json:"name"`
	DurationMs float64           `json:"durationMs"`
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []SpanInfo        `json:"children,omitempty"`
}

type PerformanceReport struct {
	Spans           []SpanInfo `json:"spans"`
	TotalDurationMs float64    `json:"totalDurationMs"`
	Timestamp       string     `json:"timestamp"`
}

// InitTracer initializes OpenTelemetry tracing. When disabled, StartSpan
// returns no-op spans and the shutdown func does nothing.
func InitTracer(serviceName string, enabled bool, outDir string) (func(), error) {
	if !enabled {
		return func() {}, nil
	}

	spanRecorder = &SpanRecorder{}
	outputDir = outDir

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(&recordingSpanProcessor{recorder: spanRecorder}),
	)

	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(TRACER_NAME)

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
		_ = ExportReport()
		tracer = nil
	}

	return shutdown, nil
}

// StartSpan starts a new span
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name)
}

type recordingSpanProcessor struct {
	recorder *SpanRecorder
}

func (p *recordingSpanProcessor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {}

func (p *recordingSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.recorder == nil {
		return
	}

	parentID := ""
	if s.Parent().IsValid() {
		parentID = s.Parent().SpanID().String()
	}
	var attrs map[string]string
	if kvs := s.Attributes(); len(kvs) > 0 {
		attrs = make(map[string]string, len(kvs))
		for _, kv := range kvs {
			attrs[string(kv.Key)] = kv.Value.Emit()
		}
	}

	p.recorder.mu.Lock()
	defer p.recorder.mu.Unlock()
	p.recorder.spans = append(p.recorder.spans, spanRecord{
		Name:     s.Name(),
		Duration: s.EndTime().Sub(s.StartTime()),
		Start:    s.StartTime(),
		End:      s.EndTime(),
		SpanID:   s.SpanContext().SpanID().String(),
		ParentID: parentID,
		Attrs:    attrs,
	})
}

func (p *recordingSpanProcessor) Shutdown(ctx context.Context) error   { return nil }
func (p *recordingSpanProcessor) ForceFlush(ctx context.Context) error { return nil }

// ExportReport writes performance-report.json into the output directory
func ExportReport() error {
	if spanRecorder == nil || outputDir == "" {
		return nil
	}

	spanRecorder.mu.Lock()
	records := append([]spanRecord(nil), spanRecorder.spans...)
	spanRecorder.mu.Unlock()
	if len(records) == 0 {
		return nil
	}

	hierarchy := buildHierarchy(records)

	totalDurationMs := 0.0
	for _, span := range hierarchy {
		totalDurationMs += span.DurationMs
	}

	report := PerformanceReport{
		Spans:           hierarchy,
		TotalDurationMs: totalDurationMs,
		Timestamp:       time.Now().Format(time.RFC3339Nano),
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filepath.Join(outputDir, PERFORMANCE_REPORT_FILE), data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// buildHierarchy turns flat span records into trees ordered by start time.
// Spans whose parent was not recorded become roots.
func buildHierarchy(records []spanRecord) []SpanInfo {
	children := make(map[string][]spanRecord)
	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.SpanID] = true
	}

	var roots []spanRecord
	for _, r := range records {
		if r.ParentID == "" || !known[r.ParentID] {
			roots = append(roots, r)
			continue
		}
		children[r.ParentID] = append(children[r.ParentID], r)
	}

	var build func(rs []spanRecord) []SpanInfo
	build = func(rs []spanRecord) []SpanInfo {
		sort.Slice(rs, func(i, j int) bool { return rs[i].Start.Before(rs[j].Start) })
		out := make([]SpanInfo, 0, len(rs))
		for _, r := range rs {
			out = append(out, SpanInfo{
				Name:       r.Name,
				DurationMs: float64(r.Duration.Microseconds()) / 1000.0,
				Start:      r.Start.Format(time.RFC3339Nano),
				End:        r.End.Format(time.RFC3339Nano),
				Attributes: r.Attrs,
				Children:   build(children[r.SpanID]),
			})
		}
		return out
	}

	return build(roots)
}
