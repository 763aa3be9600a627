package production

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/gamechart"
)

const tracerName = "github.com/comalice/gamechart"

// TracingObserver turns chart notifications into OpenTelemetry spans. Each
// received event opens a "chart.event" span; each transition taken opens a
// "chart.transition" child span, and state entries and exits are recorded
// as span events on it. Spans stay open until the next event or Flush.
type TracingObserver struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue

	mu         sync.Mutex
	eventCtx   context.Context
	event      trace.Span
	transition trace.Span
}

// NewTracingObserver creates an observer for c. A nil provider uses the
// global one.
func NewTracingObserver(c *gamechart.Chart, tp trace.TracerProvider) *TracingObserver {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &TracingObserver{
		tracer: tp.Tracer(tracerName),
		attrs: []attribute.KeyValue{
			attribute.String("chart.id", c.ID()),
			attribute.String("chart.name", c.Name()),
			attribute.String("chart.version", c.Version()),
		},
	}
}

func (o *TracingObserver) EventReceived(event string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.endLocked()

	attrs := append(o.attrs[:len(o.attrs):len(o.attrs)], attribute.String("chart.event", event))
	o.eventCtx, o.event = o.tracer.Start(context.Background(), "chart.event", trace.WithAttributes(attrs...))
}

func (o *TracingObserver) TransitionTaken(t *gamechart.Transition, from gamechart.State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.transition != nil {
		o.transition.End()
	}

	ctx := o.eventCtx
	if ctx == nil {
		ctx = context.Background()
	}
	attrs := append(o.attrs[:len(o.attrs):len(o.attrs)],
		attribute.String("transition.from", from.Path()),
		attribute.String("transition.to", t.To.Path()),
		attribute.String("transition.event", t.Event),
		attribute.Bool("transition.automatic", t.Automatic()),
	)
	_, o.transition = o.tracer.Start(ctx, "chart.transition", trace.WithAttributes(attrs...))
}

func (o *TracingObserver) StateEntered(s gamechart.State) {
	o.record("state.enter", s)
}

func (o *TracingObserver) StateExited(s gamechart.State) {
	o.record("state.exit", s)
}

// Flush ends any open spans.
func (o *TracingObserver) Flush() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.endLocked()
}

func (o *TracingObserver) record(name string, s gamechart.State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	span := o.transition
	if span == nil {
		span = o.event
	}
	if span == nil {
		// Entries outside any event, e.g. while the chart starts.
		_, span = o.tracer.Start(context.Background(), "chart.activity", trace.WithAttributes(o.attrs...))
		o.transition = span
	}
	span.AddEvent(name, trace.WithAttributes(attribute.String("state", s.Path())))
}

func (o *TracingObserver) endLocked() {
	if o.transition != nil {
		o.transition.End()
		o.transition = nil
	}
	if o.event != nil {
		o.event.End()
		o.event = nil
	}
	o.eventCtx = nil
}
