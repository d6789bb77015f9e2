// Package calculator dispatches calculation requests to the formula library,
// formats successful results and records them in per-family histories.
package calculator

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/iwvelando/finance-calculators/internal/analytics"
	"github.com/iwvelando/finance-calculators/internal/history"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/format"
	"github.com/iwvelando/finance-calculators/pkg/formulas"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/iwvelando/finance-calculators/internal/calculator"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSink sets the analytics sink notified after every calculation.
func WithSink(sink analytics.Sink) Option {
	return func(o *Orchestrator) {
		if sink != nil {
			o.sink = sink
		}
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithHistoryCapacity sets the capacity of every family history.
func WithHistoryCapacity(capacity int) Option {
	return func(o *Orchestrator) {
		if capacity > 0 {
			o.capacity = capacity
		}
	}
}

// WithDefaultPrecision sets the precision surfaces use when a caller does not choose one.
func WithDefaultPrecision(precision int) Option {
	return func(o *Orchestrator) {
		o.precision = format.ClampPrecision(precision)
	}
}

// WithClock sets the time source handed to the family histories.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Orchestrator executes calculations. It is safe for concurrent use; each
// family history serializes its own mutations.
type Orchestrator struct {
	storage   history.Storage
	logger    *zap.Logger
	sink      analytics.Sink
	tracer    trace.Tracer
	capacity  int
	precision int
	now       func() time.Time

	mu     sync.Mutex
	stores map[Family]*history.Store
}

// New creates an orchestrator whose histories persist through storage. A nil
// storage keeps history in memory only.
func New(storage history.Storage, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		storage:   storage,
		logger:    zap.NewNop(),
		sink:      analytics.Nop{},
		tracer:    otel.Tracer(tracerName),
		capacity:  constants.DefaultHistoryCapacity,
		precision: constants.DefaultPrecision,
		now:       time.Now,
		stores:    make(map[Family]*history.Store),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// DefaultPrecision returns the precision to use when a caller does not choose one.
func (o *Orchestrator) DefaultPrecision() int {
	return o.precision
}

// History returns the history of family, hydrating it on first use.
func (o *Orchestrator) History(f Family) *history.Store {
	o.mu.Lock()
	defer o.mu.Unlock()

	if store, ok := o.stores[f]; ok {
		return store
	}
	store := history.New(f.String(), o.storage,
		history.WithCapacity(o.capacity),
		history.WithClock(o.now),
		history.WithLogger(o.logger),
	)
	o.stores[f] = store
	return store
}

// Execute validates the request, evaluates its formula and, on success,
// formats the value and appends it to the family history. Calculation errors
// are reported on the result, never returned.
//
// Execute panics if req.Kind is not a declared kind.
func (o *Orchestrator) Execute(ctx context.Context, req Request) Result {
	def := mustDefinition(req.Kind)

	_, span := o.tracer.Start(ctx, "calculator.Execute", trace.WithAttributes(
		attribute.String("calculator.kind", req.Kind.String()),
		attribute.String("calculator.family", def.family.String()),
	))
	defer span.End()

	result := o.evaluate(def, req)
	event := analytics.Event{
		Family:  def.family.String(),
		Kind:    req.Kind.String(),
		Outcome: outcome(result),
	}

	if result.Failed() {
		span.SetStatus(codes.Error, result.Err.Error())
		o.logger.Debug("calculation rejected",
			zap.String("op", "calculator.Execute"),
			zap.String("kind", req.Kind.String()),
			zap.Stringer("stage", result.Stage()),
			zap.Error(result.Err),
		)
		o.sink.Record(event)
		return result.Result
	}

	// A degenerate result is shown but not worth remembering.
	if !result.Degenerate() {
		entry, err := o.History(def.family).Append(history.NewEntry(req.Kind.String(), result.operands, result.Display))
		result.Entry = &entry
		event.History = analytics.HistoryWritten
		if err != nil {
			result.HistoryErr = err
			event.History = analytics.HistoryFailed
			span.RecordError(err)
			o.logger.Warn("failed to persist calculation history",
				zap.String("op", "calculator.Execute"),
				zap.String("family", def.family.String()),
				zap.Error(err),
			)
		}
	}

	span.SetAttributes(attribute.Float64("calculator.value", result.Value))
	o.sink.Record(event)
	return result.Result
}

// ExecuteAll runs each request in order.
func (o *Orchestrator) ExecuteAll(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		if ctx.Err() != nil {
			break
		}
		results = append(results, o.Execute(ctx, req))
	}
	return results
}

// evaluation carries the effective operands alongside the result until the
// history entry is built.
type evaluation struct {
	Result
	operands []string
}

func (o *Orchestrator) evaluate(def definition, req Request) evaluation {
	ev := evaluation{Result: Result{Kind: req.Kind, Family: def.family, Precision: req.Precision}}

	if err := validation.ValidatePrecision(req.Precision); err != nil {
		ev.Err = &validation.ParseError{
			Operand: "precision",
			Index:   -1,
			Raw:     strconv.Itoa(req.Precision),
			Err:     validation.ErrInvalidPrecision,
		}
		return ev
	}

	parsed, operands, err := def.parseOperands(req.Operands)
	if err != nil {
		ev.Err = err
		return ev
	}
	ev.operands = operands

	ev.Result.Result = def.eval(parsed)
	if ev.Err == nil && !mathutil.IsFinite(ev.Value) {
		ev.Result.Result = formulas.Result{Err: &formulas.DomainError{
			Formula: req.Kind.String(),
			Err:     formulas.ErrNonFinite,
		}}
	}
	if !ev.Failed() {
		ev.Display = format.Number(ev.Value, req.Precision)
	}
	return ev
}

func outcome(r evaluation) string {
	switch {
	case r.Degenerate():
		return analytics.OutcomeDegenerate
	case r.Stage() == StageParse:
		return analytics.OutcomeParseError
	case r.Stage() == StageDomain:
		return analytics.OutcomeDomainError
	default:
		return analytics.OutcomeSuccess
	}
}
