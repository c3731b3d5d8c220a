package initialize

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"time"

	"github.com/kbukum/initkit/logger"
	"github.com/kbukum/initkit/observability"
)

// Discoverer supplies the candidates for a contract. Values that do not
// implement contract are ignored by the Initializer.
type Discoverer interface {
	Discover(contract reflect.Type) iter.Seq[any]
}

// DiscovererFunc adapts a function to Discoverer.
type DiscovererFunc func(contract reflect.Type) iter.Seq[any]

// Discover calls f.
func (f DiscovererFunc) Discover(contract reflect.Type) iter.Seq[any] {
	return f(contract)
}

// Resolution describes one successful load.
type Resolution struct {
	Subject string
	Mode    Mode
	// Chosen holds the concrete type of the selected implementation, or one
	// "key=type" entry per registered type in ModeSelectType.
	Chosen []string
}

// Recorder receives every successful Resolution.
type Recorder interface {
	RecordResolution(r Resolution)
}

// Initializer resolves implementations through a Discoverer and a Starter.
// Use the package-level Load functions with it.
type Initializer struct {
	discoverer Discoverer
	starter    Starter
	log        *logger.Logger
	metrics    *observability.Metrics
	recorder   Recorder
}

// Option configures an Initializer.
type Option func(*Initializer)

// WithLogger sets the logger of every load. Unless WithStarter is given, the
// selection lines go to it too, with the subject and mode fields added.
func WithLogger(l *logger.Logger) Option {
	return func(in *Initializer) {
		in.log = l
	}
}

// WithStarter replaces the selection engine.
func WithStarter(s Starter) Option {
	return func(in *Initializer) {
		in.starter = s
	}
}

// WithMetrics records resolution metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(in *Initializer) {
		in.metrics = m
	}
}

// WithRecorder reports successful resolutions to r.
func WithRecorder(r Recorder) Option {
	return func(in *Initializer) {
		in.recorder = r
	}
}

// New creates an Initializer over d.
func New(d Discoverer, opts ...Option) *Initializer {
	in := &Initializer{discoverer: d}
	for _, opt := range opts {
		opt(in)
	}
	if in.log == nil {
		in.log = logger.Get("initialize")
	}
	return in
}

// starterFor returns the injected Starter, or the default one logging to
// log.
func (in *Initializer) starterFor(log *logger.Logger) Starter {
	if in.starter != nil {
		return in.starter
	}
	return NewStarter(log)
}

// LoadOneImplementationBySelectOrder discovers the implementations of T and
// returns the one with the highest select order.
func LoadOneImplementationBySelectOrder[T Orderable](ctx context.Context, in *Initializer) (T, error) {
	var chosen T
	err := load[T](ctx, in, ModeSelectOrder, func(s Starter, seq iter.Seq[T], name string) ([]string, error) {
		impl, err := s.ImplementationBySelectOrder(erase(seq, func(v T) Orderable { return v }), name)
		if err != nil {
			return nil, err
		}
		chosen = impl.(T)
		return []string{kind(chosen)}, nil
	})
	return chosen, err
}

// LoadTheOnlyExistingImplementation discovers the implementations of T and
// returns the only one.
func LoadTheOnlyExistingImplementation[T any](ctx context.Context, in *Initializer) (T, error) {
	var chosen T
	err := load[T](ctx, in, ModeOnlyOne, func(s Starter, seq iter.Seq[T], name string) ([]string, error) {
		impl, err := s.OnlyImplementation(erase(seq, func(v T) any { return v }), name)
		if err != nil {
			return nil, err
		}
		chosen = impl.(T)
		return []string{kind(chosen)}, nil
	})
	return chosen, err
}

// LoadImplementationsBySelectType discovers the implementations of T and
// returns them by select type.
func LoadImplementationsBySelectType[T Typed](ctx context.Context, in *Initializer) (*Types[T], error) {
	var types *Types[T]
	err := load[T](ctx, in, ModeSelectType, func(s Starter, seq iter.Seq[T], name string) ([]string, error) {
		erased, err := s.ImplementationsBySelectType(erase(seq, func(v T) Typed { return v }), name)
		if err != nil {
			return nil, err
		}
		types = retype[T](erased)
		chosen := make([]string, 0, types.Len())
		for _, key := range types.Keys() {
			chosen = append(chosen, key+"="+kind(types.byType[key]))
		}
		return chosen, nil
	})
	if err != nil {
		return nil, err
	}
	return types, nil
}

type selectFunc[T any] func(s Starter, candidates iter.Seq[T], name string) (chosen []string, err error)

// load brackets one selection with start and finish log lines, a span and
// metrics. The finish line is only written when selection succeeds.
func load[T any](ctx context.Context, in *Initializer, mode Mode, sel selectFunc[T]) error {
	name := SubjectName[T]()
	ctx, span := observability.StartSpan(ctx, observability.SpanLoad)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSubject, name)
	observability.SetSpanAttribute(ctx, observability.AttrMode, string(mode))

	log := in.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldSubject, name,
		logger.FieldMode, string(mode),
	))
	log.Info("Initializer start loading implementation of: " + name + "...")

	start := time.Now()
	seen := 0
	candidates := func(yield func(T) bool) {
		for c := range discover[T](in.discoverer) {
			seen++
			if !yield(c) {
				return
			}
		}
	}

	chosen, err := sel(in.starterFor(log), candidates, name)
	if in.metrics != nil {
		in.metrics.RecordCandidates(ctx, name, seen)
	}
	if err != nil {
		observability.SetSpanError(ctx, err)
		in.record(ctx, name, mode, observability.StatusError, start)
		return err
	}

	observability.SetSpanAttribute(ctx, observability.AttrChosen, chosen)
	in.record(ctx, name, mode, observability.StatusOK, start)
	if in.recorder != nil {
		in.recorder.RecordResolution(Resolution{Subject: name, Mode: mode, Chosen: chosen})
	}
	log.Info("...initializer finished loading implementation of: " + name)
	return nil
}

func (in *Initializer) record(ctx context.Context, name string, mode Mode, status string, start time.Time) {
	if in.metrics == nil {
		return
	}
	in.metrics.RecordResolution(ctx, name, string(mode), status, time.Since(start))
}

// discover asks d for the implementations of T and drops anything else.
func discover[T any](d Discoverer) iter.Seq[T] {
	return func(yield func(T) bool) {
		for c := range d.Discover(reflect.TypeFor[T]()) {
			v, ok := c.(T)
			if !ok {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

func erase[T, U any](seq iter.Seq[T], conv func(T) U) iter.Seq[U] {
	return func(yield func(U) bool) {
		for v := range seq {
			if !yield(conv(v)) {
				return
			}
		}
	}
}

// SubjectName is the name used for T in logs and errors: the declared type
// name, or its full description for unnamed types.
func SubjectName[T any]() string {
	t := reflect.TypeFor[T]()
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func kind(v any) string {
	return fmt.Sprintf("%T", v)
}
