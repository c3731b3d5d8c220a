package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/initkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The caller shuts it down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Resolution outcomes recorded as the status attribute.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the instruments recorded by implementation resolution and
// settings lookups.
type Metrics struct {
	resolutionTotal    metric.Int64Counter
	resolutionDuration metric.Float64Histogram
	candidateTotal     metric.Int64Counter
	settingLookupTotal metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	resolutionTotal, err := meter.Int64Counter("resolution.total",
		metric.WithDescription("Total number of implementation resolutions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resolution.total counter: %w", err)
	}

	resolutionDuration, err := meter.Float64Histogram("resolution.duration",
		metric.WithDescription("Duration of implementation resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resolution.duration histogram: %w", err)
	}

	candidateTotal, err := meter.Int64Counter("resolution.candidates",
		metric.WithDescription("Candidates seen during resolution"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resolution.candidates counter: %w", err)
	}

	settingLookupTotal, err := meter.Int64Counter("setting.lookup.total",
		metric.WithDescription("Total number of settings lookups"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating setting.lookup.total counter: %w", err)
	}

	return &Metrics{
		resolutionTotal:    resolutionTotal,
		resolutionDuration: resolutionDuration,
		candidateTotal:     candidateTotal,
		settingLookupTotal: settingLookupTotal,
	}, nil
}

// RecordResolution records one facade call.
func (m *Metrics) RecordResolution(ctx context.Context, subject, mode, status string, duration time.Duration) {
	m.resolutionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("subject", subject),
		attribute.String("mode", mode),
		attribute.String(AttrStatus, status),
	))
	m.resolutionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("subject", subject),
		attribute.String("mode", mode),
	))
}

// RecordCandidates adds the number of discovered candidates for subject.
func (m *Metrics) RecordCandidates(ctx context.Context, subject string, n int) {
	m.candidateTotal.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("subject", subject),
	))
}

// RecordSettingLookup records a settings lookup by outcome.
func (m *Metrics) RecordSettingLookup(ctx context.Context, status string) {
	m.settingLookupTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStatus, status),
	))
}
