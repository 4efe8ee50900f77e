package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	loginAttempts      metric.Int64Counter
	badgeAwards        metric.Int64Counter
	subscriptionEvents metric.Int64Counter
	paymentSessions    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "naturetrail"
	}
	meter := provider.Meter(name)

	loginAttempts, err := meter.Int64Counter("naturetrail_login_attempts_total")
	if err != nil {
		return nil, err
	}
	badgeAwards, err := meter.Int64Counter("naturetrail_badge_awards_total")
	if err != nil {
		return nil, err
	}
	subscriptionEvents, err := meter.Int64Counter("naturetrail_subscription_events_total")
	if err != nil {
		return nil, err
	}
	paymentSessions, err := meter.Int64Counter("naturetrail_payment_sessions_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		loginAttempts:      loginAttempts,
		badgeAwards:        badgeAwards,
		subscriptionEvents: subscriptionEvents,
		paymentSessions:    paymentSessions,
	}, nil
}

// RecordLoginAttempt increments login attempt counts by result.
func (m *Metrics) RecordLoginAttempt(ctx context.Context, result string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("result", strings.TrimSpace(result)))
	m.loginAttempts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBadgeAward increments badge award counts.
func (m *Metrics) RecordBadgeAward(ctx context.Context, badgeCode string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("badge_code", strings.TrimSpace(badgeCode)))
	m.badgeAwards.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSubscriptionEvent increments subscription lifecycle event counts.
func (m *Metrics) RecordSubscriptionEvent(ctx context.Context, eventType, planInterval string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("event_type", strings.TrimSpace(eventType)),
		attribute.String("plan_interval", strings.TrimSpace(planInterval)),
	)
	m.subscriptionEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPaymentSession increments payment session counts by status.
func (m *Metrics) RecordPaymentSession(ctx context.Context, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("status", strings.TrimSpace(status)))
	m.paymentSessions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"result":        {},
	"badge_code":    {},
	"event_type":    {},
	"plan_interval": {},
	"status":        {},
	"status_code":   {},
	"endpoint":      {},
	"tier":          {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
