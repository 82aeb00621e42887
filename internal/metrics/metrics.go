package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

var logger = logging.NewPackageLogger("metrics")

// AppMetrics holds all application metrics
type AppMetrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestsErrors  metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Database Metrics
	DBQueriesTotal  metric.Int64Counter
	DBQueryDuration metric.Float64Histogram

	// Business Metrics
	OrdersCreated      metric.Int64Counter
	OrderStatusChanges metric.Int64Counter
	RevenueTotal       metric.Float64Counter
	ProductsViewed     metric.Int64Counter
	CartItemsCount     metric.Int64Gauge
	PendingOrders      metric.Int64Gauge
	InventoryLevel     metric.Int64Gauge

	// Application Metrics
	SignIns     metric.Int64Counter
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter

	// Service name for adding to all metrics
	serviceName string
}

// InitMetrics initializes the OTLP meter provider and the application instruments
func InitMetrics(ctx context.Context, cfg *config.Config) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	// Explicit attributes take precedence over OTEL_RESOURCE_ATTRIBUTES
	envRes, err := resource.New(ctx, resource.WithFromEnv())
	if err != nil {
		envRes = resource.Empty()
	}

	explicitRes, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTELServiceName),
			semconv.ServiceVersion(cfg.OTELServiceVersion),
			attribute.String("deployment.environment", cfg.OTELDeploymentEnvironment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create explicit resource: %w", err)
	}

	res, err := resource.Merge(envRes, explicitRes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to merge resources: %w", err)
	}

	// WithEndpoint expects host:port without a scheme
	exporterOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.OTELExporterOTLPEndpoint),
		otlpmetrichttp.WithURLPath("/v1/metrics"),
	}
	if cfg.OTELExporterOTLPHeaders != "" {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithHeaders(parseHeaders(cfg.OTELExporterOTLPHeaders)))
	}
	if cfg.OTELExporterOTLPInsecure {
		exporterOpts = append(exporterOpts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(10*time.Second),
	)

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)

	logger.Info().
		Str("endpoint", cfg.OTELExporterOTLPEndpoint).
		Bool("insecure", cfg.OTELExporterOTLPInsecure).
		Str("service", cfg.OTELServiceName).
		Dur("interval", 10*time.Second).
		Msg("metrics exporter configured")

	appMetrics, err := NewAppMetrics(meterProvider.Meter(cfg.OTELServiceName), cfg.OTELServiceName)
	if err != nil {
		return nil, nil, err
	}
	return appMetrics, meterProvider, nil
}

// NewNoopMetrics returns metrics backed by a no-op meter
func NewNoopMetrics() *AppMetrics {
	m, err := NewAppMetrics(noop.NewMeterProvider().Meter("noop"), "noop")
	if err != nil {
		panic(err)
	}
	return m
}

// instruments creates instruments on a meter, keeping the first failure
type instruments struct {
	meter metric.Meter
	err   error
}

func (b *instruments) fail(name string, err error) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("failed to create instrument %s: %w", name, err)
	}
}

func (b *instruments) counter(name, desc string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("1"))
	b.fail(name, err)
	return c
}

func (b *instruments) gauge(name, desc string) metric.Int64Gauge {
	g, err := b.meter.Int64Gauge(name, metric.WithDescription(desc), metric.WithUnit("1"))
	b.fail(name, err)
	return g
}

func (b *instruments) millis(name, desc string) metric.Float64Histogram {
	h, err := b.meter.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	)
	b.fail(name, err)
	return h
}

// Histogram buckets in milliseconds, up to 60s
var latencyBuckets = []float64{2, 4, 6, 8, 10, 50, 100, 200, 400, 800, 1000, 1400, 2000, 5000, 10000, 15000, 20000, 30000, 45000, 60000}

// NewAppMetrics creates the application instruments on meter
func NewAppMetrics(meter metric.Meter, serviceName string) (*AppMetrics, error) {
	b := &instruments{meter: meter}
	m := &AppMetrics{
		HTTPRequestsTotal:   b.counter("http.server.request.count", "Total number of HTTP requests"),
		HTTPRequestsErrors:  b.counter("http.server.request.error.count", "Total number of HTTP error requests"),
		HTTPRequestDuration: b.millis("http.server.request.duration", "HTTP request duration in milliseconds"),

		DBQueriesTotal:  b.counter("db.client.queries.count", "Total number of database queries"),
		DBQueryDuration: b.millis("db.client.queries.duration", "Database query duration in milliseconds"),

		OrdersCreated:      b.counter("orders_created_total", "Total number of orders placed"),
		OrderStatusChanges: b.counter("order_status_changes_total", "Total number of admin order status changes"),
		ProductsViewed:     b.counter("products_viewed_total", "Total number of product views"),
		CartItemsCount:     b.gauge("cart_items_count", "Items in a user's cart after the last change"),
		PendingOrders:      b.gauge("pending_orders_count", "Orders waiting for the shop to complete them"),
		InventoryLevel:     b.gauge("inventory_level", "Stock level of a product after an admin write"),

		SignIns:     b.counter("sign_ins_total", "Sign-in attempts by result"),
		CacheHits:   b.counter("cache_hits_total", "Product cache hits"),
		CacheMisses: b.counter("cache_misses_total", "Product cache misses"),

		serviceName: serviceName,
	}

	revenue, err := meter.Float64Counter("revenue_total",
		metric.WithDescription("Total value of placed orders"),
		metric.WithUnit("PKR"),
	)
	b.fail("revenue_total", err)
	m.RevenueTotal = revenue

	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

// WithServiceName adds service.name to attributes
func (m *AppMetrics) WithServiceName(attrs []attribute.KeyValue) []attribute.KeyValue {
	return append(attrs, attribute.String("service.name", m.serviceName))
}

// RecordDBQuery records database query metrics including the SQL statement
func (m *AppMetrics) RecordDBQuery(ctx context.Context, operation, table, statement string, start time.Time, success bool) {
	duration := time.Since(start).Milliseconds()

	status := "success"
	if !success {
		status = "error"
	}

	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
		attribute.String("db.statement", statement),
		attribute.String("db.system", "mysql"),
		attribute.String("status", status),
	}

	m.DBQueriesTotal.Add(ctx, 1, metric.WithAttributes(m.WithServiceName(attrs)...))
	m.DBQueryDuration.Record(ctx, float64(duration), metric.WithAttributes(m.WithServiceName(attrs)...))
}

// parseHeaders parses "key1=value1,key2=value2" into a map; entries without "=" are skipped
func parseHeaders(headerStr string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(headerStr, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers
}
