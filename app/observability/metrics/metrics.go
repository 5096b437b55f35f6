package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ParkingLocationsCreated metric.Int64Counter
	ParkingSessionsEnded    metric.Int64Counter
	TimersCreated           metric.Int64Counter
	PaymentIntentsCreated   metric.Int64Counter
	SubscriptionsConfirmed  metric.Int64Counter
	PremiumGateDenied       metric.Int64Counter
	LoginAttempts           metric.Int64Counter
	DbQueryDurationSeconds  metric.Float64Histogram
	DbQueryErrorsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider. Safe to call more than once;
// only the first call has an effect, so the exporter must be installed before it.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("parkpal")
		m := &AppMetrics{}

		m.ParkingLocationsCreated = counter(meter, "parking_locations_created_total", "Parking locations recorded", "{location}")
		m.ParkingSessionsEnded = counter(meter, "parking_sessions_ended_total", "Parking sessions ended by their owner", "{session}")
		m.TimersCreated = counter(meter, "parking_timers_created_total", "Parking timers set", "{timer}")
		m.PaymentIntentsCreated = counter(meter, "payment_intents_created_total", "Payment intents created with the provider", "{intent}")
		m.SubscriptionsConfirmed = counter(meter, "subscriptions_confirmed_total", "Premium subscriptions confirmed", "{subscription}")
		m.PremiumGateDenied = counter(meter, "premium_gate_denied_total", "Requests rejected by the premium gate", "{request}")
		m.LoginAttempts = counter(meter, "login_attempts_total", "Login attempts by outcome", "{attempt}")
		m.DbQueryErrorsTotal = counter(meter, "db_query_errors_total", "Total number of database query errors", "{error}")

		var err error
		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

func counter(meter metric.Meter, name, desc, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		log.Fatalf("Metrics: Failed to create %s: %v", name, err)
	}
	return c
}

// Get returns the instruments, initializing them against the current MeterProvider if needed.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// ObserveQuery records the duration of a query started at start and counts it as an error when err is non-nil.
func ObserveQuery(ctx context.Context, op string, start time.Time, err error) {
	m := Get()
	attrs := metric.WithAttributes(attribute.String("db.operation", op))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
