package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records gateway call outcomes and payout transitions.
type PaymentMetrics struct {
	gatewayDuration *prometheus.HistogramVec
	gatewaySuccess  *prometheus.CounterVec
	gatewayFailure  *prometheus.CounterVec
	payoutMoves     *prometheus.CounterVec
	ordersCreated   prometheus.Counter
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "Duration of payment gateway calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"gateway", "operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_request_success",
		Help: "Successful payment gateway calls.",
	}, []string{"gateway", "operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_request_failure",
		Help: "Failed payment gateway calls.",
	}, []string{"gateway", "operation"})
	payoutMoves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payout_transitions",
		Help: "Payout state machine transitions.",
	}, []string{"to_status"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_materialized",
		Help: "Orders created from verified gateway charges.",
	})
	reg.MustRegister(duration, success, failure, payoutMoves, ordersCreated)
	return &PaymentMetrics{
		gatewayDuration: duration,
		gatewaySuccess:  success,
		gatewayFailure:  failure,
		payoutMoves:     payoutMoves,
		ordersCreated:   ordersCreated,
	}
}

// ObserveGateway records one gateway call.
func (m *PaymentMetrics) ObserveGateway(gateway, operation string, duration time.Duration, err error) {
	if m == nil || m.gatewayDuration == nil {
		return
	}
	gateway = normalizeLabel(gateway)
	operation = normalizeLabel(operation)
	m.gatewayDuration.WithLabelValues(gateway, operation).Observe(duration.Seconds())
	if err != nil {
		m.gatewayFailure.WithLabelValues(gateway, operation).Inc()
		return
	}
	m.gatewaySuccess.WithLabelValues(gateway, operation).Inc()
}

// IncPayoutTransition counts one payout status change.
func (m *PaymentMetrics) IncPayoutTransition(toStatus string) {
	if m == nil || m.payoutMoves == nil {
		return
	}
	m.payoutMoves.WithLabelValues(normalizeLabel(toStatus)).Inc()
}

// IncOrderMaterialized counts one new order.
func (m *PaymentMetrics) IncOrderMaterialized() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
