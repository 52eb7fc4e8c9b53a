package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking and payment
// workflows. All methods are nil-safe so wiring stays optional in tests.
type BookingMetrics struct {
	bookingsTotal        *prometheus.CounterVec
	paymentsTotal        *prometheus.CounterVec
	notificationsTotal   *prometheus.CounterVec
	reconciliationGaps   prometheus.Counter
	bookingLatency       prometheus.Histogram
	gatewayLatency       prometheus.Histogram
}

// NewBookingMetrics registers the workflow metrics on reg (default registerer
// when nil).
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arogya",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"status"}),
		paymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arogya",
			Subsystem: "payments",
			Name:      "attempts_total",
			Help:      "Payment attempts by outcome",
		}, []string{"status"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arogya",
			Subsystem: "notify",
			Name:      "sends_total",
			Help:      "Outbound confirmation messages by outcome",
		}, []string{"status"}),
		reconciliationGaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arogya",
			Subsystem: "payments",
			Name:      "reconciliation_gaps_total",
			Help:      "Successful charges whose local bookkeeping needs manual reconciliation",
		}),
		bookingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arogya",
			Subsystem: "booking",
			Name:      "latency_seconds",
			Help:      "Latency of the booking workflow",
			Buckets:   prometheus.DefBuckets,
		}),
		gatewayLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "arogya",
			Subsystem: "payments",
			Name:      "gateway_latency_seconds",
			Help:      "Latency of external payment gateway calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.bookingsTotal,
		m.paymentsTotal,
		m.notificationsTotal,
		m.reconciliationGaps,
		m.bookingLatency,
		m.gatewayLatency,
	)
	return m
}

// ObserveBooking counts a booking attempt outcome (confirmed, conflict, error).
func (m *BookingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

// ObservePayment counts a payment attempt outcome (success, declined, error).
func (m *BookingMetrics) ObservePayment(status string) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(status).Inc()
}

// ObserveNotification counts a confirmation send outcome (sent, failed, skipped).
func (m *BookingMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(status).Inc()
}

// ObserveReconciliationGap counts a post-charge bookkeeping failure.
func (m *BookingMetrics) ObserveReconciliationGap() {
	if m == nil {
		return
	}
	m.reconciliationGaps.Inc()
}

// ObserveBookingLatency records one booking workflow duration.
func (m *BookingMetrics) ObserveBookingLatency(seconds float64) {
	if m == nil {
		return
	}
	m.bookingLatency.Observe(seconds)
}

// ObserveGatewayLatency records one payment gateway round trip.
func (m *BookingMetrics) ObserveGatewayLatency(seconds float64) {
	if m == nil {
		return
	}
	m.gatewayLatency.Observe(seconds)
}
