package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tashivar/backoffice/pkg/metrics"
)

// MetricsMiddleware records HTTP metrics for each request
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()

		c.Next()

		m.HTTPRequestsInFlight.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

// MetricsEndpoint serves the Prometheus metrics endpoint
func MetricsEndpoint(m *metrics.Metrics) gin.HandlerFunc {
	handler := m.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// BusinessMetrics provides helpers for recording domain-level metrics
type BusinessMetrics struct {
	metrics *metrics.Metrics
}

// NewBusinessMetrics creates a new BusinessMetrics helper
func NewBusinessMetrics(m *metrics.Metrics) *BusinessMetrics {
	return &BusinessMetrics{metrics: m}
}

// RecordOrderCreated records an order creation
func (b *BusinessMetrics) RecordOrderCreated(paymentMethod string) {
	if paymentMethod == "" {
		paymentMethod = "unknown"
	}
	b.metrics.OrdersCreated.WithLabelValues(paymentMethod).Inc()
}

// RecordOrderTransition records a successful state machine transition
func (b *BusinessMetrics) RecordOrderTransition(transition, newStatus string) {
	b.metrics.OrderTransitions.WithLabelValues(transition, newStatus).Inc()
}

// RecordGuardViolation records a rejected transition
func (b *BusinessMetrics) RecordGuardViolation(transition string) {
	b.metrics.GuardViolations.WithLabelValues(transition).Inc()
}

// RecordStockTransaction records a stock ledger entry by type
func (b *BusinessMetrics) RecordStockTransaction(transactionType string) {
	b.metrics.StockTransactions.WithLabelValues(transactionType).Inc()
}

// RecordChallanPayment records a challan payment by resulting status
func (b *BusinessMetrics) RecordChallanPayment(status string) {
	b.metrics.ChallanPayments.WithLabelValues(status).Inc()
}

// RecordCommissionComputed records a commission snapshot computation
func (b *BusinessMetrics) RecordCommissionComputed() {
	b.metrics.CommissionsComputed.Inc()
}

// RecordNotificationEmitted records an emitted notification by type
func (b *BusinessMetrics) RecordNotificationEmitted(notificationType string) {
	b.metrics.NotificationsEmitted.WithLabelValues(notificationType).Inc()
}
