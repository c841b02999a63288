package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics tracks business events: orders placed, status changes and
// authentication outcomes.
type StorefrontMetrics struct {
	ordersCreated  prometheus.Counter
	orderValue     prometheus.Histogram
	statusChanges  *prometheus.CounterVec
	authAttempts   *prometheus.CounterVec
	cartReplaced   prometheus.Counter
	productChanges *prometheus.CounterVec
}

func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	m := &StorefrontMetrics{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agrofix_orders_created_total",
			Help: "Orders placed.",
		}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agrofix_order_value_minor_units",
			Help:    "Order totals in minor currency units.",
			Buckets: prometheus.ExponentialBuckets(1000, 4, 10),
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agrofix_order_status_changes_total",
			Help: "Order status updates by target status.",
		}, []string{"status"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agrofix_auth_attempts_total",
			Help: "Register and login attempts by outcome.",
		}, []string{"action", "outcome"}),
		cartReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agrofix_cart_syncs_total",
			Help: "Server cart replacements.",
		}),
		productChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agrofix_product_changes_total",
			Help: "Catalog mutations by action.",
		}, []string{"action"}),
	}
	reg.MustRegister(m.ordersCreated, m.orderValue, m.statusChanges, m.authAttempts, m.cartReplaced, m.productChanges)
	return m
}

func (m *StorefrontMetrics) OrderCreated(totalAmount int64) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderValue.Observe(float64(totalAmount))
}

func (m *StorefrontMetrics) OrderStatusChanged(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

// AuthAttempt records action ("login", "register") with outcome ("success", "failure").
func (m *StorefrontMetrics) AuthAttempt(action, outcome string) {
	if m == nil || m.authAttempts == nil {
		return
	}
	m.authAttempts.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

func (m *StorefrontMetrics) CartReplaced() {
	if m == nil || m.cartReplaced == nil {
		return
	}
	m.cartReplaced.Inc()
}

func (m *StorefrontMetrics) ProductChanged(action string) {
	if m == nil || m.productChanges == nil {
		return
	}
	m.productChanges.WithLabelValues(normalizeLabel(action)).Inc()
}
