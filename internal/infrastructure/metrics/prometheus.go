// Package metrics métricas Prometheus: requests HTTP y contadores de negocio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/pos-backoffice/internal/application/ports"
)

const namespace = "pos"

var _ ports.BusinessMetrics = (*Metrics)(nil)

// Metrics registro propio (no el global) con todas las métricas de la API.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	salesTotal     prometheus.Counter
	saleItemsTotal prometheus.Counter
	purchasesTotal prometheus.Counter
	movementsTotal *prometheus.CounterVec
	negativeStock  prometheus.Counter
	loginAttempts  *prometheus.CounterVec
}

// New crea el registro e incluye los collectors de runtime y proceso.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		salesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_recorded_total",
			Help:      "Ventas registradas.",
		}),
		saleItemsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_items_total",
			Help:      "Líneas de venta registradas.",
		}),
		purchasesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_recorded_total",
			Help:      "Compras registradas.",
		}),
		movementsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Movimientos de stock por tipo.",
		}, []string{"type"}),
		negativeStock: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "negative_stock_total",
			Help:      "Movimientos que dejaron stock negativo.",
		}),
		loginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Intentos de login por resultado.",
		}, []string{"result"}),
	}
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry acceso directo (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveRequest registra un request ya respondido. route es el patrón (no el path real).
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) SaleRecorded(items int) {
	m.salesTotal.Inc()
	m.saleItemsTotal.Add(float64(items))
}

func (m *Metrics) PurchaseRecorded(int) { m.purchasesTotal.Inc() }

func (m *Metrics) StockMovement(movementType string) {
	m.movementsTotal.WithLabelValues(movementType).Inc()
}

func (m *Metrics) NegativeStock() { m.negativeStock.Inc() }

func (m *Metrics) LoginAttempt(result string) {
	m.loginAttempts.WithLabelValues(result).Inc()
}
