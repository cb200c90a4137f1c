package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса.
// Все методы записи безопасны для nil-получателя: если метрики выключены,
// можно передавать nil и ничего не проверять в вызывающем коде.
type Metrics struct {
	registry    *prometheus.Registry
	serviceName string

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	// Бизнес-метрики
	BookingsCreatedTotal  *prometheus.CounterVec
	WalletMovementsTotal  *prometheus.CounterVec
	WalletMovementsAmount *prometheus.CounterVec
	SlotResolutionsTotal  *prometheus.CounterVec
}

// New создает метрики в собственном реестре
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry:    registry,
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation", "status"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections to the database",
		}, []string{"service"}),

		DBInUseConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		BookingsCreatedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total number of created bookings",
		}, []string{"service", "payment_method", "status"}),

		WalletMovementsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_movements_total",
			Help: "Total number of business wallet movements",
		}, []string{"service", "kind"}),

		WalletMovementsAmount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_movements_amount_minor_total",
			Help: "Sum of business wallet movements in minor currency units",
		}, []string{"service", "kind"}),

		SlotResolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_resolutions_total",
			Help: "Total number of availability resolutions by outcome",
		}, []string{"service", "outcome"}),
	}
}

// Handler HTTP handler для эндпоинта /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation, status).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.serviceName).Set(float64(open))
	m.DBInUseConnections.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues(m.serviceName).Set(float64(idle))
	m.DBWaitCount.WithLabelValues(m.serviceName).Set(float64(waitCount))
}

// ObserveBookingCreated увеличивает счетчик созданных бронирований
func (m *Metrics) ObserveBookingCreated(paymentMethod, status string) {
	if m == nil {
		return
	}
	m.BookingsCreatedTotal.WithLabelValues(m.serviceName, paymentMethod, status).Inc()
}

// ObserveWalletMovement записывает движение по кошельку бизнеса
func (m *Metrics) ObserveWalletMovement(kind string, amountMinor int64) {
	if m == nil {
		return
	}
	if amountMinor < 0 {
		amountMinor = -amountMinor
	}
	m.WalletMovementsTotal.WithLabelValues(m.serviceName, kind).Inc()
	m.WalletMovementsAmount.WithLabelValues(m.serviceName, kind).Add(float64(amountMinor))
}

// ObserveSlotResolution увеличивает счетчик расчетов слотов по исходу
func (m *Metrics) ObserveSlotResolution(outcome string) {
	if m == nil {
		return
	}
	m.SlotResolutionsTotal.WithLabelValues(m.serviceName, outcome).Inc()
}
