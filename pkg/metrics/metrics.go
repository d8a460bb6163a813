package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты бизнес-операций для label "result"
const (
	ResultSuccess  = "success"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передаётся nil.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	SlotMutationsTotal        *prometheus.CounterVec
	ReservationsTotal         *prometheus.CounterVec
	TaskCreationFailuresTotal *prometheus.CounterVec
	AvailabilityRecomputes    *prometheus.CounterVec
	UnknownPricingTotal       *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном регистраторе
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),

		SlotMutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_mutations_total",
			Help:        "Slot editor mutations by operation and result",
			ConstLabels: constLabels,
		}, []string{"op", "result"}),
		ReservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_total",
			Help:        "Booking reservations by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		TaskCreationFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "task_creation_failures_total",
			Help:        "Follow-up tasks that failed to persist after a booking",
			ConstLabels: constLabels,
		}, []string{"type"}),
		AvailabilityRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_recomputes_total",
			Help:        "Next-available shortcut recomputations by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
		UnknownPricingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "unknown_procedure_pricing_total",
			Help:        "Bookings created for procedures missing from the price table",
			ConstLabels: constLabels,
		}, []string{}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.SlotMutationsTotal,
		m.ReservationsTotal,
		m.TaskCreationFailuresTotal,
		m.AvailabilityRecomputes,
		m.UnknownPricingTotal,
	)

	return m
}

// IncSlotMutation учитывает операцию редактора слотов
func (m *Metrics) IncSlotMutation(op, result string) {
	if m == nil {
		return
	}
	m.SlotMutationsTotal.WithLabelValues(op, result).Inc()
}

// IncReservation учитывает попытку бронирования
func (m *Metrics) IncReservation(result string) {
	if m == nil {
		return
	}
	m.ReservationsTotal.WithLabelValues(result).Inc()
}

// IncTaskCreationFailure учитывает задачу, которую не удалось сохранить
func (m *Metrics) IncTaskCreationFailure(taskType string) {
	if m == nil {
		return
	}
	m.TaskCreationFailuresTotal.WithLabelValues(taskType).Inc()
}

// IncAvailabilityRecompute учитывает пересчёт ближайшего свободного слота
func (m *Metrics) IncAvailabilityRecompute(result string) {
	if m == nil {
		return
	}
	m.AvailabilityRecomputes.WithLabelValues(result).Inc()
}

// IncUnknownPricing учитывает бронирование с процедурой вне прайс-листа
func (m *Metrics) IncUnknownPricing() {
	if m == nil {
		return
	}
	m.UnknownPricingTotal.WithLabelValues().Inc()
}
