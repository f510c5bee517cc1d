// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OnlinePlayers  prometheus.Gauge
	ActiveRooms    prometheus.Gauge
	EventsReceived prometheus.Counter
	StrokeEvents   prometheus.Counter
	ChatMessages   prometheus.Counter
	EventLatency   prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of connected players",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of active rooms",
		}),
		EventsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Total number of inbound events",
		}),
		StrokeEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stroke_events_total",
			Help:      "Total number of drawing stroke events",
		}),
		ChatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_messages_total",
			Help:      "Total number of chat/guess messages",
		}),
		EventLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_latency_seconds",
			Help:      "Inbound event handling latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.OnlinePlayers,
		m.ActiveRooms,
		m.EventsReceived,
		m.StrokeEvents,
		m.ChatMessages,
		m.EventLatency,
	)

	return m
}

type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	go http.ListenAndServe(addr, nil)
}

func (m *Monitor) IncOnlinePlayers() {
	m.metrics.OnlinePlayers.Inc()
}

func (m *Monitor) DecOnlinePlayers() {
	m.metrics.OnlinePlayers.Dec()
}

func (m *Monitor) SetActiveRooms(count int) {
	m.metrics.ActiveRooms.Set(float64(count))
}

func (m *Monitor) IncEventsReceived() {
	m.metrics.EventsReceived.Inc()
}

func (m *Monitor) IncStrokeEvents() {
	m.metrics.StrokeEvents.Inc()
}

func (m *Monitor) IncChatMessages() {
	m.metrics.ChatMessages.Inc()
}

func (m *Monitor) ObserveEventLatency(duration time.Duration) {
	m.metrics.EventLatency.Observe(duration.Seconds())
}
