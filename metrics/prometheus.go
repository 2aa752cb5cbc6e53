// Package metrics exports sigsock.Socket counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nshafer/sigsock"
)

// Config configures the Prometheus metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "sigsock").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "sigsock",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Prometheus implements sigsock.Metrics.
type Prometheus struct {
	state            *prometheus.GaugeVec
	connectAttempts  prometheus.Counter
	reconnects       prometheus.Counter
	messagesSent     *prometheus.CounterVec
	messagesReceived *prometheus.CounterVec
	heartbeats       prometheus.Counter
	errors           *prometheus.CounterVec
	queueLength      prometheus.Gauge
	droppedMessages  prometheus.Counter
}

var _ sigsock.Metrics = (*Prometheus)(nil)

// New registers the metrics with the configured registry. Registering twice with the same registry panics, as
// promauto does.
func New(opts ...Option) *Prometheus {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Prometheus{
		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "connection_state",
			Help:        "1 for the current connection state, 0 for the others",
			ConstLabels: config.ConstLabels,
		}, []string{"state"}),
		connectAttempts:  counter("connect_attempts_total", "Total number of transports created"),
		reconnects:       counter("reconnects_scheduled_total", "Total number of reconnects scheduled after an unexpected close"),
		messagesSent:     counterVec("messages_sent_total", "Total number of messages written to the transport", "type"),
		messagesReceived: counterVec("messages_received_total", "Total number of messages decoded from the transport", "type"),
		heartbeats:       counter("heartbeats_total", "Total number of keepalive pings sent"),
		errors:           counterVec("errors_total", "Total number of recovered errors", "kind"),
		queueLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_length",
			Help:        "Messages waiting for the connection to open",
			ConstLabels: config.ConstLabels,
		}),
		droppedMessages: counter("dropped_messages_total", "Total number of queued messages dropped because the queue was full"),
	}
}

func (p *Prometheus) SetState(state sigsock.ConnectionState) {
	for _, s := range []sigsock.ConnectionState{sigsock.StateDisconnected, sigsock.StateConnecting, sigsock.StateOpen} {
		v := 0.0
		if s == state {
			v = 1
		}
		p.state.WithLabelValues(s.String()).Set(v)
	}
}

func (p *Prometheus) IncrementConnectAttempts() {
	p.connectAttempts.Inc()
}

func (p *Prometheus) IncrementReconnectsScheduled() {
	p.reconnects.Inc()
}

func (p *Prometheus) IncrementMessagesSent(msgType string) {
	p.messagesSent.WithLabelValues(msgType).Inc()
}

func (p *Prometheus) IncrementMessagesReceived(msgType string) {
	p.messagesReceived.WithLabelValues(msgType).Inc()
}

func (p *Prometheus) IncrementHeartbeats() {
	p.heartbeats.Inc()
}

func (p *Prometheus) IncrementErrors(kind sigsock.ErrorKind) {
	p.errors.WithLabelValues(kind.String()).Inc()
}

func (p *Prometheus) SetQueueLength(n int) {
	p.queueLength.Set(float64(n))
}

func (p *Prometheus) IncrementDroppedMessages() {
	p.droppedMessages.Inc()
}
