package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/livefeed/core/broadcast"
	"github.com/dmitrymomot/livefeed/core/generator"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "livefeed"

// StatsSource reports broadcaster state. *broadcast.Broadcaster[T] satisfies it.
type StatsSource interface {
	Stats() broadcast.Stats
}

// StatusSource reports generator state. *generator.Generator satisfies it.
type StatusSource interface {
	Status() generator.Status
}

// Collector exports broadcaster and generator snapshots on every scrape.
// Either source may be nil.
type Collector struct {
	queue StatsSource
	gen   StatusSource

	queueSize     *prometheus.Desc
	queueCapacity *prometheus.Desc
	subscribers   *prometheus.Desc
	published     *prometheus.Desc
	evicted       *prometheus.Desc
	handlerErrors *prometheus.Desc
	genRunning    *prometheus.Desc
	genInterval   *prometheus.Desc
}

// NewCollector builds a collector. An empty namespace uses DefaultNamespace.
func NewCollector(namespace string, queue StatsSource, gen StatusSource) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil)
	}

	return &Collector{
		queue:         queue,
		gen:           gen,
		queueSize:     desc("queue_size", "Messages currently held in the replay backlog."),
		queueCapacity: desc("queue_capacity", "Maximum number of messages held in the replay backlog."),
		subscribers:   desc("subscribers", "Currently registered subscribers."),
		published:     desc("messages_published_total", "Messages published since start."),
		evicted:       desc("messages_evicted_total", "Messages dropped from the backlog to make room."),
		handlerErrors: desc("handler_errors_total", "Subscriber handler errors and panics."),
		genRunning:    desc("generator_running", "1 when the periodic generator is running."),
		genInterval:   desc("generator_interval_seconds", "Generator tick interval; 0 when stopped."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	if c.queue != nil {
		ch <- c.queueSize
		ch <- c.queueCapacity
		ch <- c.subscribers
		ch <- c.published
		ch <- c.evicted
		ch <- c.handlerErrors
	}
	if c.gen != nil {
		ch <- c.genRunning
		ch <- c.genInterval
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.queue != nil {
		s := c.queue.Stats()
		ch <- prometheus.MustNewConstMetric(c.queueSize, prometheus.GaugeValue, float64(s.QueueSize))
		ch <- prometheus.MustNewConstMetric(c.queueCapacity, prometheus.GaugeValue, float64(s.Capacity))
		ch <- prometheus.MustNewConstMetric(c.subscribers, prometheus.GaugeValue, float64(s.SubscriberCount))
		ch <- prometheus.MustNewConstMetric(c.published, prometheus.CounterValue, float64(s.Published))
		ch <- prometheus.MustNewConstMetric(c.evicted, prometheus.CounterValue, float64(s.Evicted))
		ch <- prometheus.MustNewConstMetric(c.handlerErrors, prometheus.CounterValue, float64(s.HandlerErrors))
	}
	if c.gen != nil {
		st := c.gen.Status()
		running := 0.0
		if st.Running {
			running = 1
		}
		ch <- prometheus.MustNewConstMetric(c.genRunning, prometheus.GaugeValue, running)
		ch <- prometheus.MustNewConstMetric(c.genInterval, prometheus.GaugeValue, float64(st.IntervalMs)/1000)
	}
}
