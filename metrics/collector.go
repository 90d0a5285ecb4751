package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vortex-fintech/contactform/form"
)

const namespace = "contactform"

// Collector counts form activity. It implements form.Observer and
// prometheus.Collector, so one value can be passed to form.WithObserver and
// to Options.Collectors.
type Collector struct {
	recomputes  *prometheus.CounterVec
	sanitized   *prometheus.CounterVec
	resets      prometheus.Counter
	selections  *prometheus.CounterVec
	detections  *prometheus.CounterVec
	descriptors []prometheus.Collector
}

var _ form.Observer = (*Collector)(nil)

func NewCollector() *Collector {
	c := &Collector{
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recompute_total",
			Help:      "Validation state recomputations by overall validity.",
		}, []string{"valid"}),
		sanitized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phone_sanitized_total",
			Help:      "Phone edits by whether sanitizing changed the input.",
		}, []string{"changed"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prefix_reset_total",
			Help:      "Phone edits that removed the dial prefix and were reset.",
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "country_selected_total",
			Help:      "Country selections by ISO2 code.",
		}, []string{"country"}),
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detection_total",
			Help:      "Country detection runs by outcome.",
		}, []string{"result"}),
	}
	c.descriptors = []prometheus.Collector{c.recomputes, c.sanitized, c.resets, c.selections, c.detections}
	return c
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.descriptors {
		m.Describe(ch)
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.descriptors {
		m.Collect(ch)
	}
}

func (c *Collector) Recomputed(s form.State) {
	c.recomputes.WithLabelValues(strconv.FormatBool(s.IsValid)).Inc()
}

func (c *Collector) PhoneSanitized(changed bool) {
	c.sanitized.WithLabelValues(strconv.FormatBool(changed)).Inc()
}

func (c *Collector) PrefixReset() { c.resets.Inc() }

func (c *Collector) CountrySelected(iso2 string) {
	if iso2 == "" {
		iso2 = "none"
	}
	c.selections.WithLabelValues(iso2).Inc()
}

func (c *Collector) DetectionFinished(result string) {
	c.detections.WithLabelValues(result).Inc()
}
