package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	counter     *prometheus.CounterVec //nolint:gochecknoglobals
	counterOnce sync.Once              //nolint:gochecknoglobals
)

// PrometheusHook counts log statements per channel and level.
type PrometheusHook struct {
	channel string
}

// Run implements zerolog.Hook. Level-less audit records count under level "none".
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	name := level.String()
	if level == zerolog.NoLevel {
		name = "none"
	}

	counter.WithLabelValues(h.channel, name).Inc()
}

// NewPrometheusHook registers log_statements_total on first use. The service label
// is fixed by the first caller that names one.
func NewPrometheusHook(service, channel string) PrometheusHook {
	counterOnce.Do(func() {
		counter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_statements_total",
				Help:        "Number of log statements, differentiated by channel and level.",
				ConstLabels: prometheus.Labels{"service": service},
			},
			[]string{"channel", "level"},
		)
	})

	return PrometheusHook{channel: channel}
}
