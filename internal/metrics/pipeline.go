package metrics

import "github.com/prometheus/client_golang/prometheus"

// Analysis pipeline Prometheus metrics.
var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tenderlens",
			Name:      "analyses_total",
			Help:      "Total number of analysis pipeline runs by outcome",
		},
		[]string{"outcome"}, // "success" / "generation_error" / "parse_error"
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tenderlens",
			Name:      "generation_requests_total",
			Help:      "Total number of generation backend requests",
		},
		[]string{"model", "status"},
	)

	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tenderlens",
			Name:      "generation_duration_seconds",
			Help:      "Generation backend request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)

	ParseRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tenderlens",
			Name:      "parse_retries_total",
			Help:      "Total number of stricter-prompt retries after a parse failure",
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers the pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(ParseRetriesTotal)
	pipelineMetricsRegistered = true
}
