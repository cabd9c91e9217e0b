package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LLMLatencyMS records wall-clock latency of language model calls in
// milliseconds, successful or not. Scraped via GET /metrics.
var LLMLatencyMS = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "llm_latency_ms",
	Help:    "Latency of LLM calls (ms)",
	Buckets: []float64{50, 100, 200, 400, 800, 1600, 3200, 6400},
})

// ObserveLLM feeds one LLM call duration into the latency histogram.
func ObserveLLM(ms float64) {
	LLMLatencyMS.Observe(ms)
}
