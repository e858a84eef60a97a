package observer

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "label_inspector"

// MetricsObserver exports analysis events as Prometheus metrics on its own registry.
type MetricsObserver struct {
	registry *prometheus.Registry

	analysesTotal    *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	stageDuration    *prometheus.HistogramVec
	fetchesTotal     *prometheus.CounterVec
	analyzerFailures *prometheus.CounterVec
	qualityScore     prometheus.Histogram
}

// NewMetricsObserver creates the collectors and registers them, together
// with the Go runtime and process collectors, on a fresh registry.
func NewMetricsObserver() *MetricsObserver {
	o := &MetricsObserver{
		registry: prometheus.NewRegistry(),
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Label analyses by outcome",
			},
			[]string{"outcome"},
		),
		analysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "End to end label analysis duration",
				Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
			},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each pipeline stage",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2.5, 10),
			},
			[]string{"stage"},
		),
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "image_fetches_total",
				Help:      "Remote image fetches by result",
			},
			[]string{"result"},
		),
		analyzerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyzer_failures_total",
				Help:      "Semantic analyzer calls that ended in a failure result",
			},
			[]string{"reason"},
		),
		qualityScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "image_quality_score",
				Help:      "Advisory image quality score of analysed labels",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}

	o.registry.MustRegister(
		o.analysesTotal,
		o.analysisDuration,
		o.stageDuration,
		o.fetchesTotal,
		o.analyzerFailures,
		o.qualityScore,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return o
}

// OnEvent updates the collectors for the event
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	switch event.EventType {
	case AnalysisCompleted:
		o.analysesTotal.WithLabelValues("completed").Inc()
		o.analysisDuration.Observe(event.ProcessingTime.Seconds())
		if score, ok := event.Metadata["quality_score"].(float64); ok {
			o.qualityScore.Observe(score)
		}
	case AnalysisFailed:
		o.analysesTotal.WithLabelValues("failed").Inc()
	case StageCompleted:
		o.stageDuration.WithLabelValues(string(event.Stage)).Observe(event.ProcessingTime.Seconds())
	case AnalyzerUnavailable:
		reason, _ := event.Metadata["reason"].(string)
		if reason == "" {
			reason = "error"
		}
		o.analyzerFailures.WithLabelValues(reason).Inc()
	case ImageFetched:
		o.fetchesTotal.WithLabelValues("success").Inc()
	case ImageFetchFailed:
		o.fetchesTotal.WithLabelValues("error").Inc()
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Registry exposes the registry backing this observer
func (o *MetricsObserver) Registry() *prometheus.Registry {
	return o.registry
}

// Handler serves the registry in the Prometheus exposition format
func (o *MetricsObserver) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}
