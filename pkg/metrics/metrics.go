package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the chat core.
type Metrics struct {
	// Audio ingestion
	DecodeFailures        prometheus.Counter
	TranscriptionRequests prometheus.Counter
	TranscriptionFailures prometheus.Counter
	TranscriptionDuration prometheus.Histogram

	// Model calls
	ModelRequests prometheus.Counter
	ModelFailures prometheus.Counter
	ModelDuration prometheus.Histogram

	// Persistence
	SessionSaves prometheus.Counter
	SaveFailures prometheus.Counter
}

// New creates and registers all metrics against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DecodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "artifyai_decode_failures_total",
			Help: "Total number of audio decode failures",
		}),
		TranscriptionRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "artifyai_transcription_requests_total",
			Help: "Total number of transcription requests",
		}),
		TranscriptionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "artifyai_transcription_failures_total",
			Help: "Total number of failed transcription requests",
		}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "artifyai_transcription_duration_seconds",
			Help:    "Transcription request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		ModelRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "artifyai_model_requests_total",
			Help: "Total number of model invocations",
		}),
		ModelFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "artifyai_model_failures_total",
			Help: "Total number of failed model invocations",
		}),
		ModelDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "artifyai_model_duration_seconds",
			Help:    "Model invocation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		SessionSaves: factory.NewCounter(prometheus.CounterOpts{
			Name: "artifyai_session_saves_total",
			Help: "Total number of transcript saves",
		}),
		SaveFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "artifyai_session_save_failures_total",
			Help: "Total number of failed transcript saves",
		}),
	}
}
