package batch

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/andrew-torda/mmtf_read/pkg/mmtf"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics counts what a Decoder did.
type Metrics struct {
	decoded  *prometheus.CounterVec
	errs     *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics registers the counters on reg. Pass a fresh
// prometheus.NewRegistry() in tests so they do not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		decoded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmtf_structures_decoded_total",
				Help: "Structures decoded, by outcome",
			},
			[]string{"status"},
		),
		errs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmtf_decode_errors_total",
				Help: "Failed structures, by kind of error",
			},
			[]string{"kind"},
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mmtf_decode_seconds",
				Help:    "Time to load and decode one structure",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) record(err error, seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
	if err == nil {
		m.decoded.WithLabelValues(statusSuccess).Inc()
		return
	}
	m.decoded.WithLabelValues(statusError).Inc()
	m.errs.WithLabelValues(ErrKind(err)).Inc()
}

// ErrKind names the sort of error for the kind label.
func ErrKind(err error) string {
	var (
		missing     *mmtf.MissingFieldError
		corrupt     *mmtf.CorruptDataError
		unsupported *mmtf.UnsupportedCodecError
		consumer    *mmtf.ConsumerError
	)
	switch {
	case errors.As(err, &missing):
		return "missing_field"
	case errors.As(err, &unsupported):
		return "unsupported_codec"
	case errors.As(err, &corrupt):
		return "corrupt_data"
	case errors.As(err, &consumer):
		return "consumer"
	}
	return "input"
}
