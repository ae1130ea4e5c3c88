// Package telemetry holds the prometheus metrics of the calibrate HTTP host.
package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwbudde/algo-chemometrics/calib"
)

// Training outcomes used as the "outcome" label.
const (
	OutcomeOK               = "ok"
	OutcomeInsufficientData = "insufficient_data"
	OutcomeInvalidParameter = "invalid_parameter"
	OutcomeNotFound         = "not_found"
	OutcomeFailed           = "failed"
)

// Metrics is a private registry plus the collectors registered in it.
type Metrics struct {
	registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	RequestTime   *prometheus.HistogramVec
	TrainRuns     *prometheus.CounterVec
	TrainDuration prometheus.Histogram
	Spectra       prometheus.Gauge
	Models        prometheus.Gauge
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calibrate_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		RequestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "calibrate_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		TrainRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calibrate_train_runs_total",
			Help: "Training runs by outcome.",
		}, []string{"outcome"}),
		TrainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "calibrate_train_duration_seconds",
			Help:    "Duration of successful training runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		Spectra: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "calibrate_spectra_loaded",
			Help: "Spectra in the session pool.",
		}),
		Models: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "calibrate_models_trained",
			Help: "Components with a trained model.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests, m.RequestTime, m.TrainRuns, m.TrainDuration, m.Spectra, m.Models,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(method, route string, code int, start time.Time) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.RequestTime.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// ObserveTrain records a training attempt that returned err.
func (m *Metrics) ObserveTrain(err error, start time.Time) {
	outcome := Outcome(err)
	m.TrainRuns.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.TrainDuration.Observe(time.Since(start).Seconds())
	}
}

// Outcome classifies a training error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, calib.ErrInsufficientData):
		return OutcomeInsufficientData
	case errors.Is(err, calib.ErrInvalidParameter), errors.Is(err, calib.ErrInvalidInputLength):
		return OutcomeInvalidParameter
	case errors.Is(err, calib.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeFailed
	}
}
