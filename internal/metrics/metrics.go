package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flowy"

// Recorder owns the Prometheus collectors for the HTTP surface and the
// accrual engine. Each Recorder has its own registry so tests can build
// isolated instances.
type Recorder struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	tokensAwarded        *prometheus.CounterVec
	tokenEntries         *prometheus.CounterVec
	achievementsUnlocked *prometheus.CounterVec
	rewardsRedeemed      *prometheus.CounterVec
	usageRejected        *prometheus.CounterVec
	jobRuns              *prometheus.CounterVec
	jobDuration          *prometheus.HistogramVec
}

func New() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		tokensAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "tokens_total",
			Help:      "Sum of FLWY token amounts appended to the ledger, by source.",
		}, []string{"source"}),
		tokenEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "entries_total",
			Help:      "Number of ledger entries appended, by source.",
		}, []string{"source"}),
		achievementsUnlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "achievements",
			Name:      "unlocked_total",
			Help:      "Number of achievements unlocked.",
		}, []string{"achievement"}),
		rewardsRedeemed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "redeemed_total",
			Help:      "Number of rewards redeemed, by category.",
		}, []string{"category"}),
		usageRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "usage",
			Name:      "rejected_total",
			Help:      "Number of usage increments rejected by plan limits.",
		}, []string{"feature"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Number of background job runs.",
		}, []string{"job", "success"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Duration of background job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}, []string{"job"}),
	}

	recorder.registry.MustRegister(
		recorder.httpInFlight,
		recorder.httpRequests,
		recorder.httpDuration,
		recorder.tokensAwarded,
		recorder.tokenEntries,
		recorder.achievementsUnlocked,
		recorder.rewardsRedeemed,
		recorder.usageRejected,
		recorder.jobRuns,
		recorder.jobDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return recorder
}

func (recorder *Recorder) Registry() *prometheus.Registry {
	return recorder.registry
}

// Handler exposes the registry in the Prometheus text format.
func (recorder *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(recorder.registry, promhttp.HandlerOpts{})
}

func (recorder *Recorder) TokensAwarded(source string, amount int64) {
	recorder.tokenEntries.WithLabelValues(source).Inc()
	if amount > 0 {
		recorder.tokensAwarded.WithLabelValues(source).Add(float64(amount))
	}
}

func (recorder *Recorder) AchievementUnlocked(name string) {
	recorder.achievementsUnlocked.WithLabelValues(name).Inc()
}

func (recorder *Recorder) RewardRedeemed(category string) {
	if category == "" {
		category = "uncategorized"
	}
	recorder.rewardsRedeemed.WithLabelValues(category).Inc()
}

func (recorder *Recorder) UsageRejected(feature string) {
	recorder.usageRejected.WithLabelValues(feature).Inc()
}

// ObserveJob records one background job run.
func (recorder *Recorder) ObserveJob(job string, duration time.Duration, err error) {
	recorder.jobRuns.WithLabelValues(job, strconv.FormatBool(err == nil)).Inc()
	recorder.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// Middleware records request counts and latency by route pattern.
func (recorder *Recorder) Middleware(metricsPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == metricsPath {
			return c.Next()
		}

		start := time.Now()
		recorder.httpInFlight.Inc()
		defer recorder.httpInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		recorder.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		recorder.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
