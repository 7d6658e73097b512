package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weather_reports"

// Collector holds the pipeline's Prometheus metrics. It satisfies the
// scheduler's Observer and the service's metrics recorder.
type Collector struct {
	weatherFetches  *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	refreshed       prometheus.Gauge
	reports         *prometheus.CounterVec
	emails          *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	jobSkipped      *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		weatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_fetch_total",
			Help:      "Weather provider lookups by result.",
		}, []string{"result"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of weather refresh runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		refreshed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshots_stored",
			Help:      "Snapshots written by the last successful refresh.",
		}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_generated_total",
			Help:      "Report generation attempts by result.",
		}, []string{"result"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Per-recipient email deliveries by status.",
		}, []string{"status"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job executions by job and status.",
		}, []string{"job", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Scheduled job execution time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		jobSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_skipped_total",
			Help:      "Ticks skipped because the previous run was still in flight.",
		}, []string{"job"}),
	}

	reg.MustRegister(
		c.weatherFetches,
		c.refreshDuration,
		c.refreshed,
		c.reports,
		c.emails,
		c.jobRuns,
		c.jobDuration,
		c.jobSkipped,
	)

	return c
}

// RecordFetch counts one provider lookup; result is ok, cached or error.
func (c *Collector) RecordFetch(result string) {
	c.weatherFetches.WithLabelValues(result).Inc()
}

func (c *Collector) RecordRefresh(duration time.Duration, stored int) {
	c.refreshDuration.Observe(duration.Seconds())
	if stored > 0 {
		c.refreshed.Set(float64(stored))
	}
}

func (c *Collector) RecordReport(err error) {
	c.reports.WithLabelValues(status(err, "ok", "error")).Inc()
}

func (c *Collector) RecordEmails(sent, failed int) {
	c.emails.WithLabelValues("sent").Add(float64(sent))
	c.emails.WithLabelValues("failed").Add(float64(failed))
}

func (c *Collector) JobRun(name string, err error, duration time.Duration) {
	c.jobRuns.WithLabelValues(name, status(err, "succeeded", "failed")).Inc()
	c.jobDuration.WithLabelValues(name).Observe(duration.Seconds())
}

func (c *Collector) JobSkipped(name string) {
	c.jobSkipped.WithLabelValues(name).Inc()
}

func status(err error, ok, failed string) string {
	if err != nil {
		return failed
	}
	return ok
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
