package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "showcase", Name: "http_requests_total", Help: "Processed API requests",
	}, []string{"route", "method", "code"})
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "showcase", Name: "http_request_duration_seconds", Help: "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "showcase", Name: "handler_errors_total", Help: "Handler errors (5xx)",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "showcase", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
	ReportsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "showcase", Name: "reports_generated_total", Help: "Generated certificates and exports",
	}, []string{"kind", "result"})
	ImageFetchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "showcase", Name: "image_fetch_failures_total", Help: "Images that could not be loaded into a certificate",
	})
	SummaryCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "showcase", Name: "summary_cache_total", Help: "Judging summary cache lookups",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(Requests, RequestDuration, HandlerErrors, DBPing, ReportsGenerated, ImageFetchFailures, SummaryCache)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveRequest(route, method string, code int, d time.Duration) {
	Requests.WithLabelValues(route, method, http.StatusText(code)).Inc()
	RequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func ReportDone(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ReportsGenerated.WithLabelValues(kind, result).Inc()
}
