package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loginsight_events_ingested_total",
		Help: "Total number of logon events written to the archive.",
	})

	EventsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loginsight_events_pruned_total",
		Help: "Total number of logon events removed by retention.",
	})

	MalformedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loginsight_malformed_records_total",
		Help: "Total number of records skipped because the field payload failed to decode.",
	})

	ReportRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loginsight_report_requests_total",
		Help: "Total number of login report queries, labelled by outcome.",
	}, []string{"status"})

	ReportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "loginsight_report_duration_ms",
		Help:    "Fetch-to-aggregate latency of a login report query in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loginsight_exports_total",
		Help: "Total number of report exports, labelled by format.",
	}, []string{"format"})
)
