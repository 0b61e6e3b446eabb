package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amc_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amc_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HandlerPanics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amc_http_handler_panics_total",
		Help: "Handler panics caught by the recovery middleware.",
	})
)

// AMC domain
var (
	CustomerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amc_customer_mutations_total",
		Help: "Customer create/rename/delete operations that succeeded.",
	}, []string{"op"})

	BranchMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amc_branch_mutations_total",
		Help: "Branch create/rename/delete operations that succeeded.",
	}, []string{"op"})

	QuartersCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amc_quarters_completed_total",
		Help: "Quarter completion requests applied, including idempotent repeats.",
	})

	BreakdownsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amc_breakdowns_recorded_total",
		Help: "Breakdown service records appended.",
	})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amc_uploads_total",
		Help: "Service sheet uploads by kind and outcome.",
	}, []string{"kind", "outcome"})

	UploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "amc_upload_duration_seconds",
		Help:    "Time spent uploading service sheets.",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	RejectedOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amc_rejected_operations_total",
		Help: "Operations refused with a typed error, by kind.",
	}, []string{"kind"})

	NoticesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amc_notices_dropped_total",
		Help: "Notices dropped because the dispatch buffer was full.",
	})

	NavSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "amc_navigation_sessions",
		Help: "Admin navigation sessions held in memory.",
	})
)

// Portfolio gauges, refreshed by services.PortfolioCollector
var (
	PortfolioCustomers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "amc_portfolio_customers",
		Help: "AMC customers in the directory.",
	})

	PortfolioBranches = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "amc_portfolio_branches",
		Help: "Branches across all customers.",
	})

	PortfolioQuartersCompleted = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "amc_portfolio_quarters_completed",
		Help: "Branches with each quarter (1-4) completed.",
	}, []string{"quarter"})
)
