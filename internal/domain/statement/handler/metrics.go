package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "statement_files_processed_total",
		Help: "Number of statement files standardized successfully.",
	})
	filesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "statement_files_failed_total",
		Help: "Number of statement files that failed to standardize.",
	})
)
