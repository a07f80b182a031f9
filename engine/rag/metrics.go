package rag

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuary_rag_queries_total",
		Help: "Questions run through the retrieval pipeline.",
	})
	queryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuary_rag_query_failures_total",
		Help: "Queries that failed at embed, search or completion.",
	})
	contextsReturned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuary_rag_contexts_total",
		Help: "Context blocks selected by the allocator.",
	})
	fallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuary_rag_fallback_total",
		Help: "Allocations that used the below-floor fallback pass.",
	})
)
