package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtd_store_commits_total",
			Help: "Total number of session saves that reached the database",
		},
		[]string{"result"}, // ok, error
	)

	CommitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gtd_store_commit_duration_seconds",
			Help:    "Duration of session save transactions",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	CommittedChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtd_store_changes_total",
			Help: "Total number of committed row changes",
		},
		[]string{"kind", "op"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtd_store_queries_total",
			Help: "Total number of entity queries",
		},
		[]string{"kind", "result"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gtd_store_query_duration_seconds",
			Help:    "Duration of entity queries",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"kind"},
	)
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func trackCommit(cs ChangeSet, start time.Time, err error) {
	CommitDuration.Observe(time.Since(start).Seconds())
	CommitsTotal.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	for kind, ids := range cs.Inserted {
		CommittedChanges.WithLabelValues(string(kind), "insert").Add(float64(len(ids)))
	}
	for kind, ids := range cs.Updated {
		CommittedChanges.WithLabelValues(string(kind), "update").Add(float64(len(ids)))
	}
	for kind, ids := range cs.Deleted {
		CommittedChanges.WithLabelValues(string(kind), "delete").Add(float64(len(ids)))
	}
}

func trackQuery(kind Kind, start time.Time, err error) {
	QueryDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	QueriesTotal.WithLabelValues(string(kind), result(err)).Inc()
}
