package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wethinkt/go-molty/internal/activity"
)

var (
	statusPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "molty",
		Subsystem: "status",
		Name:      "polls_total",
		Help:      "Status polls, by reported state.",
	}, []string{"state"})

	logBytesReadTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "molty",
		Subsystem: "status",
		Name:      "log_bytes_read_total",
		Help:      "Log bytes consumed by the incremental reader.",
	})

	logSessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "molty",
		Subsystem: "status",
		Name:      "log_sessions_total",
		Help:      "Times the log cursor was reset to a new or truncated file.",
	})

	logReadErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "molty",
		Subsystem: "status",
		Name:      "log_read_errors_total",
		Help:      "Failed log reads.",
	})

	statsLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "molty",
		Subsystem: "stats",
		Name:      "lookups_total",
		Help:      "Stats lookups, by cache result (hit or miss).",
	}, []string{"result"})

	statsComputeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "molty",
		Subsystem: "stats",
		Name:      "compute_seconds",
		Help:      "Time spent recomputing repository stats on a cache miss.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	projectsListed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "molty",
		Subsystem: "catalog",
		Name:      "projects",
		Help:      "Projects in the journal at the last /api/projects request.",
	})
)

func recordPoll(p activity.Poll) {
	statusPollsTotal.WithLabelValues(string(p.Snapshot.State)).Inc()
	logBytesReadTotal.Add(float64(p.BytesRead))
	if p.Reset {
		logSessionsTotal.Inc()
	}
	if p.Err != nil {
		logReadErrorsTotal.Inc()
	}
}

func recordStatsLookup(cached bool, took time.Duration) {
	if cached {
		statsLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	statsLookupsTotal.WithLabelValues("miss").Inc()
	statsComputeSeconds.Observe(took.Seconds())
}
