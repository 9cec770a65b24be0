package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters exported on /metrics. Registered once at init via promauto.
var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wordquest",
		Name:      "sessions_started_total",
		Help:      "Quiz sessions successfully initialized.",
	})

	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wordquest",
		Name:      "sessions_completed_total",
		Help:      "Quiz sessions that reached the result screen.",
	})

	QuestionFetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wordquest",
		Name:      "question_fetch_retries_total",
		Help:      "Retries scheduled by the question batch fetcher.",
	})

	AnswersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wordquest",
		Name:      "answers_submitted_total",
		Help:      "Answer submissions, labeled by evaluation outcome.",
	}, []string{"correct"})

	ProgressFlushFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wordquest",
		Name:      "progress_flush_failures_total",
		Help:      "Best-effort progress flushes that failed.",
	})
)
