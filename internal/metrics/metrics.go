package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LettersSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "findmyrep_letters_sent_total",
		Help: "Letters delivered by a transport",
	}, []string{"transport"})
	LettersFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "findmyrep_letters_failed_total",
		Help: "Letters a transport failed to deliver",
	}, []string{"transport"})
	Dispatches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "findmyrep_dispatches_total",
		Help: "Dispatched batches by outcome (complete, partial, failed)",
	}, []string{"outcome"})
	DispatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "findmyrep_dispatch_seconds",
		Help: "Time to deliver a full batch of letters",
	})
)

func init() {
	prometheus.MustRegister(
		LettersSent,
		LettersFailed,
		Dispatches,
		DispatchDuration,
	)
}
