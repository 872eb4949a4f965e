package enrich

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalTranslationCalls tracks detect+translate round trips dispatched.
	TotalTranslationCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nirobo_translation_calls_total",
		Help: "The total number of translation calls dispatched, including retries.",
	})
	// TotalTranslationRetries tracks calls retried after a transient failure.
	TotalTranslationRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nirobo_translation_retries_total",
		Help: "The total number of translation retries after transient failures.",
	})
)
