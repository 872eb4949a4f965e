package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalPagesCrawled tracks pages fetched, extracted, and persisted.
	TotalPagesCrawled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nirobo_pages_crawled_total",
		Help: "The total number of pages successfully extracted and persisted.",
	})
	// TotalPagesFailed tracks pages whose fetch or extraction failed.
	TotalPagesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nirobo_pages_failed_total",
		Help: "The total number of pages that failed to fetch or extract.",
	})
	// TotalLinksSkipped tracks link candidates rejected by the frontier.
	TotalLinksSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nirobo_links_skipped_total",
		Help: "The total number of discovered links rejected by frontier policy.",
	})
	// TotalLinksEnqueued tracks discovered links admitted for crawling.
	TotalLinksEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nirobo_links_enqueued_total",
		Help: "The total number of discovered links admitted by the frontier.",
	})
	// TotalRecordsMerged tracks records accepted by the store merge.
	TotalRecordsMerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nirobo_records_merged_total",
		Help: "The total number of records merged into the persisted collection.",
	})
)
