package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attachmentUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attachment_uploads_total",
		Help: "Attachment uploads by record kind, role and outcome.",
	}, []string{"kind", "role", "outcome"})

	doiCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doi_cache_hits_total",
		Help: "DOI lookups served from the cache.",
	})

	doiCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doi_cache_misses_total",
		Help: "DOI lookups forwarded to the registry.",
	})
)
