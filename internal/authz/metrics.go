package authz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	decisions = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Number of authorization decisions, differentiated by outcome and reason.",
		},
		[]string{"outcome", "reason"},
	)

	cacheLookups = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "authz_cache_lookups_total",
			Help: "Number of privilege cache lookups, differentiated by result.",
		},
		[]string{"result"},
	)

	cacheInvalidations = promauto.NewCounter( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "authz_cache_invalidations_total",
			Help: "Number of privilege cache resets caused by writes to the authorization tables.",
		},
	)
)
