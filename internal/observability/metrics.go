package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "famenet_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SubmissionsTotal counts post submissions by publication outcome.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "famenet_submissions_total",
		Help: "Total number of post submissions by outcome",
	}, []string{"outcome"})

	// VetoesTotal counts publications blocked by author reputation.
	VetoesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "famenet_publication_vetoes_total",
		Help: "Total number of publications vetoed by prior negative fame",
	})

	// DemotionsTotal counts fame level demotions.
	DemotionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "famenet_fame_demotions_total",
		Help: "Total number of fame level demotions",
	})

	// BansTotal counts users banned by the reputation engine.
	BansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "famenet_bans_total",
		Help: "Total number of users banned",
	})

	// EvictionsTotal counts automatic community evictions.
	EvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "famenet_community_evictions_total",
		Help: "Total number of automatic community evictions",
	})
)
