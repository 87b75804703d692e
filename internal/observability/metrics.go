package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nightlife_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CacheLookups counts cache lookups by backend and result (hit, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nightlife_cache_lookups_total",
		Help: "Cache lookups by backend and result",
	}, []string{"backend", "result"})

	// ModerationTransitions counts status transitions applied by moderators.
	ModerationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nightlife_moderation_transitions_total",
		Help: "Moderation transitions by entity kind and outcome",
	}, []string{"kind", "to", "outcome"})

	// SideEffectFailures counts best-effort side effects that failed after a primary write.
	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nightlife_side_effect_failures_total",
		Help: "Failed best-effort side effects (notifications, XP awards, push)",
	}, []string{"effect"})

	// LegacyIDResolutions counts numeric identifier lookups by result.
	LegacyIDResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nightlife_legacy_id_resolutions_total",
		Help: "Legacy numeric identifier resolutions by entity type and result",
	}, []string{"entity_type", "result"})

	// OwnershipRequests counts ownership request lifecycle events.
	OwnershipRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nightlife_ownership_requests_total",
		Help: "Ownership request events by action",
	}, []string{"action"})

	// RateLimitRejections counts requests rejected by the fixed-window limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nightlife_rate_limit_rejections_total",
		Help: "Requests rejected by rate limiting, by resource",
	}, []string{"resource"})

	// DashboardStatsFallbacks counts how often dashboard stats used per-table counts.
	DashboardStatsFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nightlife_dashboard_stats_fallbacks_total",
		Help: "Dashboard stats computations that fell back to individual count queries",
	})
)
