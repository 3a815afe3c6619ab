package services

import "github.com/prometheus/client_golang/prometheus"

var (
	badgesAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Badges awarded, by category",
		},
		[]string{"category"},
	)
	holidaysStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "holidays_started_total",
			Help: "Holiday periods started",
		},
	)
	streakSaversUsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streak_savers_used_total",
			Help: "Streak savers consumed",
		},
	)
)

// InitMetrics registers the engine metrics. Call this from main.go
func InitMetrics() {
	prometheus.MustRegister(badgesAwarded)
	prometheus.MustRegister(holidaysStarted)
	prometheus.MustRegister(streakSaversUsed)
}
