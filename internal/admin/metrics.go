package admin

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality (no per-player labels), matching the
// teacher's internal/api/observability.go texture.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gameloop_tick_duration_seconds",
		Help:    "Time spent advancing the simulation one tick",
		Buckets: []float64{0.0005, 0.001, 0.002, 0.005, 0.01, 0.02},
	})

	sessionCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "session_count",
		Help: "Current number of UDP sessions",
	})

	playerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "player_count",
		Help: "Current number of active players",
	})

	messagesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messages_dropped_total",
		Help: "Client messages dropped by the game loop",
	}, []string{"reason"}) // bounded: "replay", "rate_limit", "capacity"
)

// RecordTick records tick timing for metrics.
func RecordTick(d time.Duration) { tickDuration.Observe(d.Seconds()) }

// UpdateSessionCount updates the session gauge.
func UpdateSessionCount(n int) { sessionCount.Set(float64(n)) }

// UpdatePlayerCount updates the player gauge.
func UpdatePlayerCount(n int) { playerCount.Set(float64(n)) }

// RecordMessageDropped increments the drop counter for reason, one of
// "replay", "rate_limit", "capacity".
func RecordMessageDropped(reason string) { messagesDropped.WithLabelValues(reason).Inc() }
