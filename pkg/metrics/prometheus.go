// Package metrics provides Prometheus metrics for the arcade progression service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	persistBuckets []float64
	httpBuckets    []float64
	registry       prometheus.Registerer

	// Progression
	gamesCompleted       *prometheus.CounterVec
	gamesDuplicate       prometheus.Counter
	resultsNormalized    prometheus.Counter
	xpAwarded            *prometheus.CounterVec
	achievementsUnlocked *prometheus.CounterVec
	playerLevel          prometheus.Gauge
	playerTotalScore     prometheus.Gauge
	playerRank           prometheus.Gauge
	resets               prometheus.Counter

	// Shop and power-ups
	purchases           *prometheus.CounterVec
	powerUpActivations  *prometheus.CounterVec
	powerUpConsumptions *prometheus.CounterVec

	// Persistence
	persistWrites      *prometheus.CounterVec
	persistWarnings    prometheus.Counter
	persistLatency     prometheus.Histogram
	writeQueueSize     prometheus.Gauge
	writeQueueCapacity prometheus.Gauge
	writeQueueDropped  prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	notificationClients prometheus.Gauge
}

// Latency histograms record milliseconds.
var (
	defaultPersistBuckets = prometheus.ExponentialBuckets(0.05, 2, 12) //nolint:gochecknoglobals // 0.05ms .. ~100ms
	defaultHTTPBuckets    = prometheus.ExponentialBuckets(0.25, 2, 14) //nolint:gochecknoglobals // 0.25ms .. ~2s
)

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "arcade",
		subsystem:      "progression",
		persistBuckets: defaultPersistBuckets,
		httpBuckets:    defaultHTTPBuckets,
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.gamesCompleted = m.counterVec("games_completed_total", "Completed mini-game sessions by game id", "game_id")
	m.gamesDuplicate = m.counter("games_duplicate_total", "Game results ignored because the session was already applied")
	m.resultsNormalized = m.counter("results_normalized_total", "Game results with out-of-range fields clamped")
	m.xpAwarded = m.counterVec("xp_awarded_total", "Experience awarded by source", "source")
	m.achievementsUnlocked = m.counterVec("achievements_unlocked_total", "Achievements unlocked by id", "achievement_id")
	m.playerLevel = m.gauge("player_level", "Current player level")
	m.playerTotalScore = m.gauge("player_total_score", "Current spendable lifetime score")
	m.playerRank = m.gauge("player_rank", "Current rank tier ordinal (0 = Bronze)")
	m.resets = m.counter("resets_total", "Explicit progress resets")

	m.purchases = m.counterVec("purchases_total", "Shop purchase attempts by outcome", "outcome")
	m.powerUpActivations = m.counterVec("powerup_activations_total", "Duration power-up activations by kind and outcome", "kind", "outcome")
	m.powerUpConsumptions = m.counterVec("powerup_consumptions_total", "One-shot power-up consumptions by kind and outcome", "kind", "outcome")

	m.persistWrites = m.counterVec("persist_writes_total", "Persistent store writes by outcome", "outcome")
	m.persistWarnings = m.counter("persist_warnings_total", "Engine mutations whose snapshot could not be handed to the store")
	m.persistLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_latency_milliseconds",
		Help:      "Persistent store write latency in milliseconds",
		Buckets:   m.persistBuckets,
	})
	m.writeQueueSize = m.gauge("write_queue_size", "Pending write-behind operations")
	m.writeQueueCapacity = m.gauge("write_queue_capacity", "Write-behind queue capacity")
	m.writeQueueDropped = m.counter("write_queue_dropped_total", "Write-behind operations rejected because the queue was full or closed")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.httpBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.notificationClients = m.gauge("notification_clients", "Connected websocket notification clients")
}

// RecordGameCompleted counts a completed session for gameID.
func RecordGameCompleted(gameID string) {
	globalManager.gamesCompleted.WithLabelValues(gameID).Inc()
}

// RecordGameDuplicate counts an ignored duplicate session.
func RecordGameDuplicate() {
	globalManager.gamesDuplicate.Inc()
}

// RecordResultNormalized counts a clamped game result.
func RecordResultNormalized() {
	globalManager.resultsNormalized.Inc()
}

// RecordXPAwarded adds xp under source ("game" or "achievement").
func RecordXPAwarded(source string, xp int64) {
	if xp > 0 {
		globalManager.xpAwarded.WithLabelValues(source).Add(float64(xp))
	}
}

// RecordAchievementUnlocked counts an unlock.
func RecordAchievementUnlocked(id string) {
	globalManager.achievementsUnlocked.WithLabelValues(id).Inc()
}

// UpdatePlayerGauges publishes the current player snapshot.
func UpdatePlayerGauges(level int, totalScore int64, rankOrdinal int) {
	globalManager.playerLevel.Set(float64(level))
	globalManager.playerTotalScore.Set(float64(totalScore))
	globalManager.playerRank.Set(float64(rankOrdinal))
}

// RecordReset counts an explicit reset.
func RecordReset() {
	globalManager.resets.Inc()
}

// RecordPurchase counts a purchase attempt with outcome ok, insufficient_funds, already_owned or invalid.
func RecordPurchase(outcome string) {
	globalManager.purchases.WithLabelValues(outcome).Inc()
}

// RecordPowerUpActivation counts an activation attempt.
func RecordPowerUpActivation(kind string, ok bool) {
	globalManager.powerUpActivations.WithLabelValues(kind, outcome(ok)).Inc()
}

// RecordPowerUpConsumption counts a one-shot consumption attempt.
func RecordPowerUpConsumption(kind string, ok bool) {
	globalManager.powerUpConsumptions.WithLabelValues(kind, outcome(ok)).Inc()
}

// RecordPersistWrite counts a store write and its latency.
func RecordPersistWrite(ok bool, latencyMs float64) {
	globalManager.persistWrites.WithLabelValues(outcome(ok)).Inc()
	globalManager.persistLatency.Observe(latencyMs)
}

// RecordPersistWarning counts a snapshot the engine failed to hand to the store.
func RecordPersistWarning() {
	globalManager.persistWarnings.Inc()
}

// UpdateWriteQueue publishes write-behind queue depth and capacity.
func UpdateWriteQueue(size, capacity int) {
	globalManager.writeQueueSize.Set(float64(size))
	globalManager.writeQueueCapacity.Set(float64(capacity))
}

// RecordWriteQueueDropped counts a rejected write-behind operation.
func RecordWriteQueueDropped() {
	globalManager.writeQueueDropped.Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateNotificationClients sets the number of connected websocket clients.
func UpdateNotificationClients(n int) {
	globalManager.notificationClients.Set(float64(n))
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "rejected"
}
