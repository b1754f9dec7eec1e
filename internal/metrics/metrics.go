package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaizen_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kaizen_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SeatLocksAcquiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaizen_seat_locks_acquired_total",
			Help: "Total number of seat lock acquisitions",
		},
		[]string{"outcome"},
	)

	SeatLocksConfirmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kaizen_seat_locks_confirmed_total",
			Help: "Total number of seat locks converted to registrations",
		},
	)

	SeatLocksReleasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kaizen_seat_locks_released_total",
			Help: "Total number of seat locks explicitly released",
		},
	)

	SeatLocksExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kaizen_seat_locks_expired_total",
			Help: "Total number of seat locks reaped after expiry",
		},
	)

	LedgerPostsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaizen_ledger_posts_total",
			Help: "Total number of ledger batch posts",
		},
		[]string{"status"},
	)

	WheelSpinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaizen_wheel_spins_total",
			Help: "Total number of reward wheel spins",
		},
		[]string{"prize_type"},
	)

	VoucherRedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaizen_voucher_redemptions_total",
			Help: "Total number of voucher redemptions",
		},
		[]string{"status"},
	)

	TierPurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kaizen_tier_purchases_total",
			Help: "Total number of tier unlock purchases",
		},
	)

	FulfillmentQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kaizen_fulfillment_queue_length",
			Help: "Current length of the fulfillment queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordSeatLockAcquire(outcome string) {
	SeatLocksAcquiredTotal.WithLabelValues(outcome).Inc()
}

func RecordSeatLockConfirm() {
	SeatLocksConfirmedTotal.Inc()
}

func RecordSeatLockRelease() {
	SeatLocksReleasedTotal.Inc()
}

func RecordSeatLocksExpired(n int) {
	SeatLocksExpiredTotal.Add(float64(n))
}

func RecordLedgerPost(status string) {
	LedgerPostsTotal.WithLabelValues(status).Inc()
}

func RecordWheelSpin(prizeType string) {
	WheelSpinsTotal.WithLabelValues(prizeType).Inc()
}

func RecordVoucherRedemption(status string) {
	VoucherRedemptionsTotal.WithLabelValues(status).Inc()
}

func RecordTierPurchase() {
	TierPurchasesTotal.Inc()
}
