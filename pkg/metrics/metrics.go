package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Upload/download request metrics
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shardmesh_uploads_total",
			Help: "Total number of cluster upload requests by outcome",
		},
		[]string{"outcome"},
	)

	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shardmesh_downloads_total",
			Help: "Total number of cluster download requests by outcome",
		},
		[]string{"outcome"},
	)

	UploadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shardmesh_upload_duration_seconds",
			Help:    "Time taken to verify and persist an uploaded cluster",
			Buckets: prometheus.DefBuckets,
		},
	)

	DownloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shardmesh_download_duration_seconds",
			Help:    "Time taken to serve a shard download",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Recovery path metrics (fast subcoset path vs general path)
	RecoveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shardmesh_recoveries_total",
			Help: "Total number of data recoveries performed by path taken",
		},
		[]string{"path"},
	)

	// Commitment engine metrics
	CommitmentsComputedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shardmesh_commitments_computed_total",
			Help: "Total number of commitments computed for uploaded payloads",
		},
	)

	// Snapshot store metrics
	AllocatorPoolSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shardmesh_allocator_free_slots",
			Help: "Current size of the slot allocator's free pool",
		},
	)

	AllocatorRefcountSum = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shardmesh_allocator_refcount_sum",
			Help: "Sum of all slot reference counts in the allocator",
		},
	)

	NumSlots = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shardmesh_storage_num_slots",
			Help: "Current number of slots in the backing storage file",
		},
	)

	SnapshotsLive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shardmesh_snapshots_live",
			Help: "Number of live snapshots (pending - start + 1)",
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shardmesh_api_requests_total",
			Help: "Total number of API requests by route and status",
		},
		[]string{"route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shardmesh_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(UploadsTotal)
	prometheus.MustRegister(DownloadsTotal)
	prometheus.MustRegister(UploadDuration)
	prometheus.MustRegister(DownloadDuration)
	prometheus.MustRegister(RecoveriesTotal)
	prometheus.MustRegister(CommitmentsComputedTotal)
	prometheus.MustRegister(AllocatorPoolSize)
	prometheus.MustRegister(AllocatorRefcountSum)
	prometheus.MustRegister(NumSlots)
	prometheus.MustRegister(SnapshotsLive)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
