/*
Package metrics provides Prometheus metrics collection and exposition for
the storage node and validator.

Metrics are registered at package init. Handler returns the Prometheus
exposition handler; no server in this module mounts it, so nothing serves
these metrics over HTTP.

# Metrics Catalog

Upload/download path:
  - shardmesh_uploads_total{outcome}, shardmesh_downloads_total{outcome}: Counter
  - shardmesh_upload_duration_seconds, shardmesh_download_duration_seconds: Histogram

Recovery and commitment engine:
  - shardmesh_recoveries_total{path}: Counter, path is "subcoset" or "general"
  - shardmesh_commitments_computed_total: Counter

Snapshot store (sampled on a 15s ticker by Collector):
  - shardmesh_allocator_free_slots: Gauge
  - shardmesh_allocator_refcount_sum: Gauge
  - shardmesh_storage_num_slots: Gauge
  - shardmesh_snapshots_live: Gauge

API surface:
  - shardmesh_api_requests_total{route, status}: Counter
  - shardmesh_api_request_duration_seconds{route}: Histogram

# Usage

	collector := metrics.NewCollector(store)
	collector.Start()
	defer collector.Stop()

	timer := metrics.NewTimer()
	// ... handle upload ...
	timer.ObserveDuration(metrics.UploadDuration)
	metrics.UploadsTotal.WithLabelValues("ok").Inc()

	http.Handle("/metrics", metrics.Handler())
*/
package metrics
