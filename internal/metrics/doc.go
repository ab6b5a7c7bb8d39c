// Package metrics records pipeline run and stage metrics with the Prometheus
// client and exports them as a node_exporter textfile.
package metrics
