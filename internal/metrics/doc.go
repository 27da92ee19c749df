// Package metrics records splice run metrics.
//
// Components take a Recorder and default to NoopRecorder, so metrics stay optional
// without nil checks at call sites. PrometheusRecorder registers its collectors on a
// caller-supplied registry. A splice run exits long before a scrape, so the registry
// is exported with WriteTextfile for the node exporter textfile collector.
package metrics
