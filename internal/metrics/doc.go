// Package metrics records what each sync run changed.
//
// Components receive a Recorder and default to NoopRecorder, so nothing has
// to check for nil. PrometheusRecorder keeps counters in a registry and can
// dump them in the Prometheus text format to a file that node_exporter's
// textfile collector picks up; a build-time tool has no long-lived process
// to scrape.
package metrics
