package telemetry

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
)

// PrometheusExporter exports a Collector's metrics in Prometheus text
// format. No third-party Prometheus client is used; the text format is
// simple enough that generating it directly with fmt keeps the dependency
// list honest about what closetctl actually needs.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a new Prometheus exporter for the given
// collector. The namespace is prepended to all metric names (e.g. "closet").
func NewPrometheusExporter(c *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{
		collector: c,
		namespace: namespace,
	}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		e.WriteMetrics(w)
	})
}

// WriteMetrics writes all metrics in Prometheus text format to the writer.
func (e *PrometheusExporter) WriteMetrics(w io.Writer) {
	snap := e.collector.Snapshot()
	labels := e.formatLabels(snap.Labels)

	// --- Drawer lifecycle ---
	e.writeHelp(w, "drawers_created_total", "Total drawers created")
	e.writeType(w, "drawers_created_total", "counter")
	e.writeMetric(w, "drawers_created_total", labels, float64(snap.DrawersCreated))

	e.writeHelp(w, "drawers_opened_total", "Total drawers opened")
	e.writeType(w, "drawers_opened_total", "counter")
	e.writeMetric(w, "drawers_opened_total", labels, float64(snap.DrawersOpened))

	e.writeHelp(w, "drawers_closed_total", "Total drawers closed")
	e.writeType(w, "drawers_closed_total", "counter")
	e.writeMetric(w, "drawers_closed_total", labels, float64(snap.DrawersClosed))

	e.writeHelp(w, "saves_completed_total", "Total close_and_save calls completed")
	e.writeType(w, "saves_completed_total", "counter")
	e.writeMetric(w, "saves_completed_total", labels, float64(snap.SavesCompleted))

	e.writeHelp(w, "slots_grown_total", "Total slot-array growth events")
	e.writeType(w, "slots_grown_total", "counter")
	e.writeMetric(w, "slots_grown_total", labels, float64(snap.SlotsGrown))

	// --- Security-relevant rejections ---
	e.writeHelp(w, "duplicate_passphrase_rejections_total", "Total duplicate-passphrase rejections")
	e.writeType(w, "duplicate_passphrase_rejections_total", "counter")
	e.writeMetric(w, "duplicate_passphrase_rejections_total", labels, float64(snap.DuplicatePassphraseRejections))

	e.writeHelp(w, "wrong_passphrase_attempts_total", "Total open attempts that matched no slot")
	e.writeType(w, "wrong_passphrase_attempts_total", "counter")
	e.writeMetric(w, "wrong_passphrase_attempts_total", labels, float64(snap.WrongPassphraseAttempts))

	// --- Error metrics ---
	e.writeHelp(w, "aead_errors_total", "Total AEAD seal/open failures")
	e.writeType(w, "aead_errors_total", "counter")
	e.writeMetric(w, "aead_errors_total", labels, float64(snap.AeadErrors))

	e.writeHelp(w, "corrupt_file_errors_total", "Total corrupt-file errors")
	e.writeType(w, "corrupt_file_errors_total", "counter")
	e.writeMetric(w, "corrupt_file_errors_total", labels, float64(snap.CorruptFileErrors))

	e.writeHelp(w, "unsupported_version_errors_total", "Total unsupported-format-version errors")
	e.writeType(w, "unsupported_version_errors_total", "counter")
	e.writeMetric(w, "unsupported_version_errors_total", labels, float64(snap.UnsupportedVersionErrors))

	e.writeHelp(w, "io_errors_total", "Total filesystem errors")
	e.writeType(w, "io_errors_total", "counter")
	e.writeMetric(w, "io_errors_total", labels, float64(snap.IoErrors))

	e.writeHelp(w, "internal_errors_total", "Total internal errors")
	e.writeType(w, "internal_errors_total", "counter")
	e.writeMetric(w, "internal_errors_total", labels, float64(snap.InternalErrors))

	// --- Uptime ---
	e.writeHelp(w, "uptime_seconds", "Time since the collector was created")
	e.writeType(w, "uptime_seconds", "gauge")
	e.writeMetric(w, "uptime_seconds", labels, snap.Uptime.Seconds())

	// --- Histograms ---
	e.writeHistogram(w, "kdf_derive_duration_milliseconds", "Key derivation duration in milliseconds", labels, snap.KDFLatency)
	e.writeHistogram(w, "aead_seal_duration_microseconds", "AEAD seal duration in microseconds", labels, snap.SealLatency)
	e.writeHistogram(w, "aead_open_duration_microseconds", "AEAD open duration in microseconds", labels, snap.OpenLatency)
}

// writeHelp writes a HELP line.
func (e *PrometheusExporter) writeHelp(w io.Writer, name, help string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n", e.namespace, name, help)
}

// writeType writes a TYPE line.
func (e *PrometheusExporter) writeType(w io.Writer, name, typ string) {
	fmt.Fprintf(w, "# TYPE %s_%s %s\n", e.namespace, name, typ)
}

// writeMetric writes a single metric line.
func (e *PrometheusExporter) writeMetric(w io.Writer, name, labels string, value float64) {
	if labels != "" {
		fmt.Fprintf(w, "%s_%s{%s} %g\n", e.namespace, name, labels, value)
	} else {
		fmt.Fprintf(w, "%s_%s %g\n", e.namespace, name, value)
	}
}

// writeHistogram writes a histogram in Prometheus format.
func (e *PrometheusExporter) writeHistogram(w io.Writer, name, help, labels string, h HistogramSummary) {
	e.writeHelp(w, name, help)
	e.writeType(w, name, "histogram")

	fullName := e.namespace + "_" + name

	for _, b := range h.Buckets {
		le := fmt.Sprintf("%g", b.UpperBound)
		if math.IsInf(b.UpperBound, 1) {
			le = "+Inf"
		}
		if labels != "" {
			fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", fullName, labels, le, b.Count)
		} else {
			fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", fullName, le, b.Count)
		}
	}

	if labels != "" {
		fmt.Fprintf(w, "%s_sum{%s} %g\n", fullName, labels, h.Sum)
		fmt.Fprintf(w, "%s_count{%s} %d\n", fullName, labels, h.Count)
	} else {
		fmt.Fprintf(w, "%s_sum %g\n", fullName, h.Sum)
		fmt.Fprintf(w, "%s_count %d\n", fullName, h.Count)
	}
}

// formatLabels converts Labels to Prometheus label format.
func (e *PrometheusExporter) formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := escapePromValue(labels[k])
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", k, v))
	}

	return strings.Join(parts, ",")
}

// escapePromValue escapes a string for use as a Prometheus label value.
func escapePromValue(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// --- Convenience Functions ---

// ServePrometheus starts an HTTP server serving Prometheus metrics on addr.
// Used by closetctl's --metrics-addr flag.
func ServePrometheus(addr string, c *Collector, namespace string) error {
	exp := NewPrometheusExporter(c, namespace)
	mux := http.NewServeMux()
	mux.Handle("/metrics", exp.Handler())
	return newHTTPServer(addr, mux).ListenAndServe()
}
