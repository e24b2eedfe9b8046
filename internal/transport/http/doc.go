// Package http exposes the analysis engine over a JSON API: one analyze
// endpoint accepting records plus analyzer configurations, a health probe
// and the Prometheus metrics endpoint. Handlers validate requests with
// struct tags and report per-category configuration failures without
// failing the batch.
package http
