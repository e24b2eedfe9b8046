// Package config loads the application's settings: HTTP server and logging
// parameters plus the survey-analysis document (days-per-year multiplier,
// per-category brand/workload header layouts, per-category test prices).
//
// Settings come from an optional YAML file overlaid with SURVEY_-prefixed
// environment variables. Invalid or partially-specified documents fall back
// to the built-in defaults per piece rather than failing the run: a single
// malformed category keeps every other category usable.
package config
