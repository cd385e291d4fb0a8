// Package server holds the process-level plumbing of a daybook instance:
// the shared ServerContext (registry, account store, voice sessions,
// metrics, logger, shutdown lifecycle), Kubernetes-style health probes, and
// the dedicated Prometheus metrics listener.
package server
