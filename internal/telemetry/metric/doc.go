// Package metric provides Prometheus metrics for OfChat.
//
// The client records auth flow outcomes and service call latencies and can
// write them to a node-exporter textfile. The dev server records issued
// codes, checks, registrations, logins and HTTP requests and exposes them
// at /metrics.
package metric
