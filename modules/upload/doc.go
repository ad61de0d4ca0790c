// Package upload assembles the public router: request id and client IP
// middleware, panic recovery, health probes, the ingest endpoint under a
// request timeout and, for single-node deployments, static serving of the
// local upload root.
package upload
