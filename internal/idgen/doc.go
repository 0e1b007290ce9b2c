// Package idgen generates the opaque string identifiers used for queue
// messages and lifecycle events.  It lives under `internal` so callers never
// depend on the exact format.
package idgen
