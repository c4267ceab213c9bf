// Package services wraps the HTTP transport with one service per backend
// resource. Services shape requests and decode responses; they never retry
// and leave session bookkeeping to the session package.
package services
