// Package api is the HTTP transport to the Calistrack REST backend.
//
// Every request carries the cached access token as a Bearer credential.
// A 401 or 403 response fires the registered auth-expired callback once
// and is returned to the caller as an *HTTPError; nothing is retried.
package api
