// Package apitest provides an in-memory Calistrack REST backend served over
// httptest. It issues signed tokens, enforces ownership and the
// exercise-in-use conflict, and counts requests per route so tests can
// assert on the traffic a client produced.
package apitest
