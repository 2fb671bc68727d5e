// Package api exposes the transaction wizard over HTTP: search, initiate,
// back, submit, forward schedules, and a health probe reporting collaborator
// breaker states.
package api
