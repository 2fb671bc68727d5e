// Package client holds the typed HTTP clients for the engine's external
// collaborators (eligibility, inventory, transfer), each guarded by a named
// circuit breaker with jittered retry on the submission path.
package client
