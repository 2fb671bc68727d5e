// Package gastrace contains the shared domain primitives of the gas-trace
// matching engine: the domain error taxonomy and the business error envelope
// returned at service boundaries.
//
// Subpackages hold the engine itself: contract (identifier validation),
// emission (per-point rates and pricing), counterparty (resolution policy),
// eac (matched-record synthesis), schedule (forward delivery dates), and
// wizard (the gated transaction state machine).
package gastrace
