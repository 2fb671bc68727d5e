// Package counterparty resolves the counterparty on a matched record,
// including the fixed pipeline-operator assignment for the transportation
// segment.
package counterparty
