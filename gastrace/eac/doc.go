// Package eac synthesizes matched Environmental Attribute Certificate
// records for a contract search: per-point volume and pricing, synthetic
// ids, counterparty resolution, and the optional thermal-offset record for
// carbon-neutral orders.
package eac
