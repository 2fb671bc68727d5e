// Package contract validates pipeline contract identifiers and derives their
// canonical (prefixed) and clean (unprefixed) forms.
package contract
