// Package emission holds the closed emission-point variants and their fixed
// daily rate, emission-factor label, and unit price lookups.
package emission
