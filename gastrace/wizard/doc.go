// Package wizard drives the gated transaction flow: search criteria feed
// match generation, an eligibility gate guards review and submission, and a
// closed step enum makes invalid jumps impossible to express.
package wizard
