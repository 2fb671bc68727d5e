// Package schedule computes the monthly delivery dates of forward
// transactions under the 60-day post-flow delivery rule.
package schedule
