// Package stats defines the counters a Coordinator keeps about requests it
// has seen: how many were submitted, granted immediately, deferred, granted
// after consent, denied or cancelled.
package stats
