// Package recurrence translates the canonical domain.RecurrenceRule to and
// from the two provider-native encodings: the RFC 5545 RRULE string used by
// Google Calendar and the pattern/range JSON structure used by Microsoft
// Graph.
//
// Both translations are deterministic and lossy-aware. The Graph direction
// deliberately collapses multi-value byMonthDay/byMonth to their first
// element on write because the native structure supports at most one of
// each; Graph never carries more than one on read, so no inverse is needed.
package recurrence
