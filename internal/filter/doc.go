// Package filter narrows and summarises record sets.
//
// Criteria combine attribute membership tests, a time window and keyword
// queries. Facets and Summarize feed the stats view and the assistant tools.
package filter
