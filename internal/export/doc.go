// Package export writes record sets as CSV or plain text.
package export
