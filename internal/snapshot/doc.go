// Package snapshot produces the canonical JSON encoding of evaluation
// results and the content hash that identifies a stored run.
//
// The encoding follows RFC 8785: object keys sorted by UTF-16 code units,
// strings NFC-normalized and not HTML-escaped, numbers in their shortest
// round-trippable form. Two evaluations that produce the same numbers
// therefore produce byte-identical snapshots, which is what golden files
// and the run history compare.
//
// Unlike general JSON, null and non-finite numbers are rejected: a NaN
// derivative is a finding to report, not a value to store.
package snapshot
