package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix leaves
// room for a future encoding change.
const (
	DomainRun    = "autodual/run/v1"
	DomainResult = "autodual/result/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data). The separator keeps
// the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ResultHash returns the content hash of a canonical result snapshot.
func ResultHash(result any) (string, error) {
	canonical, err := Marshal(result)
	if err != nil {
		return "", fmt.Errorf("ResultHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

// RunID identifies one evaluation of a scenario: the same scenario producing
// the same result always maps to the same ID, so re-recording a run is
// idempotent.
func RunID(scenario string, result any) (string, error) {
	canonical, err := Marshal(map[string]any{
		"scenario": scenario,
		"result":   result,
	})
	if err != nil {
		return "", fmt.Errorf("RunID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}

// MustRunID is like RunID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRunID(scenario string, result any) string {
	id, err := RunID(scenario, result)
	if err != nil {
		panic(err)
	}
	return id
}
