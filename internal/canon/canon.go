// Package canon provides canonical JSON serialization and SHA-256 hashing
// helpers shared by every content-addressed artifact in the pipeline
// (contracts, execution plans, evidence graphs, manifests).
//
// "Canonical" here means: map keys sorted, no extraneous whitespace, and a
// stable field order for structs (Go's encoding/json already emits struct
// fields in declaration order, which is sufficient as long as callers don't
// rely on map[string]any for top-level shapes). Sorting of map keys is
// encoding/json's existing behavior for map[string]V; we rely on that
// instead of reimplementing a JSON writer.
package canon

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Marshal produces the canonical JSON encoding of v: compact, with HTML
// escaping disabled so the bytes are stable across encoding/json versions
// that differ only in escaping defaults.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("canon: marshal: %w", err)
	}
	// json.Encoder.Encode appends a trailing newline; trim it so the hash is
	// stable regardless of how the caller concatenates multiple canonical
	// encodings.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MustMarshal is Marshal but panics on error. Reserved for call sites where
// v is a known-good internal type whose encoding cannot fail (no channels,
// funcs, or cyclic structures) — callers at package boundaries should use
// Marshal and propagate the error.
func MustMarshal(v any) []byte {
	b, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// SHA256Hex returns the lowercase hex-encoded SHA-256 digest of b.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// SHA256OfJSON canonically marshals v and returns the hex-encoded SHA-256
// digest of the result. This is the hashing primitive used for
// contract_hash, plan_id, graph_digest, and manifest artifact hashes.
func SHA256OfJSON(v any) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return SHA256Hex(b), nil
}

// SHA256OfReader streams r through SHA-256, for hashing large inputs
// (the plan PDF, the questionnaire monolith) without buffering them fully
// in memory.
func SHA256OfReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("canon: hash reader: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SHA256OfConcat returns the SHA-256 digest of the concatenation of the
// given hex-encoded digests, after sorting them. Used for the evidence
// chain hash.
func SHA256OfConcat(hexDigests []string) string {
	sorted := make([]string, len(hexDigests))
	copy(sorted, hexDigests)
	sort.Strings(sorted)

	h := sha256.New()
	for _, d := range sorted {
		h.Write([]byte(d))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// DeriveSeed derives a deterministic seed for the named RNG from the input
// hash, via HMAC-SHA-256 keyed by the input hash. The RNG name
// is the HMAC message; the returned value is the hex-encoded MAC, truncated
// to 16 bytes (32 hex chars) which callers convert to a numeric seed as
// needed.
func DeriveSeed(inputHashHex, rngName string) string {
	mac := hmac.New(sha256.New, []byte(inputHashHex))
	mac.Write([]byte(rngName))
	sum := mac.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
