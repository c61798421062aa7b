// Package backup reads and writes the local-backup file format: a UTF-8 JSON
// document whose top-level value is an array of date-key strings.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"inoffice/internal/domain/datekey"
)

// MaxEntries caps the number of date keys a backup document may carry.
const MaxEntries = 10000

// Import modes accepted by the repository's bulk import.
const (
	ModeReplace = "replace"
	ModeMerge   = "merge"
)

// Domain errors.
var (
	ErrNotArray       = errors.New("backup must be a JSON array of date strings")
	ErrTooManyEntries = fmt.Errorf("backup exceeds %d entries", MaxEntries)
	ErrInvalidMode    = errors.New("import mode must be 'replace' or 'merge'")
)

// Prototype-pollution key names. A well-formed backup never contains objects,
// but a hostile document might; these keys are stripped during parse so they
// can never be applied by any consumer of the parsed value.
var strippedKeys = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// ValidMode reports whether mode is an accepted import mode.
func ValidMode(mode string) bool {
	return mode == ModeReplace || mode == ModeMerge
}

// Parse reads a backup document and returns its date keys in document order.
// The whole batch is rejected on the first invalid entry — a backup is
// imported fully or not at all. Duplicates are preserved here; deduplication
// is the set/repository contract.
// PRE: r yields a UTF-8 JSON document
// POST: Returns ≤ MaxEntries keys, every one a real calendar date
func Parse(r io.Reader) ([]string, error) {
	dec := json.NewDecoder(r)
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("backup is not valid JSON: %w", err)
	}
	doc = sanitize(doc)

	entries, ok := doc.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	if len(entries) > MaxEntries {
		return nil, ErrTooManyEntries
	}

	keys := make([]string, 0, len(entries))
	for i, entry := range entries {
		s, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("entry %d: %w", i, ErrNotArray)
		}
		if _, _, _, err := datekey.Decode(s); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, s, err)
		}
		keys = append(keys, s)
	}
	return keys, nil
}

// Write serializes date keys as a backup document. Keys are sorted so the
// exported file is stable across runs.
func Write(w io.Writer, keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	enc := json.NewEncoder(w)
	return enc.Encode(sorted)
}

// sanitize walks a decoded JSON value and drops stripped keys from every
// object, at any depth.
func sanitize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			if strippedKeys[k] {
				delete(val, k)
				continue
			}
			val[k] = sanitize(inner)
		}
		return val
	case []any:
		for i, inner := range val {
			val[i] = sanitize(inner)
		}
		return val
	default:
		return v
	}
}
