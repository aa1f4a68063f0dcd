package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel NFC-normalizes a genre or tag, trims it and collapses inner whitespace.
// "  Science\tFiction " -> "Science Fiction".
func NormalizeLabel(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeSet normalizes every label, drops empty ones and removes case-insensitive
// duplicates keeping the first occurrence. The result is never nil.
func NormalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = NormalizeLabel(v)
		if v == "" {
			continue
		}
		key := FoldKey(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// FoldKey returns a case-folded, NFC-normalized key for case-insensitive comparison.
func FoldKey(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// ContainsFold reports whether substr is within s, ignoring case.
// An empty substr always matches.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(FoldKey(s), FoldKey(substr))
}

// AnyEqualFold reports whether any of values equals target ignoring case.
func AnyEqualFold(values []string, target string) bool {
	key := FoldKey(target)
	for _, v := range values {
		if FoldKey(v) == key {
			return true
		}
	}
	return false
}

// Collator compares strings in human order, ignoring case ("apple" < "Banana").
// A Collator is not safe for concurrent use; create one per sort.
type Collator struct {
	c *collate.Collator
}

// NewCollator returns a case-insensitive collator for the root locale.
func NewCollator() *Collator {
	return &Collator{c: collate.New(language.Und, collate.IgnoreCase)}
}

// Compare returns -1, 0 or 1.
func (c *Collator) Compare(a, b string) int {
	return c.c.CompareString(a, b)
}
