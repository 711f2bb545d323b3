// Package cleaner normalizes parsed records before persistence. It is an
// explicit, independently testable transform: output cardinality is always
// less than or equal to input cardinality.
package cleaner

import (
	"fmt"
	"strings"

	"momo-insights/internal/parser"
)

// Clean normalizes a batch of parsed records and drops invalid ones.
// Rules: trim and collapse whitespace, map literal "null" attribute values
// to empty, drop records with a non-positive amount or zero timestamp, and
// drop exact duplicates within the batch (backups often overlap).
func Clean(records []parser.Record) []parser.Record {
	cleaned := make([]parser.Record, 0, len(records))
	seen := make(map[string]bool, len(records))

	for _, r := range records {
		r.Counterparty = normalizeField(r.Counterparty)
		r.Body = strings.TrimSpace(r.Body)

		if r.Amount <= 0 || r.OccurredAt.IsZero() {
			continue
		}

		signature := fmt.Sprintf("%d|%s", r.OccurredAt.UnixMilli(), r.Body)
		if seen[signature] {
			continue
		}
		seen[signature] = true

		cleaned = append(cleaned, r)
	}
	return cleaned
}

func normalizeField(s string) string {
	s = strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}
