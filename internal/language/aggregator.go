// Package language aggregates repository language statistics into a
// per-user distribution.
package language

import (
	"fmt"

	"github.com/devrank/devrank/internal/github"
)

// Totals maps language name to byte count summed across repositories
type Totals map[string]int64

// Percentages maps language name to a formatted share of total bytes,
// e.g. "70.00%"
type Percentages map[string]string

// Aggregate sums byte counts per language across repositories.
// Nil entries (repositories whose language fetch failed) are skipped.
func Aggregate(maps []github.LanguageBytes) Totals {
	totals := make(Totals)
	for _, m := range maps {
		if m == nil {
			continue
		}
		for lang, bytes := range m {
			totals[lang] += bytes
		}
	}
	return totals
}

// ToPercentages converts totals to percentage strings with two decimal
// digits. A zero grand total yields an empty map. Percentages are
// rounded independently and need not sum to exactly 100.00.
func ToPercentages(totals Totals) Percentages {
	var grandTotal int64
	for _, bytes := range totals {
		grandTotal += bytes
	}

	percentages := make(Percentages)
	if grandTotal == 0 {
		return percentages
	}

	for lang, bytes := range totals {
		share := float64(bytes) * 100 / float64(grandTotal)
		percentages[lang] = fmt.Sprintf("%.2f%%", share)
	}
	return percentages
}
