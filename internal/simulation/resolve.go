package simulation

import (
	"fmt"
	"strings"

	"campaign-sim/internal/metrics"
)

// maxCandidates bounds the entity list echoed back on a failed resolution.
const maxCandidates = 10

// matchFunc reports whether a reference identifies an entity.
type matchFunc func(ref string, entity metrics.EntityMetrics) bool

// matchCascade is ordered; the first strategy with a hit wins. New
// strategies slot in without touching the existing ones.
var matchCascade = []matchFunc{
	func(ref string, e metrics.EntityMetrics) bool {
		return e.ID == ref
	},
	func(ref string, e metrics.EntityMetrics) bool {
		return strings.EqualFold(e.Name, ref)
	},
	func(ref string, e metrics.EntityMetrics) bool {
		return strings.Contains(strings.ToLower(e.Name), strings.ToLower(ref))
	},
}

// resolveEntity applies the match cascade over the portfolio.
func resolveEntity(ref string, entities []metrics.EntityMetrics) (metrics.EntityMetrics, bool) {
	if ref == "" {
		return metrics.EntityMetrics{}, false
	}
	for _, match := range matchCascade {
		for i := range entities {
			if match(ref, entities[i]) {
				return entities[i], true
			}
		}
	}
	return metrics.EntityMetrics{}, false
}

// candidateSummary lists up to maxCandidates entities to guide a retry.
func candidateSummary(entities []metrics.EntityMetrics) string {
	limit := len(entities)
	if limit > maxCandidates {
		limit = maxCandidates
	}

	parts := make([]string, 0, limit)
	for _, e := range entities[:limit] {
		parts = append(parts, fmt.Sprintf("%s (%s)", e.ID, e.Name))
	}
	return strings.Join(parts, "; ")
}
