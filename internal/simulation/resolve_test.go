package simulation

import (
	"strings"
	"testing"

	"campaign-sim/internal/metrics"
)

func TestResolveEntityCascadeOrder(t *testing.T) {
	entities := []metrics.EntityMetrics{
		{ID: "brand", Name: "Search campaign"},
		{ID: "c2", Name: "brand"},
		{ID: "c3", Name: "Brand awareness"},
	}

	// An exact ID hit wins over a name that matches the same reference.
	got, ok := resolveEntity("brand", entities)
	if !ok || got.ID != "brand" {
		t.Fatalf("expected ID match to win, got %+v ok=%v", got, ok)
	}

	// Exact name match is case-insensitive and beats substring. The ID
	// strategy does not fold case, so "BRAND" skips past the "brand" ID.
	got, ok = resolveEntity("BRAND", entities)
	if !ok || got.ID != "c2" {
		t.Fatalf("expected case-insensitive name match, got %+v", got)
	}
	got, ok = resolveEntity("Search Campaign", entities)
	if !ok || got.ID != "brand" {
		t.Fatalf("expected case-insensitive name match, got %+v ok=%v", got, ok)
	}

	// Substring is the last resort.
	got, ok = resolveEntity("awareness", entities)
	if !ok || got.ID != "c3" {
		t.Fatalf("expected substring match, got %+v ok=%v", got, ok)
	}

	if _, ok := resolveEntity("video", entities); ok {
		t.Fatal("no match expected for an unrelated reference")
	}
	if _, ok := resolveEntity("", entities); ok {
		t.Fatal("an empty reference must never resolve")
	}
}

func TestCandidateSummaryCap(t *testing.T) {
	var entities []metrics.EntityMetrics
	for i := 0; i < 15; i++ {
		entities = append(entities, metrics.EntityMetrics{
			ID:   string(rune('a' + i)),
			Name: "Campaign",
		})
	}

	summary := candidateSummary(entities)
	if n := strings.Count(summary, ";") + 1; n != maxCandidates {
		t.Fatalf("expected %d candidates listed, got %d: %s", maxCandidates, n, summary)
	}
}
