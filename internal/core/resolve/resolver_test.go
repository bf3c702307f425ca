package resolve

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/voicebill/voice-billing-be/internal/core/extract"
)

func testCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Rice", UnitPrice: decimal.NewFromInt(50), GSTPercent: decimal.NewFromInt(5)},
		{ID: 2, Name: "Sugar", UnitPrice: decimal.NewFromInt(40), GSTPercent: decimal.NewFromInt(5)},
		{ID: 3, Name: "Milk", UnitPrice: decimal.NewFromInt(60), GSTPercent: decimal.Zero},
	}
}

func TestResolveExactMatch(t *testing.T) {
	r := NewResolver(DefaultSimilarityThreshold)

	items := []extract.RawLineItem{{Mention: "rice", Quantity: 2, Unit: "kg"}}
	resolved, diags := r.Resolve(items, testCatalog())

	if len(diags) != 0 {
		t.Fatalf("Resolve() diagnostics = %+v, want none", diags)
	}
	if len(resolved) != 1 {
		t.Fatalf("Resolve() resolved = %+v, want one item", resolved)
	}
	got := resolved[0]
	if got.ProductID != 1 || got.ProductName != "Rice" {
		t.Errorf("Resolve() matched %d %q, want 1 Rice", got.ProductID, got.ProductName)
	}
	if !got.UnitPrice.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Resolve() unit price = %s, want 50", got.UnitPrice)
	}
	if !got.Quantity.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Resolve() quantity = %s, want 2", got.Quantity)
	}
}

func TestResolvePluralMatch(t *testing.T) {
	r := NewResolver(DefaultSimilarityThreshold)

	items := []extract.RawLineItem{{Mention: "sugars", Quantity: 1}}
	resolved, diags := r.Resolve(items, testCatalog())

	if len(diags) != 0 || len(resolved) != 1 {
		t.Fatalf("Resolve() = %+v, %+v, want one match and no diagnostics", resolved, diags)
	}
	if resolved[0].ProductID != 2 {
		t.Errorf("Resolve() matched product %d, want 2", resolved[0].ProductID)
	}
}

func TestResolveFuzzyMatch(t *testing.T) {
	r := NewResolver(DefaultSimilarityThreshold)

	// "rce" vs "rice": distance 1 over length 4 gives similarity 0.75
	items := []extract.RawLineItem{{Mention: "rce", Quantity: 1}}
	resolved, diags := r.Resolve(items, testCatalog())

	if len(diags) != 0 || len(resolved) != 1 {
		t.Fatalf("Resolve() = %+v, %+v, want one match and no diagnostics", resolved, diags)
	}
	if resolved[0].ProductID != 1 {
		t.Errorf("Resolve() matched product %d, want 1", resolved[0].ProductID)
	}
}

func TestResolveUnresolvedProduct(t *testing.T) {
	r := NewResolver(DefaultSimilarityThreshold)

	items := []extract.RawLineItem{{Mention: "dragonfruit", Quantity: 1}}
	resolved, diags := r.Resolve(items, testCatalog())

	if len(resolved) != 0 {
		t.Fatalf("Resolve() resolved = %+v, want none", resolved)
	}
	if len(diags) != 1 || diags[0].Kind != DiagUnresolvedProduct || diags[0].Mention != "dragonfruit" {
		t.Errorf("Resolve() diagnostics = %+v, want one unresolved_product for dragonfruit", diags)
	}
}

func TestResolveInvalidQuantity(t *testing.T) {
	r := NewResolver(DefaultSimilarityThreshold)

	items := []extract.RawLineItem{
		{Mention: "rice", Quantity: 0},
		{Mention: "milk", Quantity: -1},
		{Mention: "sugar", Quantity: 1},
	}
	resolved, diags := r.Resolve(items, testCatalog())

	if len(resolved) != 1 || resolved[0].ProductID != 2 {
		t.Fatalf("Resolve() resolved = %+v, want only sugar", resolved)
	}
	if len(diags) != 2 {
		t.Fatalf("Resolve() diagnostics = %+v, want two", diags)
	}
	for _, d := range diags {
		if d.Kind != DiagInvalidQuantity {
			t.Errorf("diagnostic kind = %s, want %s", d.Kind, DiagInvalidQuantity)
		}
	}
}

func TestResolveTieBreaksByLowestID(t *testing.T) {
	r := NewResolver(DefaultSimilarityThreshold)

	// "team" and "beam" are both distance 1 from "ream"; catalog arrives
	// unsorted, lowest id must still win.
	catalog := []Product{
		{ID: 9, Name: "beam", UnitPrice: decimal.NewFromInt(10)},
		{ID: 4, Name: "team", UnitPrice: decimal.NewFromInt(20)},
	}
	items := []extract.RawLineItem{{Mention: "ream", Quantity: 1}}
	resolved, diags := r.Resolve(items, catalog)

	if len(diags) != 0 || len(resolved) != 1 {
		t.Fatalf("Resolve() = %+v, %+v, want one match", resolved, diags)
	}
	if resolved[0].ProductID != 4 {
		t.Errorf("Resolve() matched product %d, want 4 (lowest id on tie)", resolved[0].ProductID)
	}
}

func TestResolveFreezesSnapshotPrices(t *testing.T) {
	r := NewResolver(DefaultSimilarityThreshold)

	catalog := testCatalog()
	items := []extract.RawLineItem{{Mention: "milk", Quantity: 1}}
	resolved, _ := r.Resolve(items, catalog)

	// Mutating the snapshot afterwards must not change the resolved line
	catalog[2].UnitPrice = decimal.NewFromInt(999)

	if len(resolved) != 1 {
		t.Fatalf("Resolve() resolved = %+v, want one item", resolved)
	}
	if !resolved[0].UnitPrice.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Resolve() unit price = %s, want frozen 60", resolved[0].UnitPrice)
	}
}

func TestNewResolverRejectsBadThreshold(t *testing.T) {
	for _, bad := range []float64{-1, 0, 1.5} {
		r := NewResolver(bad)
		if r.threshold != DefaultSimilarityThreshold {
			t.Errorf("NewResolver(%g) threshold = %g, want default %g", bad, r.threshold, DefaultSimilarityThreshold)
		}
	}
}
