package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"

	"github.com/voicebill/voice-billing-be/internal/core/extract"
)

// DefaultSimilarityThreshold is the minimum normalized similarity a fuzzy
// match must reach before a mention binds to a catalog product.
const DefaultSimilarityThreshold = 0.72

// Product is an immutable catalog snapshot entry
type Product struct {
	ID         uint
	Name       string
	UnitPrice  decimal.Decimal
	GSTPercent decimal.Decimal
}

// ResolvedLineItem binds a product mention to a catalog entry. UnitPrice and
// GSTPercent are frozen at resolution time; later catalog edits must not
// affect an in-flight bill.
type ResolvedLineItem struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"name"`
	Mention     string          `json:"mention"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	GSTPercent  decimal.Decimal `json:"gst_percent"`
}

type DiagnosticKind string

const (
	DiagUnresolvedProduct DiagnosticKind = "unresolved_product"
	DiagInvalidQuantity   DiagnosticKind = "invalid_quantity"
)

// Diagnostic records a per-item resolution failure. These are returned to
// the caller alongside the resolved items, never raised as errors.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Mention string         `json:"mention"`
	Reason  string         `json:"reason"`
}

// Resolver matches free-text product mentions against a catalog snapshot
type Resolver struct {
	threshold float64
}

func NewResolver(threshold float64) *Resolver {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	return &Resolver{threshold: threshold}
}

// Resolve maps each raw item onto a catalog product. Exact match
// (case-insensitive, whitespace-normalized) wins; otherwise the closest
// name by normalized edit distance above the threshold is taken, ties
// broken by catalog id ascending. Items with a non-positive quantity or no
// acceptable match are excluded and reported as diagnostics.
func (r *Resolver) Resolve(items []extract.RawLineItem, catalog []Product) ([]ResolvedLineItem, []Diagnostic) {
	// Sort a copy so tie-breaks are deterministic regardless of snapshot order
	sorted := make([]Product, len(catalog))
	copy(sorted, catalog)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byName := make(map[string]int, len(sorted))
	for i, p := range sorted {
		key := normalizeName(p.Name)
		if _, exists := byName[key]; !exists {
			byName[key] = i
		}
	}

	resolved := make([]ResolvedLineItem, 0, len(items))
	diagnostics := []Diagnostic{}

	for _, item := range items {
		if item.Quantity <= 0 {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagInvalidQuantity,
				Mention: item.Mention,
				Reason:  fmt.Sprintf("quantity must be positive, got %g", item.Quantity),
			})
			continue
		}

		product, ok := r.match(item.Mention, sorted, byName)
		if !ok {
			diagnostics = append(diagnostics, Diagnostic{
				Kind:    DiagUnresolvedProduct,
				Mention: item.Mention,
				Reason:  "no catalog product above similarity threshold",
			})
			continue
		}

		resolved = append(resolved, ResolvedLineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Mention:     item.Mention,
			Quantity:    decimal.NewFromFloat(item.Quantity),
			Unit:        item.Unit,
			UnitPrice:   product.UnitPrice,
			GSTPercent:  product.GSTPercent,
		})
	}

	return resolved, diagnostics
}

func (r *Resolver) match(mention string, catalog []Product, byName map[string]int) (Product, bool) {
	key := normalizeName(mention)

	if i, ok := byName[key]; ok {
		return catalog[i], true
	}
	// Singular form, for mentions like "tomatoes"
	if singular := strings.TrimSuffix(key, "s"); singular != key {
		if i, ok := byName[singular]; ok {
			return catalog[i], true
		}
	}

	bestIdx := -1
	bestSim := 0.0
	for i, p := range catalog {
		sim := similarity(key, normalizeName(p.Name))
		// Strictly greater keeps the lowest catalog id on ties, since the
		// slice is sorted by id ascending.
		if sim > bestSim {
			bestSim = sim
			bestIdx = i
		}
	}

	if bestIdx == -1 || bestSim < r.threshold {
		return Product{}, false
	}
	return catalog[bestIdx], true
}

// similarity is 1 - editDistance/maxLen, in [0,1]
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
