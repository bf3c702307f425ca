package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// RuleExtractor is the deterministic pattern-rule extractor. Given the same
// transcript it always produces the same ordered output, which keeps bills
// reproducible.
type RuleExtractor struct{}

func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

func (e *RuleExtractor) GetExtractorName() string {
	return "rules"
}

// Extract segments the transcript into clauses and applies pattern rules to
// each one. Clauses that match neither a customer marker nor a
// quantity+unit+product triple are dropped and reported as diagnostics.
func (e *RuleExtractor) Extract(ctx context.Context, transcript string) (*Result, error) {
	result := &Result{
		Items:          []RawLineItem{},
		DroppedClauses: []string{},
	}

	for _, clause := range segmentClauses(transcript) {
		if parseCustomerClause(clause, &result.Customer) {
			continue
		}
		if item, ok := parseItemClause(clause); ok {
			result.Items = append(result.Items, item)
			continue
		}
		result.DroppedClauses = append(result.DroppedClauses, clause)
	}

	result.Items = mergeItems(result.Items)
	return result, nil
}

// Clause boundaries: punctuation plus the spoken conjunctions that separate
// order items in Indian-English utterances ("aur" is Hindi "and").
var clauseSeparators = regexp.MustCompile(`[,;.!?\n]+|\band\b|\bthen\b|\balso\b|\bplus\b|\baur\b`)

var whitespaceRun = regexp.MustCompile(`\s+`)

func segmentClauses(transcript string) []string {
	lowered := strings.ToLower(transcript)
	parts := clauseSeparators.Split(lowered, -1)

	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(whitespaceRun.ReplaceAllString(p, " "))
		if p != "" {
			clauses = append(clauses, p)
		}
	}
	return clauses
}

var (
	namePattern  = regexp.MustCompile(`^(?:this )?(?:bill(?: is)? for|customer(?: name)?(?: is)?|name is)\s+(.+)$`)
	phonePattern = regexp.MustCompile(`(?:phone|mobile|contact)(?: number| no)?(?: is)?\s*([+0-9][0-9 \-]{5,})`)
	addrPattern  = regexp.MustCompile(`^(?:address(?: is)?|deliver(?:y)? (?:to|at)|lives? (?:at|in))\s+(.+)$`)

	digitsOnly = regexp.MustCompile(`[^0-9]`)
	bareDigits = regexp.MustCompile(`^[0-9][0-9 \-]*$`)
)

// parseCustomerClause fills customer fields from marker clauses. First
// mention wins so repeated markers cannot reorder output.
func parseCustomerClause(clause string, customer *CustomerInfo) bool {
	if m := phonePattern.FindStringSubmatch(clause); m != nil {
		if customer.Phone == "" {
			customer.Phone = digitsOnly.ReplaceAllString(m[1], "")
		}
		return true
	}

	// A bare digit run the length of a phone number is a phone number,
	// not a quantity.
	if bareDigits.MatchString(clause) {
		digits := digitsOnly.ReplaceAllString(clause, "")
		if len(digits) >= 7 && len(digits) <= 12 {
			if customer.Phone == "" {
				customer.Phone = digits
			}
			return true
		}
	}

	if m := addrPattern.FindStringSubmatch(clause); m != nil {
		if customer.Address == "" {
			customer.Address = capitalizeWords(m[1])
		}
		return true
	}

	if m := namePattern.FindStringSubmatch(clause); m != nil {
		if customer.Name == "" {
			customer.Name = capitalizeWords(m[1])
		}
		return true
	}

	return false
}

// Filler words stripped out of product mentions.
var fillerWords = map[string]bool{
	"of": true, "some": true, "please": true, "me": true, "get": true,
	"give": true, "add": true, "want": true, "need": true, "buy": true,
	"bought": true, "take": true, "i": true, "we": true, "x": true,
}

// parseItemClause detects a quantity+unit+product triple in a clause. The
// quantity may appear before or after the product name, as digits or as a
// numeral word, with the unit optionally glued to the number ("2kg").
func parseItemClause(clause string) (RawLineItem, bool) {
	tokens := strings.Fields(clause)

	qtyIdx := -1
	var qty float64
	var attachedUnit string
	for i, tok := range tokens {
		if v, unit, ok := parseQuantityToken(tok); ok {
			qtyIdx, qty, attachedUnit = i, v, unit
			break
		}
	}
	if qtyIdx == -1 {
		return RawLineItem{}, false
	}

	unit := attachedUnit
	unitIdx := -1
	if unit == "" && qtyIdx+1 < len(tokens) {
		if u, ok := normalizeUnit(tokens[qtyIdx+1]); ok {
			unit = u
			unitIdx = qtyIdx + 1
		}
	}

	var nameTokens []string
	for i, tok := range tokens {
		if i == qtyIdx || i == unitIdx || fillerWords[tok] {
			continue
		}
		nameTokens = append(nameTokens, tok)
	}
	if len(nameTokens) == 0 {
		return RawLineItem{}, false
	}

	return RawLineItem{
		Mention:  strings.Join(nameTokens, " "),
		Quantity: qty,
		Unit:     unit,
	}, true
}

var numberWords = map[string]float64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50, "hundred": 100,
	"half": 0.5, "quarter": 0.25, "couple": 2,
}

var attachedQty = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)([a-z]+)$`)

// parseQuantityToken recognizes "2", "2.5", "two" and the glued form
// "2kg". Digit runs of phone-number length are not quantities.
func parseQuantityToken(tok string) (float64, string, bool) {
	if v, ok := numberWords[tok]; ok {
		return v, "", true
	}

	if m := attachedQty.FindStringSubmatch(tok); m != nil {
		if unit, ok := normalizeUnit(m[2]); ok {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return v, unit, true
			}
		}
		return 0, "", false
	}

	if len(digitsOnly.ReplaceAllString(tok, "")) >= 7 {
		return 0, "", false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, "", false
	}
	return v, "", true
}

var unitAliases = map[string]string{
	"kg": "kg", "kgs": "kg", "kilo": "kg", "kilos": "kg", "kilogram": "kg", "kilograms": "kg",
	"g": "g", "gm": "g", "gms": "g", "gram": "g", "grams": "g",
	"l": "litre", "ltr": "litre", "litre": "litre", "litres": "litre", "liter": "litre", "liters": "litre",
	"ml": "ml",
	"pc": "pcs", "pcs": "pcs", "piece": "pcs", "pieces": "pcs",
	"packet": "packet", "packets": "packet", "pack": "packet", "packs": "packet",
	"bottle": "bottle", "bottles": "bottle",
	"bag": "bag", "bags": "bag",
	"dozen": "dozen", "dozens": "dozen",
}

func normalizeUnit(tok string) (string, bool) {
	u, ok := unitAliases[tok]
	return u, ok
}

// mergeItems combines repeated mentions of the same product+unit into one
// line with the summed quantity, keeping first-mention order.
func mergeItems(items []RawLineItem) []RawLineItem {
	merged := make([]RawLineItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		key := item.Mention + "\x00" + item.Unit
		if i, seen := index[key]; seen {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
