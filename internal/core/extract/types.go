package extract

import "context"

// RawLineItem is a free-text product mention with the spoken quantity.
// Produced by extraction, consumed by catalog resolution.
type RawLineItem struct {
	Mention  string  `json:"mention"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// CustomerInfo holds customer-identifying fields picked out of the
// transcript. Empty fields mean the transcript never mentioned them.
type CustomerInfo struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Result is the structured intent extracted from one transcript.
// Items keep the order of first mention in the transcript. Clauses that
// matched no pattern are recorded in DroppedClauses, never silently lost.
type Result struct {
	Customer       CustomerInfo  `json:"customer"`
	Items          []RawLineItem `json:"items"`
	DroppedClauses []string      `json:"dropped_clauses"`
}

// Extractor parses transcribed text into a structured intent
type Extractor interface {
	Extract(ctx context.Context, transcript string) (*Result, error)
	GetExtractorName() string
}
