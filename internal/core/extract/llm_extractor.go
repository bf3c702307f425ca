package extract

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/voicebill/voice-billing-be/internal/core/llm"
)

// LLMExtractor uses an LLM to parse the transcript into structured intent.
// It tolerates much noisier speech than the rule engine but is not
// deterministic, so it is off by default and always falls back to the rule
// extractor when the model misbehaves.
type LLMExtractor struct {
	llmService *llm.Service
	fallback   *RuleExtractor
}

func NewLLMExtractor(llmService *llm.Service) *LLMExtractor {
	return &LLMExtractor{
		llmService: llmService,
		fallback:   NewRuleExtractor(),
	}
}

func (e *LLMExtractor) GetExtractorName() string {
	return "llm:" + e.llmService.GetProviderName()
}

type llmItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type llmIntent struct {
	Customer string    `json:"customer"`
	Phone    string    `json:"phone"`
	Address  string    `json:"address"`
	Items    []llmItem `json:"items"`
}

// Extract asks the LLM for a strict-JSON intent and normalizes it into the
// same shape the rule extractor produces.
func (e *LLMExtractor) Extract(ctx context.Context, transcript string) (*Result, error) {
	response, err := e.llmService.GenerateResponse(ctx, buildIntentPrompt(), transcript)
	if err != nil {
		log.Printf("⚠️ LLM extraction failed, falling back to rules: %v", err)
		return e.fallback.Extract(ctx, transcript)
	}

	// Strip markdown code fences if the model added them
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var intent llmIntent
	if err := json.Unmarshal([]byte(cleaned), &intent); err != nil {
		log.Printf("⚠️ LLM returned malformed JSON, falling back to rules: %v", err)
		return e.fallback.Extract(ctx, transcript)
	}

	result := &Result{
		Customer: CustomerInfo{
			Name:    strings.TrimSpace(intent.Customer),
			Phone:   digitsOnly.ReplaceAllString(intent.Phone, ""),
			Address: strings.TrimSpace(intent.Address),
		},
		Items:          make([]RawLineItem, 0, len(intent.Items)),
		DroppedClauses: []string{},
	}

	for _, it := range intent.Items {
		mention := strings.TrimSpace(strings.ToLower(it.Name))
		if mention == "" {
			continue
		}
		unit := strings.TrimSpace(strings.ToLower(it.Unit))
		if u, ok := normalizeUnit(unit); ok {
			unit = u
		}
		result.Items = append(result.Items, RawLineItem{
			Mention:  mention,
			Quantity: it.Quantity,
			Unit:     unit,
		})
	}
	result.Items = mergeItems(result.Items)

	return result, nil
}

func buildIntentPrompt() string {
	return `You are a billing assistant for an Indian grocery shop.
The user message is a speech transcript of a shopkeeper dictating a bill.
Use your knowledge of common Indian grocery items to correct misspelled
product names. Extract the customer name, phone number and address if
mentioned, plus every purchased item.

Return ONLY a valid JSON object with this exact structure:

{
  "customer": "Customer Name",
  "phone": "9876543210",
  "address": "Customer Address",
  "items": [
    {"name": "sugar", "quantity": 2, "unit": "kg"}
  ]
}

IMPORTANT RULES:
1. Return ONLY the JSON object, no markdown, no explanation, no code blocks
2. quantity must be a number (not a string); convert numeral words like "two" to 2
3. unit is one of: kg, g, litre, ml, pcs, packet, bottle, bag, dozen, or "" if unclear
4. Combine repeated mentions of the same item into one entry with the summed quantity
5. Keep items in the order they are first mentioned
6. Use "" for customer, phone or address when the transcript never mentions them
7. Do not invent items that are not in the transcript`
}
