package extract

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/voicebill/voice-billing-be/internal/core/llm"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) GetProviderName() string { return "stub" }

func newStubExtractor(response string, err error) *LLMExtractor {
	return NewLLMExtractor(llm.NewServiceWithProvider(&stubLLM{response: response, err: err}))
}

func TestLLMExtractorParsesIntent(t *testing.T) {
	e := newStubExtractor(`{
		"customer": "Ramesh Kumar",
		"phone": "98765-43210",
		"address": "Lajpat Nagar",
		"items": [
			{"name": "Rice", "quantity": 2, "unit": "kilos"},
			{"name": "milk", "quantity": 1, "unit": "litre"}
		]
	}`, nil)

	got, err := e.Extract(context.Background(), "whatever was said")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	wantCustomer := CustomerInfo{Name: "Ramesh Kumar", Phone: "9876543210", Address: "Lajpat Nagar"}
	if got.Customer != wantCustomer {
		t.Errorf("Extract() customer = %+v, want %+v", got.Customer, wantCustomer)
	}

	wantItems := []RawLineItem{
		{Mention: "rice", Quantity: 2, Unit: "kg"},
		{Mention: "milk", Quantity: 1, Unit: "litre"},
	}
	if !reflect.DeepEqual(got.Items, wantItems) {
		t.Errorf("Extract() items = %+v, want %+v", got.Items, wantItems)
	}
}

func TestLLMExtractorStripsCodeFences(t *testing.T) {
	e := newStubExtractor("```json\n{\"items\": [{\"name\": \"sugar\", \"quantity\": 1, \"unit\": \"kg\"}]}\n```", nil)

	got, err := e.Extract(context.Background(), "one kg sugar")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Mention != "sugar" {
		t.Errorf("Extract() items = %+v, want sugar", got.Items)
	}
}

func TestLLMExtractorFallsBackOnProviderError(t *testing.T) {
	e := newStubExtractor("", errors.New("rate limited"))

	got, err := e.Extract(context.Background(), "2 kg rice")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []RawLineItem{{Mention: "rice", Quantity: 2, Unit: "kg"}}
	if !reflect.DeepEqual(got.Items, want) {
		t.Errorf("Extract() items = %+v, want rule fallback %+v", got.Items, want)
	}
}

func TestLLMExtractorFallsBackOnMalformedJSON(t *testing.T) {
	e := newStubExtractor("sorry, I cannot help with that", nil)

	got, err := e.Extract(context.Background(), "2 kg rice")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []RawLineItem{{Mention: "rice", Quantity: 2, Unit: "kg"}}
	if !reflect.DeepEqual(got.Items, want) {
		t.Errorf("Extract() items = %+v, want rule fallback %+v", got.Items, want)
	}
}

func TestLLMExtractorMergesDuplicates(t *testing.T) {
	e := newStubExtractor(`{"items": [
		{"name": "rice", "quantity": 2, "unit": "kg"},
		{"name": "rice", "quantity": 3, "unit": "kg"}
	]}`, nil)

	got, err := e.Extract(context.Background(), "rice twice")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []RawLineItem{{Mention: "rice", Quantity: 5, Unit: "kg"}}
	if !reflect.DeepEqual(got.Items, want) {
		t.Errorf("Extract() items = %+v, want merged %+v", got.Items, want)
	}
}
