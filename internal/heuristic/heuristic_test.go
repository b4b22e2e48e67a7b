package heuristic_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nyashahama/culture-guard/internal/culture"
	"github.com/nyashahama/culture-guard/internal/heuristic"
)

// neutral trips no rule in any country: it has a greeting, more than ten
// words, and none of the trigger substrings.
const neutral = "Hello team, I hope you are all doing well this week and look forward to our discussion."

// ─── Shouting ─────────────────────────────────────────────────────────────────

func TestShouting_RiskyInEveryCountry(t *testing.T) {
	for _, country := range culture.Countries() {
		t.Run(country, func(t *testing.T) {
			r, risky := heuristic.EvaluateCountry("PLEASE SEND THE REPORT", country)
			if !risky || r.RiskLevel != culture.Risky {
				t.Fatalf("expected Risky, got %v", r.RiskLevel)
			}
			if !strings.Contains(r.TranslatedMeaning, "shouting") {
				t.Errorf("meaning should mention shouting: %q", r.TranslatedMeaning)
			}
		})
	}
}

func TestShouting_IsTerminal(t *testing.T) {
	// Would trip Germany's "feel"/"guess" rule and the urgency rule if they ran.
	results := heuristic.Analyze("THIS IS URGENT PLEASE RESPOND", "Germany")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.RiskLevel != culture.Risky || !strings.Contains(r.TranslatedMeaning, "shouting") {
		t.Errorf("expected shouting result, got %+v", r)
	}
	want := []string{
		"This is urgent please respond",
		"I would like to emphasize this point: this is urgent please respond",
	}
	if !reflect.DeepEqual(r.Alternatives, want) {
		t.Errorf("alternatives = %q, want %q", r.Alternatives, want)
	}

	r, _ = heuristic.EvaluateCountry("I GUESS I FEEL BAD NOW", "Germany")
	if !strings.Contains(r.TranslatedMeaning, "shouting") {
		t.Errorf("shouting must override later rules, got %q", r.TranslatedMeaning)
	}
}

func TestShouting_Boundaries(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		shout bool
	}{
		{"exactly five chars", "HELLO", false},
		{"six chars", "HELLO!", true},
		{"digits only", "1234567890", false},
		{"mixed case", "Hello THERE everyone", false},
		{"caps with punctuation", "STOP, NOW.", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := heuristic.EvaluateCountry(tt.text, "France")
			got := strings.Contains(r.TranslatedMeaning, "shouting")
			if got != tt.shout {
				t.Errorf("shouting=%v, want %v (result %+v)", got, tt.shout, r)
			}
		})
	}
}

// ─── Urgency ──────────────────────────────────────────────────────────────────

func TestUrgency_PotentiallyMisunderstood(t *testing.T) {
	for _, text := range []string{
		"Please send the figures asap, thank you very much for your help with this.",
		"We need the signed contract by the deadline on Friday for the whole team.",
		"Could you review this immediately please?",
	} {
		r, risky := heuristic.EvaluateCountry(text, "France")
		if !risky || r.RiskLevel != culture.PotentiallyMisunderstood {
			t.Errorf("%q: expected PotentiallyMisunderstood, got %v", text, r.RiskLevel)
		}
		if !strings.Contains(r.TranslatedMeaning, "immediate attention") {
			t.Errorf("%q: meaning = %q", text, r.TranslatedMeaning)
		}
	}
}

func TestUrgency_SoftensAlternatives(t *testing.T) {
	r, _ := heuristic.EvaluateCountry("Send it ASAP and reply immediately", "Spain")
	if len(r.Alternatives) != 3 {
		t.Fatalf("expected 3 alternatives, got %d", len(r.Alternatives))
	}
	if r.Alternatives[0] != "Send it at your earliest convenience and reply when possible" {
		t.Errorf("softened rewrite = %q", r.Alternatives[0])
	}
}

func TestUrgency_SubstringMatch(t *testing.T) {
	// "know" contains "now"; the rule is a literal substring check.
	r, _ := heuristic.EvaluateCountry("Let me know what you think about the plan for next quarter.", "Brazil")
	if r.RiskLevel != culture.PotentiallyMisunderstood {
		t.Errorf("expected substring match on \"now\", got %v", r.RiskLevel)
	}
}

func TestUrgency_JapanWithoutRefusalKeepsUrgency(t *testing.T) {
	r, _ := heuristic.EvaluateCountry("Could you please send the updated schedule asap?", "Japan")
	if r.RiskLevel != culture.PotentiallyMisunderstood {
		t.Fatalf("expected PotentiallyMisunderstood, got %v", r.RiskLevel)
	}
	if !strings.Contains(r.TranslatedMeaning, "immediate attention") {
		t.Errorf("urgency result should survive, got %q", r.TranslatedMeaning)
	}
}

// ─── Country rules ────────────────────────────────────────────────────────────

func TestCountryRules(t *testing.T) {
	tests := []struct {
		name     string
		country  string
		text     string
		want     culture.RiskLevel
		contains string
	}{
		{"japan refusal overrides urgency", "Japan", "I cannot do this NOW", culture.Risky, "refusal"},
		{"japan standalone no", "Japan", "The answer is no for this quarter, sorry about that.", culture.Risky, "refusal"},
		{"japan won't", "Japan", "We won't be able to attend the meeting next week.", culture.Risky, "refusal"},
		{"japan not is not no", "Japan", "This is not what we discussed during the meeting today?", culture.Safe, "direct and clear"},
		{"japan blunt", "Japan", "Send the file.", culture.PotentiallyMisunderstood, "blunt"},
		{"japan short question is fine", "Japan", "Any updates?", culture.Safe, "direct and clear"},
		{"china problem", "China", "There is a problem with your shipment from last month.", culture.Risky, "face"},
		{"china issue", "China", "We found an issue in the second draft of the agreement.", culture.Risky, "face"},
		{"india leading No", "India", "No we will not extend the contract this year.", culture.PotentiallyMisunderstood, "rejection"},
		{"india nobody is not no", "India", "Nobody will extend the contract this year.", culture.Safe, "direct and clear"},
		{"india standalone no", "India", "The answer is no for this quarter, sorry about that.", culture.PotentiallyMisunderstood, "rejection"},
		{"uae no greeting", "United Arab Emirates", "Send the invoice.", culture.PotentiallyMisunderstood, "transactional"},
		{"saudi no greeting", "Saudi Arabia", "Send the invoice.", culture.PotentiallyMisunderstood, "transactional"},
		{"uae greeting", "United Arab Emirates", "Dear Ahmed, please send the invoice.", culture.Safe, "direct and clear"},
		{"uae long message", "Saudi Arabia", "Please send the invoice for the March delivery to our finance team.", culture.Safe, "direct and clear"},
		{"germany feel", "Germany", "I feel this plan will work well for the whole company.", culture.PotentiallyMisunderstood, "emotion"},
		{"germany guess", "Germany", "I guess the shipment arrives on Tuesday or thereabouts.", culture.PotentiallyMisunderstood, "emotion"},
		{"us maybe", "United States", "Maybe we could look at the proposal together next week.", culture.PotentiallyMisunderstood, "confidence"},
		{"us perhaps", "United States", "Perhaps the team should revisit the pricing model again.", culture.PotentiallyMisunderstood, "confidence"},
		{"rule is country specific", "France", "There is a problem with your shipment from last month.", culture.Safe, "direct and clear"},
		{"country match is case sensitive", "japan", "Send the file.", culture.Safe, "direct and clear"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := heuristic.Analyze(tt.text, tt.country)
			if len(results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(results))
			}
			r := results[0]
			if r.Country != tt.country {
				t.Errorf("country = %q, want %q", r.Country, tt.country)
			}
			if r.RiskLevel != tt.want {
				t.Errorf("risk = %v, want %v (%q)", r.RiskLevel, tt.want, r.TranslatedMeaning)
			}
			if !strings.Contains(r.TranslatedMeaning, tt.contains) {
				t.Errorf("meaning %q should contain %q", r.TranslatedMeaning, tt.contains)
			}
		})
	}
}

func TestCountryRule_ReplacesUrgencyFields(t *testing.T) {
	r, _ := heuristic.EvaluateCountry("I feel we need this now", "Germany")
	if !strings.Contains(r.TranslatedMeaning, "emotion") {
		t.Fatalf("expected Germany result, got %q", r.TranslatedMeaning)
	}
	want := []string{"The data indicates that...", "Based on the analysis..."}
	if !reflect.DeepEqual(r.Alternatives, want) {
		t.Errorf("alternatives must be fully replaced, got %q", r.Alternatives)
	}
}

func TestCountriesWithoutRules_SafeByDefault(t *testing.T) {
	withRules := map[string]bool{
		"Japan": true, "China": true, "India": true, "United Arab Emirates": true,
		"Saudi Arabia": true, "Germany": true, "United States": true,
	}
	// Short, no greeting, no question: would trip Japan and the Gulf rules.
	const text = "Send the file."
	for _, country := range culture.Countries() {
		if withRules[country] {
			continue
		}
		r, risky := heuristic.EvaluateCountry(text, country)
		if risky {
			t.Errorf("%s: expected Safe, got %v", country, r.RiskLevel)
		}
		if r.TranslatedMeaning != "The message appears direct and clear." {
			t.Errorf("%s: meaning = %q", country, r.TranslatedMeaning)
		}
		if !strings.Contains(r.Reasoning, country) {
			t.Errorf("%s: reasoning should name the country: %q", country, r.Reasoning)
		}
	}
}

// ─── Alternatives ─────────────────────────────────────────────────────────────

func TestDefaultAlternativesBackfill(t *testing.T) {
	r, _ := heuristic.EvaluateCountry(neutral, "Italy")
	want := []string{"Kindly note: " + neutral, "Regarding: " + neutral}
	if !reflect.DeepEqual(r.Alternatives, want) {
		t.Errorf("alternatives = %q, want %q", r.Alternatives, want)
	}
}

func TestAlternatives_NeverEmpty(t *testing.T) {
	texts := []string{
		neutral,
		"Send the file.",
		"PLEASE SEND THE REPORT",
		"I cannot do this NOW",
		"There is a problem with your shipment.",
		"x",
	}
	targets := append(culture.Countries(), culture.AllCountries)
	for _, text := range texts {
		for _, country := range targets {
			for _, r := range heuristic.Analyze(text, country) {
				if len(r.Alternatives) == 0 {
					t.Errorf("Analyze(%q, %q): empty alternatives for %s", text, country, r.Country)
				}
				if len(r.Alternatives) > 3 {
					t.Errorf("Analyze(%q, %q): %d alternatives", text, country, len(r.Alternatives))
				}
			}
		}
	}
}

// ─── Select All ───────────────────────────────────────────────────────────────

func TestAnalyzeAll_NothingRiskyReturnsGlobal(t *testing.T) {
	results := heuristic.Analyze(neutral, culture.AllCountries)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(results), results)
	}
	r := results[0]
	if r.Country != culture.Global || r.RiskLevel != culture.Safe {
		t.Errorf("expected Global Safe, got %+v", r)
	}
	if !strings.Contains(r.TranslatedMeaning, "universally acceptable") {
		t.Errorf("meaning = %q", r.TranslatedMeaning)
	}
	if !strings.HasPrefix(r.Reasoning, "No significant cultural risks detected") {
		t.Errorf("reasoning = %q", r.Reasoning)
	}
}

func TestAnalyzeAll_ShortMessageFlagsJapanAndGulf(t *testing.T) {
	results := heuristic.Analyze("Let's discuss the proposal", culture.AllCountries)
	var got []string
	for _, r := range results {
		got = append(got, r.Country)
	}
	want := []string{"Japan", "United Arab Emirates", "Saudi Arabia"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("countries = %v, want %v", got, want)
	}
}

func TestAnalyzeAll_ShoutingFlagsEveryCountryInOrder(t *testing.T) {
	results := heuristic.Analyze("PLEASE SEND THE REPORT", culture.AllCountries)
	countries := culture.Countries()
	if len(results) != len(countries) {
		t.Fatalf("expected %d results, got %d", len(countries), len(results))
	}
	for i, r := range results {
		if r.Country != countries[i] {
			t.Errorf("position %d: got %q, want %q", i, r.Country, countries[i])
		}
	}
}

func TestAnalyzeAll_SubsequenceOfDeclaredOrder(t *testing.T) {
	texts := []string{
		"Maybe we can fix the problem if you feel like it, no?",
		"I guess there is an issue",
		"Send it now",
		neutral,
	}
	countries := culture.Countries()
	for _, text := range texts {
		results := heuristic.Analyze(text, culture.AllCountries)
		if len(results) == 0 {
			t.Fatalf("%q: empty result", text)
		}
		if len(results) == 1 && results[0].Country == culture.Global {
			if results[0].RiskLevel != culture.Safe {
				t.Errorf("%q: Global result must be Safe", text)
			}
			continue
		}
		idx := 0
		for _, r := range results {
			if !r.IsRisky() {
				t.Errorf("%q: Safe result %q in multi-country output", text, r.Country)
			}
			for idx < len(countries) && countries[idx] != r.Country {
				idx++
			}
			if idx == len(countries) {
				t.Fatalf("%q: %q out of declared order", text, r.Country)
			}
			idx++
		}
	}
}

// ─── Purity ───────────────────────────────────────────────────────────────────

func TestAnalyze_Idempotent(t *testing.T) {
	for _, country := range []string{"Japan", "Germany", culture.AllCountries} {
		a := heuristic.Analyze("I cannot do this NOW", country)
		b := heuristic.Analyze("I cannot do this NOW", country)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: results differ between calls", country)
		}
	}
}

func TestAnalyze_UnsupportedCountryEchoed(t *testing.T) {
	results := heuristic.Analyze(neutral, "Atlantis")
	if len(results) != 1 || results[0].Country != "Atlantis" {
		t.Errorf("expected single Atlantis result, got %+v", results)
	}
}
