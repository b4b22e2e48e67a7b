// Package heuristic is the deterministic, rule-based message analyzer used
// whenever the AI provider is unavailable or fails. Every function here is
// pure: identical input always yields identical output, and nothing can fail.
package heuristic

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nyashahama/culture-guard/internal/culture"
)

// ─── CONSTANTS ────────────────────────────────────────────────────────────────

const (
	// shoutMinLen is exclusive: a message must be longer than this to count as
	// shouting, so short acronyms like "FYI" or "OK" are left alone.
	shoutMinLen = 5

	japanBluntMaxWords = 5  // word count < 5 without "?" reads as blunt
	gulfGreetingWords  = 10 // word count < 10 without a greeting is transactional
)

var (
	urgencyWords  = []string{"asap", "urgently", "now", "immediately", "deadline"}
	greetingWords = []string{"hello", "hi", "dear", "salam"}
)

// ─── MESSAGE ──────────────────────────────────────────────────────────────────

// message is the pre-tokenised form of the input that every rule reads.
type message struct {
	text   string
	lower  string
	tokens map[string]struct{} // lower-cased whitespace-split fields
	words  int
}

func newMessage(text string) message {
	lower := strings.ToLower(text)
	fields := strings.Fields(lower)
	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		tokens[f] = struct{}{}
	}
	return message{text: text, lower: lower, tokens: tokens, words: len(fields)}
}

// hasToken reports a standalone-word match, so "no" does not match "not" or "know".
func (m message) hasToken(tok string) bool {
	_, ok := m.tokens[tok]
	return ok
}

func (m message) containsAny(words ...string) bool {
	for _, w := range words {
		if strings.Contains(m.lower, w) {
			return true
		}
	}
	return false
}

// ─── RULES ────────────────────────────────────────────────────────────────────

// rule inspects a message for one country. When it matches it returns a fully
// formed Result that replaces whatever earlier rules produced.
type rule struct {
	name     string
	terminal bool
	apply    func(m message, country string) (culture.Result, bool)
}

// rules run in order. Shouting is terminal; urgency may be overwritten by the
// country rule that follows it.
var rules = []rule{
	{name: "shouting", terminal: true, apply: shoutingRule},
	{name: "urgency", apply: urgencyRule},
	{name: "country", apply: countryRule},
}

func shoutingRule(m message, country string) (culture.Result, bool) {
	if !isUpper(m.text) || utf8.RuneCountInString(m.text) <= shoutMinLen {
		return culture.Result{}, false
	}
	return culture.Result{
		Country:           country,
		TranslatedMeaning: "You are shouting or angry.",
		RiskLevel:         culture.Risky,
		Reasoning:         "Using all caps is universally perceived as aggressive shouting.",
		Alternatives: []string{
			capitalize(m.text),
			"I would like to emphasize this point: " + m.lower,
		},
	}, true
}

func urgencyRule(m message, country string) (culture.Result, bool) {
	if !m.containsAny(urgencyWords...) {
		return culture.Result{}, false
	}
	softened := strings.ReplaceAll(m.text, "ASAP", "at your earliest convenience")
	softened = strings.ReplaceAll(softened, "immediately", "when possible")
	return culture.Result{
		Country:           country,
		TranslatedMeaning: "You are demanding immediate attention, potentially disregarding the recipient's schedule.",
		RiskLevel:         culture.PotentiallyMisunderstood,
		Reasoning: fmt.Sprintf("In %s, as in many cultures, demanding urgency can imply poor planning "+
			"on your part or lack of respect for their time.", country),
		Alternatives: []string{
			softened,
			"Could you please prioritize this if time permits?",
			"We are working with a tight timeline and would appreciate your help.",
		},
	}, true
}

// countryRule dispatches on the exact, case-sensitive country name.
func countryRule(m message, country string) (culture.Result, bool) {
	switch country {
	case "Japan":
		if m.hasToken("no") || m.containsAny("cannot", "won't") {
			return culture.Result{
				Country:           country,
				TranslatedMeaning: "A direct refusal or confrontation.",
				RiskLevel:         culture.Risky,
				Reasoning: "Direct refusal is avoided in Japan to maintain harmony. " +
					"Use 'soft' refusals like 'it is difficult'.",
				Alternatives: []string{
					"This might be difficult to achieve.",
					"We would like to consider this, but there are challenges.",
				},
			}, true
		}
		if !strings.Contains(m.text, "?") && m.words < japanBluntMaxWords {
			return culture.Result{
				Country:           country,
				TranslatedMeaning: "A blunt statement or command.",
				RiskLevel:         culture.PotentiallyMisunderstood,
				Reasoning: "Short, direct sentences can sound cold. " +
					"Japanese business emails are often longer and more indirect.",
				Alternatives: []string{
					"I am writing to share that " + m.text,
					"Regarding the matter of: " + m.text,
				},
			}, true
		}

	case "China":
		if m.containsAny("problem", "issue") {
			return culture.Result{
				Country:           country,
				TranslatedMeaning: "You are pointing out a failure, potentially causing loss of face.",
				RiskLevel:         culture.Risky,
				Reasoning:         "Criticism should be delivered privately and subtly to preserve 'mianzi' (face).",
				Alternatives: []string{
					"We see an area for improvement here.",
					"Let's look at how we can optimize this result.",
				},
			}, true
		}

	case "India":
		if m.hasToken("no") {
			return culture.Result{
				Country:           country,
				TranslatedMeaning: "A harsh rejection.",
				RiskLevel:         culture.PotentiallyMisunderstood,
				Reasoning: "In India, 'no' is often softened to 'I will try' or 'let me check' " +
					"to maintain the relationship.",
				Alternatives: []string{
					"I will see what I can do, but it may be tough.",
					"Let me get back to you on this.",
				},
			}, true
		}

	case "United Arab Emirates", "Saudi Arabia":
		if m.words < gulfGreetingWords && !m.containsAny(greetingWords...) {
			return culture.Result{
				Country:           country,
				TranslatedMeaning: "You are strictly transactional and ignoring the relationship.",
				RiskLevel:         culture.PotentiallyMisunderstood,
				Reasoning: "Relationship building is crucial. " +
					"Jumping straight to business without a greeting is considered rude.",
				Alternatives: []string{
					"As-salamu alaykum. " + m.text,
					"I hope this message finds you well. " + m.text,
				},
			}, true
		}

	case "Germany":
		if m.containsAny("feel", "guess") {
			return culture.Result{
				Country:           country,
				TranslatedMeaning: "You are unprepared or relying on emotion rather than facts.",
				RiskLevel:         culture.PotentiallyMisunderstood,
				Reasoning: "German business culture values objectivity, facts, and precision " +
					"over feelings or vague estimates.",
				Alternatives: []string{
					"The data indicates that...",
					"Based on the analysis...",
				},
			}, true
		}

	case "United States":
		if m.containsAny("perhaps", "maybe") {
			return culture.Result{
				Country:           country,
				TranslatedMeaning: "You are unsure or lack confidence.",
				RiskLevel:         culture.PotentiallyMisunderstood,
				Reasoning: "US business culture rewards directness and confidence. " +
					"Vagueness can be seen as incompetence.",
				Alternatives: []string{
					"I recommend we do X.",
					"The best course of action is...",
				},
			}, true
		}
	}
	return culture.Result{}, false
}

// ─── EVALUATION ───────────────────────────────────────────────────────────────

// defaultResult is what a message gets when no rule matches.
func defaultResult(country string) culture.Result {
	return culture.Result{
		Country:           country,
		TranslatedMeaning: "The message appears direct and clear.",
		RiskLevel:         culture.Safe,
		Reasoning: fmt.Sprintf("This message generally aligns with standard business communication, "+
			"though cultural nuances in %s always favor politeness.", country),
	}
}

// backfill guarantees a non-empty alternatives list.
func backfill(r culture.Result, text string) culture.Result {
	if len(r.Alternatives) == 0 {
		r.Alternatives = []string{
			"Kindly note: " + text,
			"Regarding: " + text,
		}
	}
	return r
}

// EvaluateCountry runs every rule for a single country and reports whether
// the final classification is anything other than Safe.
func EvaluateCountry(text, country string) (culture.Result, bool) {
	m := newMessage(text)
	result := defaultResult(country)

	for _, r := range rules {
		matched, ok := r.apply(m, country)
		if !ok {
			continue
		}
		result = matched
		if r.terminal {
			break
		}
	}

	result = backfill(result, text)
	return result, result.IsRisky()
}

// Analyze is the fallback entry point. For a concrete country it returns
// exactly one result. For culture.AllCountries it returns every risky country
// in declared order, or a single Global Safe result when none is risky.
//
// Countries outside the supported list are evaluated like any other country
// without a specific rule; request validation happens at the HTTP layer.
func Analyze(text, country string) []culture.Result {
	if country != culture.AllCountries {
		result, _ := EvaluateCountry(text, country)
		return []culture.Result{result}
	}

	var risky []culture.Result
	for _, c := range culture.Countries() {
		if result, isRisky := EvaluateCountry(text, c); isRisky {
			risky = append(risky, result)
		}
	}
	if len(risky) > 0 {
		return risky
	}

	return []culture.Result{backfill(culture.Result{
		Country:           culture.Global,
		TranslatedMeaning: "The message appears clear and universally acceptable.",
		RiskLevel:         culture.Safe,
		Reasoning:         "No significant cultural risks detected across the supported countries.",
	}, text)}
}

// ─── TEXT HELPERS ─────────────────────────────────────────────────────────────

// isUpper reports whether s has at least one cased letter and no lower-case
// letters. Digits, spaces and punctuation are ignored.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			return false
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			cased = true
		}
	}
	return cased
}

// capitalize upper-cases the first character and lower-cases the rest.
func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
