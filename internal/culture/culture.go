// Package culture holds the shared data model for message analysis: the
// per-country Result, the RiskLevel enum, and the fixed list of supported
// countries. It has no dependencies outside the standard library so that both
// the heuristic engine and the AI client can use it freely.
package culture

// ─── COUNTRIES ────────────────────────────────────────────────────────────────

// AllCountries is the sentinel a client sends to request analysis across every
// supported country at once.
const AllCountries = "Select All Countries"

// Global is the country label used on a result that does not belong to any
// single country (for example, the "nothing risky anywhere" result).
const Global = "Global"

// supportedCountries is the declared evaluation order. Multi-country results
// are always returned in this order.
var supportedCountries = []string{
	"United States",
	"Japan",
	"Germany",
	"Brazil",
	"India",
	"France",
	"China",
	"South Korea",
	"United Arab Emirates",
	"Saudi Arabia",
	"United Kingdom",
	"Spain",
	"Mexico",
	"Canada",
	"Australia",
	"Netherlands",
	"Sweden",
	"Singapore",
	"Italy",
	"Russia",
}

// Countries returns a copy of the supported countries in declared order.
func Countries() []string {
	out := make([]string, len(supportedCountries))
	copy(out, supportedCountries)
	return out
}

// IsSupported reports whether country is one of the supported countries.
// Matching is exact and case-sensitive; the sentinel is not a country.
func IsSupported(country string) bool {
	for _, c := range supportedCountries {
		if c == country {
			return true
		}
	}
	return false
}

// IsValidTarget reports whether country may appear in an analysis request:
// either a supported country or the AllCountries sentinel.
func IsValidTarget(country string) bool {
	return country == AllCountries || IsSupported(country)
}

// ─── RESULT ───────────────────────────────────────────────────────────────────

// Result is the assessment of one message for one country (or Global).
type Result struct {
	Country           string    `json:"country"`
	TranslatedMeaning string    `json:"translated_meaning"`
	RiskLevel         RiskLevel `json:"risk_level"`
	Reasoning         string    `json:"reasoning"`
	Alternatives      []string  `json:"alternatives"`
}

// IsRisky reports whether the result is anything other than Safe.
func (r Result) IsRisky() bool {
	return r.RiskLevel != Safe
}
