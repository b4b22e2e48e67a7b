package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nyashahama/culture-guard/internal/culture"
)

const maxAlternatives = 3

// resultJSON is the shape the model is prompted to return. RiskLevel stays a
// string here so a missing or unknown label surfaces as a ParseError instead
// of silently decoding to Safe.
type resultJSON struct {
	Country           string   `json:"country"`
	TranslatedMeaning string   `json:"translated_meaning"`
	RiskLevel         string   `json:"risk_level"`
	Reasoning         string   `json:"reasoning"`
	Alternatives      []string `json:"alternatives"`
}

// stripFences removes a leading ```json / ``` fence line and a trailing ```
// fence that models add despite being told not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseResults turns raw model output into results for the requested country.
//
// The output may be a single JSON object or a list of objects. For a specific
// country only the first object is kept and its country is overwritten with
// the requested one. For the AllCountries sentinel every object is kept and a
// blank country becomes culture.Global.
func ParseResults(raw, country string) ([]culture.Result, error) {
	clean := stripFences(raw)

	var parsed []resultJSON
	switch trimmed := bytes.TrimSpace([]byte(clean)); {
	case len(trimmed) == 0:
		return nil, &ParseError{Raw: raw, Err: errors.New("empty output")}
	case trimmed[0] == '{':
		var one resultJSON
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, &ParseError{Raw: raw, Err: err}
		}
		parsed = []resultJSON{one}
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &parsed); err != nil {
			return nil, &ParseError{Raw: raw, Err: err}
		}
		if len(parsed) == 0 {
			return nil, &ParseError{Raw: raw, Err: errors.New("empty result list")}
		}
	default:
		return nil, &ParseError{Raw: raw, Err: errors.New("output is neither a JSON object nor a list")}
	}

	if country != culture.AllCountries {
		parsed = parsed[:1]
	}

	results := make([]culture.Result, 0, len(parsed))
	for i, p := range parsed {
		level, err := culture.ParseRiskLevel(p.RiskLevel)
		if err != nil {
			return nil, &ParseError{Raw: raw, Err: fmt.Errorf("result %d: %w", i, err)}
		}

		alts := make([]string, 0, maxAlternatives)
		for _, a := range p.Alternatives {
			if a = strings.TrimSpace(a); a != "" && len(alts) < maxAlternatives {
				alts = append(alts, a)
			}
		}

		r := culture.Result{
			Country:           strings.TrimSpace(p.Country),
			TranslatedMeaning: p.TranslatedMeaning,
			RiskLevel:         level,
			Reasoning:         p.Reasoning,
			Alternatives:      alts,
		}
		switch {
		case country != culture.AllCountries:
			r.Country = country
		case r.Country == "":
			r.Country = culture.Global
		}
		results = append(results, r)
	}
	return results, nil
}
