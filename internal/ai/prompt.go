package ai

import (
	"fmt"
	"strings"

	"github.com/nyashahama/culture-guard/internal/culture"
)

// responseSchema is shared by both prompts so the parser only has to know one shape.
func responseSchema(countryLabel string) string {
	return fmt.Sprintf(`Return a valid JSON object with EXACTLY these fields:
- "country": The literal string %q.
- "translated_meaning": A short string explaining what this message implies to the reader.
- "risk_level": One of %q, %q, or %q.
- "reasoning": A 1-2 sentence explanation of why, referencing specific cultural norms.
- "alternatives": A list of 2-3 safer/better rewrites (strings).

Output only the raw JSON string. Do not use Markdown code blocks.`,
		countryLabel,
		culture.Safe.Label(), culture.PotentiallyMisunderstood.Label(), culture.Risky.Label())
}

// BuildPrompt returns the country-specific prompt, or the global prompt when
// country is the AllCountries sentinel.
func BuildPrompt(text, country string) string {
	var sb strings.Builder
	sb.WriteString("You are a Cultural Communication Expert. ")

	if country == culture.AllCountries {
		fmt.Fprintf(&sb, "Analyze this message for a professional business context across these cultures: %s.\n",
			strings.Join(culture.Countries(), ", "))
		sb.WriteString("Reason globally and summarise the most important cultural risks in a single assessment.\n\n")
		fmt.Fprintf(&sb, "Message: %q\n\n", text)
		sb.WriteString(responseSchema(culture.Global))
		return sb.String()
	}

	fmt.Fprintf(&sb, "Analyze this message for a professional business context in %s.\n", country)
	fmt.Fprintf(&sb, "Consider only how a local business reader in %s would perceive it.\n\n", country)
	fmt.Fprintf(&sb, "Message: %q\n\n", text)
	sb.WriteString(responseSchema(country))
	return sb.String()
}
