package culture

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RiskLevel is the three-valued cultural safety classification. The zero value
// is Safe.
type RiskLevel int

const (
	Safe RiskLevel = iota
	PotentiallyMisunderstood
	Risky
)

// Labels rendered at the HTTP boundary. The front-end matches on the words
// "Safe" and "Risky" inside these strings, so they must not change.
const (
	labelSafe          = "✅ Safe & Culturally Appropriate"
	labelMisunderstood = "⚠️ Potentially Misunderstood"
	labelRisky         = "❌ Culturally Risky / Offensive"
)

// String returns the short identifier used in logs and metric labels.
func (l RiskLevel) String() string {
	switch l {
	case Safe:
		return "safe"
	case PotentiallyMisunderstood:
		return "potentially_misunderstood"
	case Risky:
		return "risky"
	default:
		return fmt.Sprintf("risk_level(%d)", int(l))
	}
}

// Label returns the emoji-prefixed label shown to users.
func (l RiskLevel) Label() string {
	switch l {
	case PotentiallyMisunderstood:
		return labelMisunderstood
	case Risky:
		return labelRisky
	default:
		return labelSafe
	}
}

// ParseRiskLevel maps a label back to a RiskLevel. Exact labels are accepted,
// as are labels whose emoji prefix was dropped or altered by a model, as long
// as the key word ("Safe", "Misunderstood", "Risky") is present.
func ParseRiskLevel(s string) (RiskLevel, error) {
	s = strings.TrimSpace(s)
	switch s {
	case labelSafe:
		return Safe, nil
	case labelMisunderstood:
		return PotentiallyMisunderstood, nil
	case labelRisky:
		return Risky, nil
	}

	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "risky") || strings.Contains(lower, "offensive"):
		return Risky, nil
	case strings.Contains(lower, "misunderstood"):
		return PotentiallyMisunderstood, nil
	case strings.Contains(lower, "safe"):
		return Safe, nil
	}
	return Safe, fmt.Errorf("culture: unknown risk level %q", s)
}

// MarshalJSON renders the user-facing label.
func (l RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Label())
}

// UnmarshalJSON accepts any label ParseRiskLevel understands.
func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("culture: risk level must be a string: %w", err)
	}
	parsed, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
