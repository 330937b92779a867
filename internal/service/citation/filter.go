package citation

import "strings"

const (
	maxStatements      = 10
	minStatementLength = 20
)

// codeLikenessTokens flag fragments of model output that are code or markup
// rather than prose claims. Matching is case-sensitive substring matching.
var codeLikenessTokens = []string{
	"json", "code", "function", "let ", "const ", "var ", "=>", "<", ">",
}

// FilterStatements keeps only citable claims: at least 20 characters after
// trimming, not a bracket-only or brace-only fragment, not a code fence, and
// free of code-likeness tokens. At most ten survive, extraction order
// preserved.
func FilterStatements(candidates []string) []string {
	kept := make([]string, 0, maxStatements)
	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if !citable(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
		if len(kept) == maxStatements {
			break
		}
	}
	return kept
}

func citable(trimmed string) bool {
	if len(trimmed) < minStatementLength {
		return false
	}
	if strings.HasPrefix(trimmed, "```") {
		return false
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return false
	}
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return false
	}
	for _, token := range codeLikenessTokens {
		if strings.Contains(trimmed, token) {
			return false
		}
	}
	return true
}
