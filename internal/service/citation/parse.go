package citation

import (
	"encoding/json"
	"strings"
)

// ParseStatements decodes the extraction reply as a JSON array of strings.
// Models wrap arrays in prose or fences often enough that the decoder scans
// for the outermost brackets first, then falls back to treating every
// non-empty line as a candidate. A parse failure never reaches the caller.
func ParseStatements(content string) []string {
	trimmed := strings.TrimSpace(content)

	if start, end := strings.Index(trimmed, "["), strings.LastIndex(trimmed, "]"); start != -1 && end > start {
		var statements []string
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &statements); err == nil {
			return statements
		}
	}

	var lines []string
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
