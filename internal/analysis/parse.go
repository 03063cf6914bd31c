package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)```")

// parseModelResponse pulls a JSON object out of the model's free-form reply.
// Preference order: a fenced ```json block, then the first-to-last brace
// substring, then the whole body. Only a reply with no parseable object at
// all fails, with ErrMalformedResponse.
func parseModelResponse(content string) (map[string]any, error) {
	candidates := make([]string, 0, 3)
	if m := fencedJSONPattern.FindStringSubmatch(content); m != nil {
		candidates = append(candidates, m[1])
	}
	if open := strings.Index(content, "{"); open >= 0 {
		if close := strings.LastIndex(content, "}"); close > open {
			candidates = append(candidates, content[open:close+1])
		}
	}
	candidates = append(candidates, content)

	for _, candidate := range candidates {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &parsed); err == nil {
			return parsed, nil
		}
	}
	return nil, ErrMalformedResponse
}
