// Package extract pulls structured sections out of raw LLM responses.
package extract

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

const (
	// StartMarker and EndMarker delimit the dashboard summary section
	// in a well-formed LLM response. Matching is case-insensitive.
	StartMarker = "dashboard summary"
	EndMarker   = "detailed analysis"

	// MaxRecommendations caps how many recommendations a single job
	// may persist, regardless of how many the model emits.
	MaxRecommendations = 2
)

var reEnumPrefix = regexp.MustCompile(`^\d+\.?\s*`)

// Split is the result of separating an LLM response into its prose and
// JSON parts. JSON fields keep the model's bytes verbatim; an empty
// string means the section was absent.
type Split struct {
	Prose               string
	DashboardJSON       string
	RecommendationsJSON string
	RawJSON             string
}

// SplitTextAndJSON separates the text part of an LLM response from its
// embedded JSON payload. Three strategies are tried in order:
// BEGIN_JSON/END_JSON markers, markdown code fences, then a bracket
// scan from the first { or [. Only the first candidate of each
// strategy is parsed; if none yields valid JSON the whole response is
// treated as prose.
func SplitTextAndJSON(text string) Split {
	trimmed := strings.TrimSpace(text)

	if begin := strings.Index(trimmed, "BEGIN_JSON"); begin != -1 {
		end := strings.Index(trimmed, "END_JSON")
		if end >= begin+len("BEGIN_JSON") {
			content := strings.TrimSpace(trimmed[begin+len("BEGIN_JSON") : end])
			if json.Valid([]byte(content)) {
				dash, recs := jsonSections(json.RawMessage(content))
				return Split{
					Prose:               strings.TrimSpace(trimmed[:begin]),
					DashboardJSON:       dash,
					RecommendationsJSON: recs,
					RawJSON:             content,
				}
			}
			slog.Warn("invalid JSON between BEGIN_JSON/END_JSON markers")
		}
	}

	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(trimmed, marker)
		if start == -1 {
			continue
		}
		end := strings.Index(trimmed[start+len(marker):], "```")
		if end == -1 {
			continue
		}
		content := strings.TrimSpace(trimmed[start+len(marker) : start+len(marker)+end])
		if !json.Valid([]byte(content)) {
			continue
		}
		dash, recs := jsonSections(json.RawMessage(content))
		return Split{
			Prose:               strings.TrimSpace(trimmed[:start]),
			DashboardJSON:       dash,
			RecommendationsJSON: recs,
			RawJSON:             content,
		}
	}

	if i := strings.IndexAny(trimmed, "{["); i != -1 {
		depth := 1
	scan:
		for j := i + 1; j < len(trimmed); j++ {
			switch trimmed[j] {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					content := trimmed[i : j+1]
					if json.Valid([]byte(content)) {
						dash, recs := jsonSections(json.RawMessage(content))
						return Split{
							Prose:               strings.TrimSpace(trimmed[:i]),
							DashboardJSON:       dash,
							RecommendationsJSON: recs,
							RawJSON:             content,
						}
					}
					break scan
				}
			}
		}
	}

	slog.Debug("no JSON payload found in LLM response")
	return Split{Prose: trimmed}
}

// jsonSections pulls the dashboard summary and recommendations out of
// an already-validated JSON payload, preserving the original bytes.
func jsonSections(raw json.RawMessage) (dashboard, recommendations string) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", ""
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", ""
		}
		var dashItems []string
		var recValues []json.RawMessage
		for _, item := range items {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(item, &obj); err != nil {
				continue
			}
			if hasAnyKey(obj, "Dashboard_Summary", "Dashboard Summary", "DashboardSummary") {
				dashItems = append(dashItems, string(item))
			}
			if v, ok := obj["Recommendations"]; ok {
				recValues = append(recValues, v)
			}
		}
		if len(dashItems) > 0 {
			dashboard = "[" + strings.Join(dashItems, ",") + "]"
		}
		if len(recValues) > 0 {
			recommendations = string(recValues[0])
		}
		return dashboard, recommendations
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return "", ""
	}

	// First present key wins even when its value is empty.
	for _, key := range []string{"Dashboard_Summary", "Dashboard Summary", "DashboardSummary"} {
		if v, ok := obj[key]; ok {
			if !isEmptyJSON(v) {
				dashboard = string(v)
			}
			break
		}
	}
	if v, ok := obj["Recommendations"]; ok && !isEmptyJSON(v) {
		recommendations = string(v)
	}
	return dashboard, recommendations
}

func hasAnyKey(obj map[string]json.RawMessage, keys ...string) bool {
	for _, key := range keys {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}

// isEmptyJSON reports whether a JSON value is empty: null, false,
// zero, "", an empty array, or an empty object.
func isEmptyJSON(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case float64:
		return val == 0
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

// Section extracts the content between two marker lines, matched
// case-insensitively as substrings. The second return value is false
// when the start marker is missing entirely; a missing end marker or
// empty body yields ("", true). Both markers are searched from the top
// of the text, so an end marker appearing before the start marker cuts
// the section short.
func Section(text, startMarker, endMarker string) (string, bool) {
	lines := strings.Split(text, "\n")
	lowerStart := strings.ToLower(startMarker)
	lowerEnd := strings.ToLower(endMarker)

	startLine := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), lowerStart) {
			startLine = i
			break
		}
	}
	if startLine == -1 {
		return "", false
	}

	endLine := -1
	for i, line := range lines {
		if strings.Contains(strings.ToLower(line), lowerEnd) {
			endLine = i
			break
		}
	}
	if endLine == -1 {
		return "", true
	}

	contentStart := startLine + 1
	for contentStart < len(lines) && strings.TrimSpace(lines[contentStart]) == "" {
		contentStart++
	}
	if contentStart >= len(lines) || endLine <= contentStart {
		return "", true
	}

	return strings.TrimSpace(strings.Join(lines[contentStart:endLine], "\n")), true
}

// ReviewSection extracts the dashboard summary section shared by all
// job types.
func ReviewSection(text string) (string, bool) {
	return Section(text, StartMarker, EndMarker)
}

// RecommendationsFromText scrapes up to maxCount recommendations from
// free-form LLM text. Numbered (1. through 9.) and bulleted lines
// start a new item; other lines continue the current one. Items are
// cleaned, de-duplicated, and returned in order of first appearance.
func RecommendationsFromText(text string, maxCount int) []string {
	cleaned := []string{}
	if text == "" {
		return cleaned
	}

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			lines = append(lines, t)
		}
	}

	var items []string
	current := ""
	for _, ln := range lines {
		if startsItem(ln) {
			if strings.TrimSpace(current) != "" {
				items = append(items, strings.TrimSpace(current))
			}
			current = ln
		} else if current != "" {
			current += " " + ln
		} else {
			current = ln
		}
	}
	if strings.TrimSpace(current) != "" {
		items = append(items, strings.TrimSpace(current))
	}

	seen := make(map[string]bool)
	for _, it := range items {
		c := CleanRecommendationText(it)
		if c != "" && !seen[c] {
			cleaned = append(cleaned, c)
			seen[c] = true
		}
		if len(cleaned) >= maxCount {
			break
		}
	}
	return cleaned
}

// CleanRecommendationText strips enumeration prefixes and bullet
// characters and collapses internal whitespace.
func CleanRecommendationText(text string) string {
	s := reEnumPrefix.ReplaceAllString(strings.TrimSpace(text), "")
	s = strings.TrimSpace(strings.TrimLeft(s, "*-•◦"))
	return strings.Join(strings.Fields(s), " ")
}

func startsItem(line string) bool {
	for i := 1; i <= 9; i++ {
		if strings.HasPrefix(line, strconv.Itoa(i)+".") {
			return true
		}
	}
	return strings.HasPrefix(line, "*") || strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "•") || strings.HasPrefix(line, "◦")
}
