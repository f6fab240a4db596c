// Package format renders backend data structures as plain text for
// LLM prompt assembly.
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

const (
	// PromptBegin and PromptEnd wrap every prompt recorded in a job's
	// input so the UI can locate it.
	PromptBegin = "===> Prompt:"
	PromptEnd   = "===> End Prompt."

	noBurndownFound     = "No burndown data found"
	noPIStatusAvailable = "No PI status data available for current date."
)

// Table renders records as a fixed-width text table. Columns come from
// the first record's keys, sorted, with any column whose name contains
// "point" dropped. Returns "" for no records or no usable columns.
func Table(records []map[string]any, maxWidth int) string {
	if len(records) == 0 {
		return ""
	}
	columns := make([]string, 0, len(records[0]))
	for col := range records[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return renderTable(records, filterPointColumns(columns), maxWidth)
}

// TableColumns renders records like Table but with an explicit column
// order for payloads whose layout the worker controls.
func TableColumns(records []map[string]any, columns []string, maxWidth int) string {
	if len(records) == 0 {
		return ""
	}
	return renderTable(records, filterPointColumns(columns), maxWidth)
}

func filterPointColumns(columns []string) []string {
	var out []string
	for _, c := range columns {
		if !strings.Contains(strings.ToLower(c), "point") {
			out = append(out, c)
		}
	}
	return out
}

func renderTable(records []map[string]any, columns []string, maxWidth int) string {
	if len(columns) == 0 {
		return ""
	}

	headerCells := make([]string, len(columns))
	for i, col := range columns {
		headerCells[i] = pad(col, maxWidth)
	}
	header := strings.Join(headerCells, " | ")
	lines := []string{header, strings.Repeat("-", len(header))}

	// Rows with an empty remaining_issues value are dropped when that
	// column exists; the backend pads burndown series with them.
	remainingKey := ""
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c), "remaining_issues") {
			remainingKey = c
			break
		}
	}

	for _, rec := range records {
		if remainingKey != "" {
			v := rec[remainingKey]
			if v == nil {
				continue
			}
			if s := strings.ToLower(strings.TrimSpace(stringify(v))); s == "" || s == "null" {
				continue
			}
		}
		cells := make([]string, len(columns))
		for i, col := range columns {
			v, ok := rec[col]
			if !ok || v == nil {
				cells[i] = pad("NULL", maxWidth)
				continue
			}
			cells[i] = pad(stringify(v), maxWidth)
		}
		lines = append(lines, strings.Join(cells, " | "))
	}

	return strings.Join(lines, "\n")
}

func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, truncateRunes(s, width))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Transcript formats a single transcript with its metadata and raw
// text under the given label.
func Transcript(t *models.Transcript, label string) string {
	if t == nil {
		return "No transcript found"
	}

	var parts []string
	if t.Type != "" {
		parts = append(parts, "Type: "+t.Type)
	}
	if t.TeamName != "" {
		parts = append(parts, "Team/PI: "+t.TeamName)
	}
	if t.FileName != "" {
		parts = append(parts, "File: "+t.FileName)
	}
	if t.RawText != "" {
		parts = append(parts, label, t.RawText)
	} else {
		parts = append(parts, "No transcript text found")
	}
	return strings.Join(parts, "\n")
}

// Transcripts formats a batch of transcripts between begin/end
// markers, numbering each and carrying its date.
func Transcripts(ts []models.Transcript) string {
	if len(ts) == 0 {
		return "Begin transcript\nNo transcripts found\nEnd transcript"
	}

	begin, end := "Begin transcript", "End transcript"
	if len(ts) > 1 {
		begin, end = "Begin transcripts", "End transcripts"
	}

	parts := []string{begin}
	for i, t := range ts {
		parts = append(parts, fmt.Sprintf("Transcript %d", i+1))
		if t.TranscriptDate != "" {
			parts = append(parts, "transcript_date: "+t.TranscriptDate)
		}
		if t.RawText != "" {
			parts = append(parts, t.RawText)
		}
		parts = append(parts, "")
	}
	parts = append(parts, end)
	return strings.Join(parts, "\n")
}

// Burndown renders burndown data as markdown. A list renders as a
// table; an object is bucketed into list, date, numeric, and other
// fields, in that order, with keys sorted within each bucket.
func Burndown(v any) string {
	switch data := v.(type) {
	case []any:
		table := Table(recordList(data), 20)
		if table == "" {
			return noBurndownFound
		}
		return table
	case map[string]any:
		return burndownObject(data)
	}
	return noBurndownFound
}

func burndownObject(data map[string]any) string {
	if len(data) == 0 {
		return noBurndownFound
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var listKeys, dateKeys, numericKeys, otherKeys []string
	for _, k := range keys {
		v := data[k]
		lower := strings.ToLower(k)
		switch {
		case isList(v):
			listKeys = append(listKeys, k)
		case strings.Contains(lower, "date") || strings.Contains(lower, "time") || strings.Contains(lower, "day"):
			dateKeys = append(dateKeys, k)
		case isNumeric(v):
			numericKeys = append(numericKeys, k)
		default:
			otherKeys = append(otherKeys, k)
		}
	}

	var lines []string
	for _, k := range listKeys {
		list := data[k].([]any)
		if records := recordList(list); len(records) > 0 {
			lines = append(lines, "**"+k+":**")
			if table := Table(records, 20); table != "" {
				lines = append(lines, table)
			} else {
				lines = append(lines, fmt.Sprintf("- Total records: %d", len(list)))
				lines = append(lines, "- Sample record fields: "+sampleFields(records[0])+"...")
			}
			lines = append(lines, "")
		} else {
			lines = append(lines, "**"+k+":**")
			lines = append(lines, fmt.Sprintf("- Count: %d", len(list)))
			preview := fmt.Sprintf("%v", list)
			if len([]rune(preview)) > 200 {
				preview = truncateRunes(preview, 200) + "..."
			}
			lines = append(lines, "- Preview: `"+preview+"`")
			lines = append(lines, "")
		}
	}

	if len(dateKeys) > 0 {
		lines = append(lines, "**Dates & Timeline:**")
		for _, k := range dateKeys {
			lines = append(lines, fmt.Sprintf("- %s: `%s`", k, stringify(data[k])))
		}
		lines = append(lines, "")
	}

	if len(numericKeys) > 0 {
		lines = append(lines, "**Metrics & Numbers:**")
		for _, k := range numericKeys {
			lines = append(lines, fmt.Sprintf("- %s: `%s`", k, stringify(data[k])))
		}
		lines = append(lines, "")
	}

	if len(otherKeys) > 0 {
		lines = append(lines, "**Other Information:**")
		for _, k := range otherKeys {
			v := stringify(data[k])
			if len([]rune(v)) > 200 {
				v = truncateRunes(v, 200) + "..."
			}
			lines = append(lines, fmt.Sprintf("- %s: %s", k, v))
		}
	}

	if len(lines) == 0 {
		return noBurndownFound
	}
	return strings.Join(lines, "\n")
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}

func isNumeric(v any) bool {
	switch val := v.(type) {
	case float64:
		return true
	case string:
		stripped := strings.ReplaceAll(strings.ReplaceAll(val, ".", ""), "-", "")
		if stripped == "" {
			return false
		}
		for _, r := range stripped {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	return false
}

func sampleFields(record map[string]any) string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 5 {
		keys = keys[:5]
	}
	return strings.Join(keys, ", ")
}

func recordList(list []any) []map[string]any {
	var out []map[string]any
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		out = append(out, rec)
	}
	return out
}

// PIStatus renders PI status data as "key = value" lines from the
// first status record, keys sorted.
func PIStatus(v any) string {
	var list []any
	switch data := v.(type) {
	case map[string]any:
		if len(data) == 0 {
			return noPIStatusAvailable
		}
		if inner, ok := data["data"].([]any); ok {
			list = inner
		} else {
			list = []any{data}
		}
	case []any:
		list = data
	default:
		return noPIStatusAvailable
	}

	if len(list) == 0 {
		return noPIStatusAvailable
	}

	lines := []string{"This is the status of the PI as of TODAY"}
	if status, ok := list[0].(map[string]any); ok {
		keys := make([]string, 0, len(status))
		for k := range status {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s = %s", k, stringify(status[k])))
		}
	}
	return strings.Join(lines, "\n")
}

// WrapPrompt surrounds prompt text with the begin/end markers used in
// recorded job input.
func WrapPrompt(text string) string {
	return PromptBegin + "\n" + text + "\n" + PromptEnd
}

// Truncate shortens s to at most n bytes without splitting a UTF-8
// sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
