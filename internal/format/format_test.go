package format

import (
	"strings"
	"testing"

	"github.com/kiranshivaraju/sprintsight/pkg/models"
)

func TestTable(t *testing.T) {
	records := []map[string]any{
		{"sprint": "S1", "done": 3.0, "story_points": 21.0},
		{"sprint": "S2", "done": nil, "story_points": 13.0},
	}

	got := Table(records, 6)

	want := strings.Join([]string{
		"done   | sprint",
		"---------------",
		"3      | S1    ",
		"NULL   | S2    ",
	}, "\n")
	if got != want {
		t.Errorf("table =\n%s\nwant\n%s", got, want)
	}
}

func TestTableEmpty(t *testing.T) {
	if got := Table(nil, 20); got != "" {
		t.Errorf("empty records = %q, want empty", got)
	}
	if got := Table([]map[string]any{{"story_points": 5.0}}, 20); got != "" {
		t.Errorf("only point columns = %q, want empty", got)
	}
}

func TestTableTruncatesCells(t *testing.T) {
	records := []map[string]any{{"name": "a very long value indeed"}}

	got := Table(records, 6)

	lines := strings.Split(got, "\n")
	if lines[2] != "a very" {
		t.Errorf("row = %q, want truncated to width", lines[2])
	}
}

func TestTableSkipsEmptyRemainingIssues(t *testing.T) {
	records := []map[string]any{
		{"day": 1.0, "remaining_issues": 5.0},
		{"day": 2.0, "remaining_issues": nil},
		{"day": 3.0, "remaining_issues": "null"},
		{"day": 4.0, "remaining_issues": "2"},
	}

	got := Table(records, 20)

	rows := strings.Split(got, "\n")[2:]
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2:\n%s", len(rows), got)
	}
	if !strings.HasPrefix(rows[0], "1") || !strings.HasPrefix(rows[1], "4") {
		t.Errorf("unexpected rows:\n%s", got)
	}
}

func TestTableColumnsKeepsOrder(t *testing.T) {
	records := []map[string]any{{"b": "2", "a": "1"}}

	got := TableColumns(records, []string{"b", "a"}, 3)

	if !strings.HasPrefix(got, "b   | a  ") {
		t.Errorf("header = %q", strings.Split(got, "\n")[0])
	}
}

func TestBurndownList(t *testing.T) {
	got := Burndown([]any{
		map[string]any{"day": 1.0, "remaining": 9.0},
	})

	if !strings.Contains(got, "day") || !strings.Contains(got, "remaining") {
		t.Errorf("missing columns:\n%s", got)
	}

	if got := Burndown([]any{}); got != "No burndown data found" {
		t.Errorf("empty list = %q", got)
	}
	if got := Burndown(nil); got != "No burndown data found" {
		t.Errorf("nil = %q", got)
	}
}

func TestBurndownObjectBuckets(t *testing.T) {
	got := Burndown(map[string]any{
		"pi_name":      "PI-1",
		"total_issues": 30.0,
		"start_date":   "2026-01-01",
	})

	want := strings.Join([]string{
		"**Dates & Timeline:**",
		"- start_date: `2026-01-01`",
		"",
		"**Metrics & Numbers:**",
		"- total_issues: `30`",
		"",
		"**Other Information:**",
		"- pi_name: PI-1",
	}, "\n")
	if got != want {
		t.Errorf("burndown =\n%s\nwant\n%s", got, want)
	}
}

func TestBurndownObjectWithSeries(t *testing.T) {
	got := Burndown(map[string]any{
		"burndown_data": []any{
			map[string]any{"day": 1.0, "remaining": 12.0},
		},
	})

	if !strings.HasPrefix(got, "**burndown_data:**") {
		t.Errorf("missing series header:\n%s", got)
	}
	if !strings.Contains(got, "remaining") {
		t.Errorf("missing table:\n%s", got)
	}
}

func TestPIStatus(t *testing.T) {
	got := PIStatus(map[string]any{
		"data": []any{
			map[string]any{"pi": "PI-1", "completed": 12.0, "blocked": 2.0},
		},
	})

	want := strings.Join([]string{
		"This is the status of the PI as of TODAY",
		"blocked = 2",
		"completed = 12",
		"pi = PI-1",
	}, "\n")
	if got != want {
		t.Errorf("pi status =\n%s\nwant\n%s", got, want)
	}

	if got := PIStatus(nil); got != "No PI status data available for current date." {
		t.Errorf("nil = %q", got)
	}
	if got := PIStatus([]any{}); got != "No PI status data available for current date." {
		t.Errorf("empty list = %q", got)
	}
}

func TestTranscript(t *testing.T) {
	tr := &models.Transcript{
		Type:     "Daily",
		TeamName: "Atlas",
		FileName: "standup.txt",
		RawText:  "we discussed blockers",
	}

	got := Transcript(tr, "Transcript:")

	want := strings.Join([]string{
		"Type: Daily",
		"Team/PI: Atlas",
		"File: standup.txt",
		"Transcript:",
		"we discussed blockers",
	}, "\n")
	if got != want {
		t.Errorf("transcript =\n%s\nwant\n%s", got, want)
	}

	if got := Transcript(nil, "Transcript:"); got != "No transcript found" {
		t.Errorf("nil transcript = %q", got)
	}
}

func TestTranscripts(t *testing.T) {
	got := Transcripts([]models.Transcript{
		{TranscriptDate: "2026-08-31", RawText: "first"},
		{TranscriptDate: "2026-09-01", RawText: "second"},
	})

	want := strings.Join([]string{
		"Begin transcripts",
		"Transcript 1",
		"transcript_date: 2026-08-31",
		"first",
		"",
		"Transcript 2",
		"transcript_date: 2026-09-01",
		"second",
		"",
		"End transcripts",
	}, "\n")
	if got != want {
		t.Errorf("transcripts =\n%s\nwant\n%s", got, want)
	}

	if got := Transcripts(nil); got != "Begin transcript\nNo transcripts found\nEnd transcript" {
		t.Errorf("empty = %q", got)
	}
}

func TestWrapPrompt(t *testing.T) {
	got := WrapPrompt("analyze this")
	if got != "===> Prompt:\nanalyze this\n===> End Prompt." {
		t.Errorf("wrapped = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("short string = %q", got)
	}
	if got := Truncate("hello", 3); got != "hel" {
		t.Errorf("truncated = %q", got)
	}
	// Never split a multi-byte rune.
	s := "aé" // 'é' is two bytes starting at index 1
	if got := Truncate(s, 2); got != "a" {
		t.Errorf("utf8 truncate = %q", got)
	}
}
