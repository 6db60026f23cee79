package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Title", "Words", "Left"}
	rows := [][]string{
		{"Short", "12", "0:02"},
		{"A longer title", "1500", "5:00"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Title           Words  Left" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Short              12  0:02" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "A longer title   1500  5:00" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"T", "N"}, [][]string{{"日本", "1"}}, map[int]bool{1: true})
	if lines[1] != "日本  1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[0] != "T     N" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
}
