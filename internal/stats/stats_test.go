package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/spr/internal/model"
	"github.com/verte-zerg/spr/internal/tokenize"
)

func testSettings() model.Settings {
	s := model.DefaultSettings()
	s.WPM = 300
	return s
}

func TestAnalyzeCounts(t *testing.T) {
	tokens := tokenize.Tokenize("Hello, world. Next line\n\nNew para; ok")
	st := Analyze(tokens, testSettings())
	if st.Words != 7 {
		t.Fatalf("expected 7 words, got %d", st.Words)
	}
	if st.Sentences != 2 {
		t.Fatalf("expected 2 sentences, got %d", st.Sentences)
	}
	if st.Clauses != 1 {
		t.Fatalf("expected 1 clause, got %d", st.Clauses)
	}
	if st.Paragraphs != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", st.Paragraphs)
	}
	if st.Plain != 7*200*time.Millisecond {
		t.Fatalf("unexpected plain time %v", st.Plain)
	}
	if st.Paced <= st.Plain {
		t.Fatalf("expected pauses to lengthen reading, got %v <= %v", st.Paced, st.Plain)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	st := Analyze(nil, testSettings())
	if st != (TextStats{}) {
		t.Fatalf("expected zero stats, got %+v", st)
	}
}

func TestRemaining(t *testing.T) {
	settings := testSettings()
	settings.PauseOnPunctuation = false
	settings.PauseOnParagraph = false
	tokens := tokenize.Tokenize("a b c d e")
	if got := Remaining(3, tokens, settings); got != 400*time.Millisecond {
		t.Fatalf("expected 400ms, got %v", got)
	}
	if got := Remaining(-5, tokens, settings); got != time.Second {
		t.Fatalf("expected 1s, got %v", got)
	}
	if got := Remaining(9, tokens, settings); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
		{125 * time.Second, "2:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected average %v", got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestProgress(t *testing.T) {
	if got := Progress(4, 10); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := Progress(0, 0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Progress(20, 10); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	tokens := tokenize.Tokenize("One two three. Four five, six.")
	if err := RenderReport(&buf, "sample", tokens, testSettings(), 60); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"sample", "Words", "Time (with pauses)", "Pacing", "Dwell per word"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistory(&buf, nil, testSettings()); err != nil {
		t.Fatalf("render history: %v", err)
	}
	if buf.String() != "No saved texts.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	buf.Reset()
	items := []model.HistoryItem{{
		ID:        "spr-1-1",
		Title:     strings.Repeat("x", 60),
		UpdatedAt: 0,
		WordCount: 600,
		LastIndex: 299,
	}}
	if err := RenderHistory(&buf, items, testSettings()); err != nil {
		t.Fatalf("render history: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "50%") || !strings.Contains(out, "1:00") {
		t.Fatalf("unexpected history output:\n%s", out)
	}
	if strings.Contains(out, strings.Repeat("x", 60)) {
		t.Fatalf("expected long title to be truncated")
	}
}
