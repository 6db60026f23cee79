// Package stats contains reading-time calculations and text reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/spr/internal/model"
	"github.com/verte-zerg/spr/internal/player"
)

const sparkChars = " .:-=+*#%@"

// TextStats summarizes a token sequence under a set of settings.
type TextStats struct {
	Words      int
	Sentences  int
	Clauses    int
	Paragraphs int
	// Plain is the reading time at the configured rate without pauses.
	Plain time.Duration
	// Paced includes punctuation and paragraph pauses.
	Paced time.Duration
}

// Analyze counts boundaries and sums the dwell time of every token.
func Analyze(tokens []model.Token, settings model.Settings) TextStats {
	st := TextStats{Words: len(tokens)}
	if len(tokens) == 0 {
		return st
	}
	st.Paragraphs = 1
	for i, tok := range tokens {
		if tok.IsSentenceEnd {
			st.Sentences++
		}
		if tok.IsClauseEnd {
			st.Clauses++
		}
		if tok.ParagraphBreakBefore {
			st.Paragraphs++
		}
		st.Paced += player.Delay(i, tokens, settings)
	}
	if !tokens[len(tokens)-1].IsSentenceEnd {
		st.Sentences++
	}
	st.Plain = time.Duration(len(tokens)) * (time.Minute / time.Duration(settings.EffectiveWPM()))
	return st
}

// Remaining sums the dwell time from index to the end of the text.
func Remaining(index int, tokens []model.Token, settings model.Settings) time.Duration {
	if index < 0 {
		index = 0
	}
	var total time.Duration
	for i := index; i < len(tokens); i++ {
		total += player.Delay(i, tokens, settings)
	}
	return total
}

// FormatDuration renders a reading time as "m:ss" or "h:mm:ss".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(math.Round(d.Seconds()))
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// PacingSeries returns the dwell time of each token in milliseconds.
func PacingSeries(tokens []model.Token, settings model.Settings) []float64 {
	out := make([]float64, len(tokens))
	for i := range tokens {
		out[i] = float64(player.Delay(i, tokens, settings)) / float64(time.Millisecond)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderReport prints counts, reading time and a pacing plot for tokens.
func RenderReport(w io.Writer, title string, tokens []model.Token, settings model.Settings, totalWidth int) error {
	if len(tokens) == 0 {
		_, err := fmt.Fprintln(w, "No words found.")
		return err
	}
	st := Analyze(tokens, settings)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	headers := []string{"Metric", "Value"}
	rows := [][]string{
		{"Words", fmt.Sprintf("%d", st.Words)},
		{"Sentences", fmt.Sprintf("%d", st.Sentences)},
		{"Clauses", fmt.Sprintf("%d", st.Clauses)},
		{"Paragraphs", fmt.Sprintf("%d", st.Paragraphs)},
		{"WPM", fmt.Sprintf("%d", settings.EffectiveWPM())},
		{"Time (no pauses)", FormatDuration(st.Plain)},
		{"Time (with pauses)", FormatDuration(st.Paced)},
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	width := PlotWidthFor(totalWidth)
	if totalWidth <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	pacing := resampleSeries(PacingSeries(tokens, settings), width)
	if _, err := fmt.Fprintf(w, "Pacing  %s\n\n", Sparkline(pacing)); err != nil {
		return err
	}
	window := len(tokens) / width
	if window < 1 {
		window = 1
	}
	return PlotSeries(w, "Dwell per word (ms)", MovingAverage(PacingSeries(tokens, settings), window), width, defaultPlotHeight)
}

// RenderHistory prints saved texts as a table.
func RenderHistory(w io.Writer, items []model.HistoryItem, settings model.Settings) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No saved texts.")
		return err
	}
	headers := []string{"ID", "Title", "Updated", "Words", "Progress", "Left"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		title := item.Title
		if displayWidth(title) > maxTitleWidth {
			title = truncateWidth(title, maxTitleWidth)
		}
		left := time.Duration(0)
		if item.WordCount > 0 {
			remaining := item.WordCount - item.LastIndex
			if remaining < 0 {
				remaining = 0
			}
			left = time.Duration(remaining) * (time.Minute / time.Duration(settings.EffectiveWPM()))
		}
		rows = append(rows, []string{
			item.ID,
			title,
			time.UnixMilli(item.UpdatedAt).Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", item.WordCount),
			fmt.Sprintf("%.0f%%", Progress(item.LastIndex, item.WordCount)*100),
			FormatDuration(left),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Progress returns the fraction of a text read with index as the current
// word, in [0, 1].
func Progress(index, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(index+1) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func minMax(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.IsInf(minVal, 1) {
		minVal = 0
	}
	if math.IsInf(maxVal, -1) {
		maxVal = 0
	}
	return minVal, maxVal
}
