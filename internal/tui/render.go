package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/spr/internal/model"
	"github.com/verte-zerg/spr/internal/orp"
	"github.com/verte-zerg/spr/internal/player"
	statsPkg "github.com/verte-zerg/spr/internal/stats"
)

var (
	wordStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	pivotStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	guideStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	ghostStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	countdownStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	contextStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	contextCurrentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	barFilledStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	barEmptyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	footerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	hintStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

const emptyHint = "No text loaded. Press v to paste from the clipboard, or q to quit."

// renderWord draws word in a line of exactly width columns. With ORP on, the
// pivot rune sits on the center column so the eye does not move between words.
func renderWord(word string, settings model.Settings, width int) string {
	if !settings.ORPEnabled {
		return padRight(lipgloss.PlaceHorizontal(width, lipgloss.Center, wordStyle.Render(word)), width)
	}
	prefix, pivot, suffix := orp.Split(word, settings.ORPMode)
	pad := width/2 - runewidth.StringWidth(prefix)
	if pad < 0 {
		pad = 0
	}
	line := strings.Repeat(" ", pad) + wordStyle.Render(prefix) + pivotStyle.Render(pivot) + wordStyle.Render(suffix)
	return padRight(line, width)
}

func renderGuide(width int) string {
	return padRight(strings.Repeat(" ", width/2)+guideStyle.Render("▾"), width)
}

func renderProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	return barFilledStyle.Render(strings.Repeat("━", filled)) + barEmptyStyle.Render(strings.Repeat("─", width-filled))
}

func statusLabel(st player.State) string {
	switch st.Status {
	case player.StatusIdle:
		return "ready · space to start"
	case player.StatusCountdown:
		return fmt.Sprintf("starting in %d", st.Countdown)
	case player.StatusPaused:
		return "paused"
	case player.StatusFinished:
		return "finished · space to replay"
	default:
		return st.Status.String()
	}
}

func (m *Model) renderStage(width int) []string {
	st := m.player.State()
	if len(m.tokens) == 0 {
		return []string{lipgloss.PlaceHorizontal(width, lipgloss.Center, hintStyle.Render(emptyHint))}
	}
	var lines []string
	if st.Status == player.StatusCountdown {
		lines = append(lines, "", lipgloss.PlaceHorizontal(width, lipgloss.Center, countdownStyle.Render(fmt.Sprintf("%d", st.Countdown))), "")
	} else {
		word := m.tokens[st.Index].Text
		if m.settings.ORPEnabled {
			lines = append(lines, renderGuide(width))
		} else {
			lines = append(lines, "")
		}
		lines = append(lines, renderWord(word, m.settings, width), "")
	}
	if m.settings.ShowGhostPreview {
		ghost := ""
		if st.Index+1 < len(m.tokens) {
			ghost = ghostStyle.Render(m.tokens[st.Index+1].Text)
		}
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, ghost))
	}
	if m.settings.ContextEnabled {
		start, end := player.SentenceBounds(st.Index, m.tokens)
		sentence := wrapStyledRunes(buildContextRunes(m.tokens, start, end, st.Index), width)
		lines = append(lines, "", lipgloss.NewStyle().Width(width).Render(sentence))
	}
	return lines
}

func (m *Model) renderFooter() string {
	st := m.player.State()
	total := len(m.tokens)
	position := "0/0"
	if total > 0 {
		position = fmt.Sprintf("%d/%d", st.Index+1, total)
	}
	left := statsPkg.Remaining(st.Index, m.tokens, m.settings)
	segments := []string{
		position,
		fmt.Sprintf("%d wpm", m.settings.EffectiveWPM()),
		statsPkg.FormatDuration(left) + " left",
		"orp " + orpLabel(m.settings),
		statusLabel(st),
	}
	if m.notice != "" {
		segments = append(segments, m.notice)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func orpLabel(settings model.Settings) string {
	if !settings.ORPEnabled {
		return "off"
	}
	return string(settings.ORPMode)
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
