// Package historyui provides the Bubble Tea browser for saved texts.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/spr/internal/model"
	"github.com/verte-zerg/spr/internal/stats"
	"github.com/verte-zerg/spr/internal/tokenize"
)

const (
	tabLibrary = iota
	tabDetails
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Store is the history storage the browser reads and edits.
type Store interface {
	LoadHistory(ctx context.Context) ([]model.HistoryItem, error)
	SaveHistory(ctx context.Context, items []model.HistoryItem) error
}

// Model implements the Bubble Tea history browser.
type Model struct {
	store    Store
	settings model.Settings

	items   []model.HistoryItem
	visible []model.HistoryItem
	errMsg  string

	tabs      []string
	activeTab int
	table     table.Model
	details   viewport.Model

	filterMode  bool
	filter      string
	filterInput textinput.Model

	selected    model.HistoryItem
	hasSelected bool

	width  int
	height int
}

// NewModel constructs a history browser.
func NewModel(st Store, settings model.Settings) *Model {
	m := &Model{
		store:    st,
		settings: settings,
		tabs:     []string{"Library", "Details"},
		details:  viewport.New(0, 0),
	}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Filter: "
	m.filterInput.Placeholder = "title or text"
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.table = table.New(
		table.WithColumns(tableColumns(80)),
		table.WithHeight(1),
		table.WithFocused(true),
	)
	m.table.SetStyles(tableStyles())
	m.refresh()
	return m
}

// Selected returns the item chosen with enter.
func (m *Model) Selected() (model.HistoryItem, bool) {
	return m.selected, m.hasSelected
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderDetails()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "/":
			m.filterMode = true
			m.filterInput.SetValue(m.filter)
			return m, m.filterInput.Focus()
		case "enter":
			if item, ok := m.current(); ok {
				m.selected = item
				m.hasSelected = true
				return m, tea.Quit
			}
			return m, nil
		case "d", "delete":
			m.deleteCurrent()
			return m, nil
		}
		if m.activeTab == tabLibrary {
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			m.renderDetails()
			return m, cmd
		}
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}
	if m.filterMode {
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	items, err := m.store.LoadHistory(context.Background())
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		return
	}
	m.errMsg = ""
	m.items = items
	m.applyFilter()
}

func (m *Model) applyFilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter))
	m.visible = m.visible[:0]
	for _, item := range m.items {
		if needle == "" ||
			strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Text), needle) {
			m.visible = append(m.visible, item)
		}
	}
	m.table.SetRows(buildRows(m.visible, time.Now()))
	if m.table.Cursor() >= len(m.visible) {
		m.table.SetCursor(maxInt(0, len(m.visible)-1))
	}
	m.renderDetails()
}

func (m *Model) current() (model.HistoryItem, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return model.HistoryItem{}, false
	}
	return m.visible[idx], true
}

func (m *Model) deleteCurrent() {
	item, ok := m.current()
	if !ok {
		return
	}
	kept := make([]model.HistoryItem, 0, len(m.items))
	for _, existing := range m.items {
		if existing.ID != item.ID {
			kept = append(kept, existing)
		}
	}
	if err := m.store.SaveHistory(context.Background(), kept); err != nil {
		m.errMsg = fmt.Sprintf("failed to delete: %v", err)
		return
	}
	m.refresh()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filterInput.Blur()
		m.filter = m.filterInput.Value()
		m.table.SetCursor(0)
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabLibrary {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.table.SetColumns(tableColumns(m.width))
	m.table.SetWidth(m.width)
	// One line for the header row and one for its border.
	m.table.SetHeight(maxInt(1, bodyHeight-2))
	m.details.Width = m.width
	m.details.Height = bodyHeight
	m.filterInput.Width = maxInt(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
}

func (m *Model) renderDetails() {
	item, ok := m.current()
	if !ok {
		m.details.SetContent("No text selected.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	var buf bytes.Buffer
	buf.WriteString(titleStyle.Render(item.Title) + "\n")
	fmt.Fprintf(&buf, "%s  ·  word %d of %d\n\n", item.ID, item.LastIndex+1, item.WordCount)
	buf.WriteString(lipgloss.NewStyle().Width(width).Render(item.Text) + "\n\n")
	tokens := tokenize.Tokenize(item.Text)
	if err := stats.RenderReport(&buf, "", tokens, m.settings, width); err != nil {
		fmt.Fprintf(&buf, "Failed to render report: %v\n", err)
	}
	m.details.SetContent(buf.String())
	m.details.GotoTop()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	filter := m.filter
	if filter == "" {
		filter = "none"
	}
	summary := fmt.Sprintf("Saved: %d  showing: %d  filter: %s", len(m.items), len(m.visible), filter)
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return m.filterInput.View() + "\n" + headerStyle.Render("enter: apply  esc: cancel")
	}
	if m.activeTab == tabDetails {
		return m.details.View()
	}
	if len(m.items) == 0 {
		return "No saved texts. Start reading with `spr <file>`."
	}
	if len(m.visible) == 0 {
		return "No texts match the filter."
	}
	return tableMutedStyle.Render(m.table.View())
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Move: up/down  Open: enter  Filter: /  Delete: d  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func tableColumns(width int) []table.Column {
	fixed := 16 + 6 + 8 + 6
	titleWidth := maxInt(10, width-fixed-5)
	return []table.Column{
		{Title: "Title", Width: titleWidth},
		{Title: "Updated", Width: 16},
		{Title: "Words", Width: 6},
		{Title: "Progress", Width: 8},
		{Title: "Left", Width: 6},
	}
}

func buildRows(items []model.HistoryItem, now time.Time) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, table.Row{
			item.Title,
			formatUpdated(item.UpdatedAt, now),
			fmt.Sprintf("%d", item.WordCount),
			fmt.Sprintf("%.0f%%", stats.Progress(item.LastIndex, item.WordCount)*100),
			fmt.Sprintf("%d", maxInt(0, item.WordCount-item.LastIndex-1)),
		})
	}
	return rows
}

func formatUpdated(ms int64, now time.Time) string {
	t := time.UnixMilli(ms)
	if y, d := t.YearDay(), now.YearDay(); y == d && t.Year() == now.Year() {
		return "today " + t.Format("15:04")
	}
	return t.Format("2006-01-02 15:04")
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
