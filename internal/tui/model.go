// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/spr/internal/history"
	"github.com/verte-zerg/spr/internal/model"
	"github.com/verte-zerg/spr/internal/player"
	"github.com/verte-zerg/spr/internal/tokenize"
)

const (
	frameInterval = 16 * time.Millisecond
	saveDebounce  = 250 * time.Millisecond
)

// Persister is the storage the reader writes through.
type Persister interface {
	SaveSettings(ctx context.Context, settings model.Settings) error
	SaveSession(ctx context.Context, session model.Session) error
	UpsertHistory(ctx context.Context, item model.HistoryItem) ([]model.HistoryItem, error)
}

// Options configures the reader.
type Options struct {
	Store    Persister
	Settings model.Settings
	Text     string
	Title    string

	// Item is set when resuming a saved text.
	Item         *model.HistoryItem
	InitialIndex int

	// SaveSettings persists settings changed from the keyboard.
	SaveSettings bool

	Clipboard func() (string, error)
	Now       func() time.Time
}

type frameMsg struct {
	loop uint64
	at   time.Time
}

type indexMsg int

type saveMsg struct {
	gen uint64
}

// Model implements the Bubble Tea reader.
type Model struct {
	store        Persister
	saveSettings bool
	clipboard    func() (string, error)
	now          func() time.Time

	settings model.Settings
	text     string
	title    string
	tokens   []model.Token

	itemID    string
	createdAt int64

	player        *player.Player
	scheduledLoop uint64
	framePending  bool

	saveGen     uint64
	savePending bool

	width  int
	height int
	notice string
}

// NewModel constructs a reader model.
func NewModel(opts Options) *Model {
	m := &Model{
		store:        opts.Store,
		saveSettings: opts.SaveSettings,
		clipboard:    opts.Clipboard,
		now:          opts.Now,
		settings:     opts.Settings.Normalize(),
	}
	if m.now == nil {
		m.now = time.Now
	}
	text, title := opts.Text, opts.Title
	if opts.Item != nil {
		m.itemID = opts.Item.ID
		m.createdAt = opts.Item.CreatedAt
		text = opts.Item.Text
		if title == "" {
			title = opts.Item.Title
		}
	}
	m.text = text
	m.title = title
	m.tokens = tokenize.Tokenize(text)
	m.player = player.New(player.Options{
		Tokens:       func() []model.Token { return m.tokens },
		Settings:     func() model.Settings { return m.settings },
		InitialIndex: opts.InitialIndex,
		Now:          m.now,
	})
	return m
}

// Settings returns the current settings.
func (m *Model) Settings() model.Settings {
	return m.settings
}

// State returns the playback snapshot.
func (m *Model) State() player.State {
	return m.player.State()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitIndex(m.player.IndexChanges())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case frameMsg:
		if m.player.Frame(msg.loop, msg.at) {
			return m, frameCmd(msg.loop)
		}
		if msg.loop == m.scheduledLoop {
			m.framePending = false
		}
		return m, m.syncLoop()
	case indexMsg:
		return m, tea.Batch(waitIndex(m.player.IndexChanges()), m.scheduleSave())
	case saveMsg:
		if msg.gen != m.saveGen || !m.savePending {
			return m, nil
		}
		m.flush()
		return m, nil
	case tea.KeyMsg:
		if m.handleKey(msg) {
			m.flush()
			return m, tea.Quit
		}
		return m, m.syncLoop()
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	contentWidth := int(float64(width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	content := strings.Join(m.renderStage(contentWidth), "\n")
	if m.height == 0 {
		return content + "\n" + m.renderFooter()
	}

	var bottom []string
	if m.settings.ShowProgressBar && len(m.tokens) > 0 {
		fraction := float64(m.player.State().Index+1) / float64(len(m.tokens))
		bottom = append(bottom, renderProgressBar(fraction, contentWidth))
	}
	bottom = append(bottom, m.renderFooter())
	bodyHeight := m.height - len(bottom)
	if bodyHeight < 1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	lines := []string{body}
	for _, line := range bottom {
		lines = append(lines, lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, line))
	}
	return strings.Join(lines, "\n")
}

// handleKey applies a key and reports whether the reader should quit.
func (m *Model) handleKey(msg tea.KeyMsg) bool {
	m.notice = ""
	if msg.Type == tea.KeySpace {
		m.togglePlay()
		return false
	}
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return true
	case "left":
		m.player.Previous()
	case "right":
		m.player.Next()
	case "shift+left":
		m.player.SkipBy(-m.settings.SkipSize)
	case "shift+right":
		m.player.SkipBy(m.settings.SkipSize)
	case "[":
		m.player.SkipToPreviousSentence()
	case "]":
		m.player.SkipToNextSentence()
	case "home", "r":
		m.player.Restart()
	case "up", "+", "=":
		m.updateSettings(m.settings.WithWPM(m.settings.WPM + m.settings.WPMStep))
	case "down", "-":
		m.updateSettings(m.settings.WithWPM(m.settings.WPM - m.settings.WPMStep))
	case "o":
		s := m.settings
		s.ORPEnabled = !s.ORPEnabled
		m.updateSettings(s)
	case "m":
		s := m.settings
		s.ORPMode = s.ORPMode.Next()
		m.updateSettings(s)
	case "p":
		s := m.settings
		s.PauseOnPunctuation = !s.PauseOnPunctuation
		m.updateSettings(s)
	case "P":
		s := m.settings
		s.PauseOnParagraph = !s.PauseOnParagraph
		m.updateSettings(s)
	case "w":
		s := m.settings
		s.WarmupEnabled = !s.WarmupEnabled
		m.updateSettings(s)
	case "g":
		s := m.settings
		s.ShowGhostPreview = !s.ShowGhostPreview
		m.updateSettings(s)
	case "b":
		s := m.settings
		s.ShowProgressBar = !s.ShowProgressBar
		m.updateSettings(s)
	case "c":
		s := m.settings
		s.ContextEnabled = !s.ContextEnabled
		m.updateSettings(s)
	case "v":
		m.pasteClipboard()
	}
	return false
}

func (m *Model) togglePlay() {
	if m.player.Active() {
		m.player.Pause()
		return
	}
	if len(m.tokens) == 0 {
		m.notice = "nothing to read"
		return
	}
	m.player.Play()
	m.startHistory()
}

// startHistory registers the text in history the first time it is played
// and refreshes it afterwards.
func (m *Model) startHistory() {
	now := m.now()
	if m.itemID == "" {
		m.itemID = history.MakeTextID(m.text, now)
		m.createdAt = now.UnixMilli()
	}
	if m.title == "" {
		m.title = history.DeriveTitle(m.text)
	}
	m.persist()
}

func (m *Model) updateSettings(next model.Settings) {
	m.settings = next.Normalize()
	if m.store != nil && m.saveSettings {
		if err := m.store.SaveSettings(context.Background(), m.settings); err != nil {
			m.fail("failed to save settings", err)
		}
	}
	if m.itemID != "" {
		m.savePending = true
	}
}

func (m *Model) pasteClipboard() {
	if m.clipboard == nil {
		m.notice = "clipboard unavailable"
		return
	}
	text, err := m.clipboard()
	if err != nil {
		m.fail("failed to read clipboard", err)
		return
	}
	m.flush()
	m.text = text
	m.title = ""
	m.itemID = ""
	m.createdAt = 0
	m.tokens = tokenize.Tokenize(text)
	if m.player.State().Status == player.StatusIdle {
		m.player.Reset()
	} else {
		m.player.SetStatus(player.StatusPaused)
		m.player.Seek(0)
	}
	m.notice = fmt.Sprintf("loaded %d words", len(m.tokens))
}

// syncLoop starts a frame loop when the player entered a new active loop.
func (m *Model) syncLoop() tea.Cmd {
	if !m.player.Active() {
		m.framePending = false
		return nil
	}
	loop := m.player.Loop()
	if m.framePending && loop == m.scheduledLoop {
		return nil
	}
	m.scheduledLoop = loop
	m.framePending = true
	return frameCmd(loop)
}

func (m *Model) scheduleSave() tea.Cmd {
	if m.itemID == "" {
		return nil
	}
	m.saveGen++
	m.savePending = true
	return saveCmd(m.saveGen)
}

// flush writes the position if a save is pending.
func (m *Model) flush() {
	if !m.savePending {
		return
	}
	m.persist()
}

func (m *Model) persist() {
	m.savePending = false
	if m.store == nil || m.itemID == "" {
		return
	}
	ctx := context.Background()
	index := m.player.State().Index
	if err := m.store.SaveSession(ctx, model.Session{ActiveID: m.itemID, ActiveIndex: index}); err != nil {
		m.fail("failed to save session", err)
	}
	item := model.HistoryItem{
		ID:        m.itemID,
		Title:     m.title,
		Text:      m.text,
		CreatedAt: m.createdAt,
		UpdatedAt: m.now().UnixMilli(),
		WordCount: len(m.tokens),
		LastIndex: index,
	}
	if _, err := m.store.UpsertHistory(ctx, item); err != nil {
		m.fail("failed to save history", err)
	}
}

func (m *Model) fail(msg string, err error) {
	logErrf("%s: %v\n", msg, err)
	m.notice = msg
}

func frameCmd(loop uint64) tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{loop: loop, at: t}
	})
}

func saveCmd(gen uint64) tea.Cmd {
	return tea.Tick(saveDebounce, func(time.Time) tea.Msg {
		return saveMsg{gen: gen}
	})
}

func waitIndex(ch <-chan int) tea.Cmd {
	return func() tea.Msg {
		return indexMsg(<-ch)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
