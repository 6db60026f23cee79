package historyui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/spr/internal/model"
)

type fakeStore struct {
	items   []model.HistoryItem
	saved   [][]model.HistoryItem
	loadErr error
}

func (f *fakeStore) LoadHistory(context.Context) ([]model.HistoryItem, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]model.HistoryItem(nil), f.items...), nil
}

func (f *fakeStore) SaveHistory(_ context.Context, items []model.HistoryItem) error {
	f.saved = append(f.saved, items)
	f.items = append([]model.HistoryItem(nil), items...)
	return nil
}

func sampleItems() []model.HistoryItem {
	return []model.HistoryItem{
		{ID: "spr-a-1", Title: "Moby Dick", Text: "Call me Ishmael. Some years ago.", UpdatedAt: 30, WordCount: 6, LastIndex: 2},
		{ID: "spr-b-1", Title: "Notes", Text: "Buy milk; call mom.", UpdatedAt: 20, WordCount: 4},
		{ID: "spr-c-1", Title: "Essay", Text: "A whale of a tale.", UpdatedAt: 10, WordCount: 5},
	}
}

func newSized(t *testing.T, st *fakeStore) *Model {
	t.Helper()
	m := NewModel(st, model.DefaultSettings())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEnterSelectsCurrentItem(t *testing.T) {
	m := newSized(t, &fakeStore{items: sampleItems()})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected quit after selection")
	}
	item, ok := m.Selected()
	if !ok || item.ID != "spr-b-1" {
		t.Fatalf("expected Notes selected, got %+v ok=%v", item, ok)
	}
}

func TestQuitWithoutSelection(t *testing.T) {
	m := newSized(t, &fakeStore{items: sampleItems()})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := m.Selected(); ok {
		t.Fatalf("expected no selection")
	}
}

func TestFilterMatchesTitleAndText(t *testing.T) {
	m := newSized(t, &fakeStore{items: sampleItems()})
	m.Update(runes("/"))
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInput.SetValue("CALL")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter mode to end")
	}
	if len(m.visible) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(m.visible))
	}
	if !strings.Contains(m.View(), "showing: 2") {
		t.Fatalf("expected header to show filtered count")
	}

	m.Update(runes("/"))
	m.filterInput.SetValue("zzz")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.visible) != 0 || !strings.Contains(m.View(), "No texts match") {
		t.Fatalf("expected no matches")
	}
	if _, ok := m.current(); ok {
		t.Fatalf("expected no current item")
	}
}

func TestFilterEscKeepsPrevious(t *testing.T) {
	m := newSized(t, &fakeStore{items: sampleItems()})
	m.Update(runes("/"))
	m.filterInput.SetValue("essay")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filter != "" || len(m.visible) != 3 {
		t.Fatalf("esc must not apply the filter")
	}
}

func TestDeleteRemovesItem(t *testing.T) {
	st := &fakeStore{items: sampleItems()}
	m := newSized(t, st)
	m.Update(runes("d"))
	if len(st.saved) != 1 || len(st.items) != 2 {
		t.Fatalf("expected one save with 2 items, got %+v", st.saved)
	}
	if len(m.items) != 2 || m.items[0].ID != "spr-b-1" {
		t.Fatalf("expected Moby Dick deleted, got %+v", m.items)
	}
}

func TestDetailsTab(t *testing.T) {
	m := newSized(t, &fakeStore{items: sampleItems()})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabDetails {
		t.Fatalf("expected details tab")
	}
	view := m.View()
	for _, want := range []string{"Moby Dick", "word 3 of 6", "Words", "Call me Ishmael."} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in details:\n%s", want, view)
		}
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabLibrary {
		t.Fatalf("expected tabs to wrap around")
	}
}

func TestLoadErrorShown(t *testing.T) {
	m := newSized(t, &fakeStore{loadErr: errors.New("disk on fire")})
	if !strings.Contains(m.View(), "failed to load history: disk on fire") {
		t.Fatalf("expected load error in footer")
	}
}

func TestFormatUpdated(t *testing.T) {
	now := time.Date(2024, 5, 3, 18, 0, 0, 0, time.Local)
	today := time.Date(2024, 5, 3, 9, 15, 0, 0, time.Local).UnixMilli()
	if got := formatUpdated(today, now); got != "today 09:15" {
		t.Fatalf("unexpected %q", got)
	}
	earlier := time.Date(2023, 5, 3, 9, 15, 0, 0, time.Local).UnixMilli()
	if got := formatUpdated(earlier, now); got != "2023-05-03 09:15" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestBuildRows(t *testing.T) {
	rows := buildRows(sampleItems()[:1], time.Now())
	if len(rows) != 1 {
		t.Fatalf("expected 1 row")
	}
	if rows[0][2] != "6" || rows[0][3] != "50%" || rows[0][4] != "3" {
		t.Fatalf("unexpected row %v", rows[0])
	}
}
