package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/spr/internal/history"
	"github.com/verte-zerg/spr/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "spr.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return st
}

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	got, err := st.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got != model.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	want := model.DefaultSettings()
	want.WPM = 520
	want.ORPMode = model.OrpShort
	want.ContextEnabled = true
	if err := st.SaveSettings(ctx, want); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	got, err = st.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := st.ResetSettings(ctx); err != nil {
		t.Fatalf("reset settings: %v", err)
	}
	got, err = st.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got != model.DefaultSettings() {
		t.Fatalf("expected defaults after reset, got %+v", got)
	}
}

func TestLoadSettingsMergesPartialAndNormalizes(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	if _, err := st.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, '')`,
		settingsKey, `{"wpm": 5000, "maxWpm": 4000, "minWpm": 10}`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := st.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	def := model.DefaultSettings()
	if got.MaxWPM != def.MaxWPM || got.MinWPM != def.MinWPM || got.WPM != def.MaxWPM {
		t.Fatalf("unexpected wpm range %+v", got)
	}
	if got.SkipSize != def.SkipSize || !got.ORPEnabled {
		t.Fatalf("missing keys must come from defaults, got %+v", got)
	}
}

func TestLoadSettingsRestoresPauseMultipliers(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	if _, err := st.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, '')`,
		settingsKey, `{"sentencePauseMultiplier": -1, "clausePauseMultiplier": 0, "paragraphPauseMultiplier": -2.5}`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := st.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got != model.DefaultSettings() {
		t.Fatalf("expected default multipliers, got %+v", got)
	}
}

func TestLoadSettingsCorruptFallsBack(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	if _, err := st.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, '')`,
		settingsKey, `{not json`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := st.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got != model.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	session, err := st.LoadSession(ctx)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if session != (model.Session{}) {
		t.Fatalf("expected empty session, got %+v", session)
	}
	if err := st.SaveSession(ctx, model.Session{ActiveID: "spr-x-1", ActiveIndex: 42}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	session, err = st.LoadSession(ctx)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if session.ActiveID != "spr-x-1" || session.ActiveIndex != 42 {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestHistoryUpsertCapAndClear(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	for i := 0; i < history.MaxItems+2; i++ {
		item := model.HistoryItem{
			ID:        fmt.Sprintf("id-%d", i),
			Title:     fmt.Sprintf("Text %d", i),
			Text:      "hello world",
			CreatedAt: int64(i),
			UpdatedAt: int64(i),
			WordCount: 2,
		}
		if _, err := st.UpsertHistory(ctx, item); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	items, err := st.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(items) != history.MaxItems {
		t.Fatalf("expected %d items, got %d", history.MaxItems, len(items))
	}
	if items[0].ID != "id-11" {
		t.Fatalf("expected newest first, got %s", items[0].ID)
	}

	updated := items[3]
	updated.LastIndex = 1
	updated.UpdatedAt = 100
	if _, err := st.UpsertHistory(ctx, updated); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok, err := st.GetHistoryItem(ctx, updated.ID)
	if err != nil || !ok {
		t.Fatalf("get history item: ok=%v err=%v", ok, err)
	}
	if got.LastIndex != 1 || got.UpdatedAt != 100 {
		t.Fatalf("unexpected item %+v", got)
	}
	items, err = st.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(items) != history.MaxItems || items[0].ID != updated.ID {
		t.Fatalf("expected updated item first, got %+v", items[0])
	}

	if err := st.ClearHistory(ctx); err != nil {
		t.Fatalf("clear history: %v", err)
	}
	items, err = st.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty history, got %d", len(items))
	}
	if _, ok, _ := st.GetHistoryItem(ctx, updated.ID); ok {
		t.Fatalf("expected item to be gone")
	}
}
