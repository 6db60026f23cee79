package history

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/spr/internal/model"
)

func TestUpsertPrependsAndReplaces(t *testing.T) {
	items := []model.HistoryItem{
		{ID: "a", UpdatedAt: 30},
		{ID: "b", UpdatedAt: 20},
	}
	out := Upsert(items, model.HistoryItem{ID: "c", UpdatedAt: 40})
	if len(out) != 3 || out[0].ID != "c" {
		t.Fatalf("expected c first, got %+v", out)
	}
	out = Upsert(out, model.HistoryItem{ID: "b", UpdatedAt: 50, LastIndex: 7})
	if len(out) != 3 {
		t.Fatalf("replace must not grow the list, got %d", len(out))
	}
	if out[0].ID != "b" || out[0].LastIndex != 7 {
		t.Fatalf("expected updated b first, got %+v", out[0])
	}
	if items[1].LastIndex != 0 {
		t.Fatalf("input slice was modified")
	}
}

func TestUpsertCapsByUpdatedAt(t *testing.T) {
	var items []model.HistoryItem
	for i := 0; i < MaxItems+3; i++ {
		items = Upsert(items, model.HistoryItem{ID: fmt.Sprintf("id-%d", i), UpdatedAt: int64(i)})
	}
	if len(items) != MaxItems {
		t.Fatalf("expected %d items, got %d", MaxItems, len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].UpdatedAt < items[i].UpdatedAt {
			t.Fatalf("items not sorted by updatedAt desc: %+v", items)
		}
	}
	if _, ok := Find(items, "id-2"); ok {
		t.Fatalf("expected the oldest entries to be evicted")
	}
	if _, ok := Find(items, "id-12"); !ok {
		t.Fatalf("expected the newest entry to be kept")
	}
}

func TestMakeTextID(t *testing.T) {
	id := MakeTextID("  abc \n", time.UnixMilli(0))
	if id != "spr-22ci-0" {
		t.Fatalf("unexpected id %q", id)
	}
	later := MakeTextID("abc", time.UnixMilli(36))
	if later != "spr-22ci-10" {
		t.Fatalf("unexpected id %q", later)
	}
	if MakeTextID("abd", time.UnixMilli(0)) == id {
		t.Fatalf("different texts must hash differently")
	}
}

func TestDeriveTitle(t *testing.T) {
	if got := DeriveTitle("\n   \n  First line  \nsecond"); got != "First line" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := DeriveTitle("  \n\t"); got != "Untitled" {
		t.Fatalf("unexpected title %q", got)
	}
	long := strings.Repeat("é", 100)
	if got := DeriveTitle(long); len([]rune(got)) != 80 {
		t.Fatalf("expected 80 runes, got %d", len([]rune(got)))
	}
}

func TestFindText(t *testing.T) {
	items := []model.HistoryItem{
		{ID: "a", Text: "first text"},
		{ID: "b", Text: "\n second text \n"},
	}
	if item, ok := FindText(items, "second text"); !ok || item.ID != "b" {
		t.Fatalf("expected b, got %+v ok=%v", item, ok)
	}
	if _, ok := FindText(items, "   "); ok {
		t.Fatalf("blank text must not match")
	}
	if _, ok := FindText(items, "third"); ok {
		t.Fatalf("unexpected match")
	}
}
