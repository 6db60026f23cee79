// Package history maintains the bounded list of recently read texts.
package history

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/verte-zerg/spr/internal/model"
)

// MaxItems caps the number of remembered texts.
const MaxItems = 10

const maxTitleRunes = 80

// Upsert replaces the item with the same ID or prepends it, then orders the
// list by most recent update and truncates it to MaxItems. The input slice
// is not modified.
func Upsert(items []model.HistoryItem, item model.HistoryItem) []model.HistoryItem {
	out := make([]model.HistoryItem, 0, len(items)+1)
	replaced := false
	for _, existing := range items {
		if existing.ID == item.ID {
			out = append(out, item)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append([]model.HistoryItem{item}, out...)
	}
	return Normalize(out)
}

// Normalize sorts by UpdatedAt descending and truncates to MaxItems.
func Normalize(items []model.HistoryItem) []model.HistoryItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt > items[j].UpdatedAt
	})
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	return items
}

// Find returns the item with id.
func Find(items []model.HistoryItem, id string) (model.HistoryItem, bool) {
	if id == "" {
		return model.HistoryItem{}, false
	}
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return model.HistoryItem{}, false
}

// FindText returns the saved item holding the same text, ignoring
// surrounding whitespace.
func FindText(items []model.HistoryItem, text string) (model.HistoryItem, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.HistoryItem{}, false
	}
	for _, item := range items {
		if strings.TrimSpace(item.Text) == text {
			return item, true
		}
	}
	return model.HistoryItem{}, false
}

// MakeTextID derives a history key from the trimmed text and the creation
// time. The hash is a 32-bit rolling hash over UTF-16 code units, not a
// cryptographic one.
func MakeTextID(text string, now time.Time) string {
	var hash uint32
	for _, unit := range utf16.Encode([]rune(strings.TrimSpace(text))) {
		hash = hash*31 + uint32(unit)
	}
	return "spr-" + strconv.FormatUint(uint64(hash), 36) + "-" + strconv.FormatInt(now.UnixMilli(), 36)
}

// DeriveTitle uses the first non-blank line, shortened to 80 runes.
func DeriveTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxTitleRunes {
			runes = runes[:maxTitleRunes]
		}
		return string(runes)
	}
	return "Untitled"
}
