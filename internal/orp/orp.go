// Package orp selects the optimal recognition point of a word.
package orp

import (
	"unicode"

	"github.com/verte-zerg/spr/internal/model"
)

// Index returns the rune index of the letter to anchor on. Leading and
// trailing punctuation are ignored when measuring the word; an empty word
// yields 0.
func Index(word string, mode model.OrpMode) int {
	runes := []rune(word)
	if len(runes) == 0 {
		return 0
	}
	start, end := coreBounds(runes)
	coreLen := end - start + 1
	if coreLen < 1 {
		coreLen = 1
	}
	offset := baseOffset(coreLen)
	switch mode {
	case model.OrpShort:
		offset = max(0, offset-1)
	case model.OrpLong:
		offset = min(coreLen-1, offset+1)
	}
	return min(len(runes)-1, start+offset)
}

// Split cuts word around its recognition point.
func Split(word string, mode model.OrpMode) (prefix, pivot, suffix string) {
	runes := []rune(word)
	if len(runes) == 0 {
		return "", "", ""
	}
	i := Index(word, mode)
	return string(runes[:i]), string(runes[i]), string(runes[i+1:])
}

func baseOffset(length int) int {
	switch {
	case length <= 1:
		return 0
	case length <= 5:
		return 1
	case length <= 9:
		return 2
	case length <= 13:
		return 3
	default:
		return 4
	}
}

func coreBounds(runes []rune) (start, end int) {
	start = -1
	for i, r := range runes {
		if isAlphaNum(r) {
			start = i
			break
		}
	}
	if start == -1 {
		return 0, len(runes) - 1
	}
	end = len(runes) - 1
	for end > start && !isAlphaNum(runes[end]) {
		end--
	}
	return start, end
}

func isAlphaNum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
