// Package tokenize splits text into annotated reading tokens.
package tokenize

import (
	"regexp"
	"strings"

	"github.com/verte-zerg/spr/internal/model"
)

const paragraphMarker = "\x00SPR_PARAGRAPH\x00"

const dashes = "-–—"

var paragraphBreak = regexp.MustCompile(`\n[\s\v\p{Z}]*\n+`)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Tokenize returns the tokens of text in reading order. Blank lines flag the
// following token as a paragraph start, and dash-joined words are split into
// one token per segment with the dash kept on every segment but the last.
func Tokenize(text string) []model.Token {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	normalized := lineEndings.Replace(text)
	marked := paragraphBreak.ReplaceAllLiteralString(normalized, " "+paragraphMarker+" ")
	raw := strings.Fields(marked)

	tokens := make([]model.Token, 0, len(raw))
	paragraphNext := false
	for _, word := range raw {
		if word == paragraphMarker {
			paragraphNext = true
			continue
		}
		if i := strings.IndexAny(word, dashes); i >= 0 {
			tokens = appendDashed(tokens, word, firstRune(word[i:]), paragraphNext)
		} else {
			tokens = append(tokens, model.Token{
				Text:                 word,
				IsSentenceEnd:        isSentenceEnd(word),
				IsClauseEnd:          isClauseEnd(word),
				ParagraphBreakBefore: paragraphNext,
			})
		}
		paragraphNext = false
	}
	return tokens
}

func appendDashed(tokens []model.Token, word string, dash rune, paragraph bool) []model.Token {
	parts := strings.FieldsFunc(word, isDash)
	if len(parts) == 0 {
		return tokens
	}
	// FieldsFunc drops empty segments, so a trailing dash means the real last
	// segment was empty and no segment may carry end punctuation.
	endsWithDash := isDash(lastRune(word))
	lastPart := parts[len(parts)-1]
	punctuated := !endsWithDash && strings.ContainsRune(".!?,;:", lastRune(lastPart))
	// The paragraph flag belongs to the first segment of the raw word, which
	// is lost when the word opens with a dash.
	startsWithDash := isDash(firstRune(word))

	for i, part := range parts {
		isLast := i == len(parts)-1 && !endsWithDash
		text := part
		if !isLast {
			text = part + string(dash)
		}
		tokens = append(tokens, model.Token{
			Text:                 text,
			IsSentenceEnd:        punctuated && isLast && isSentenceEnd(text),
			IsClauseEnd:          punctuated && isLast && isClauseEnd(text),
			ParagraphBreakBefore: paragraph && i == 0 && !startsWithDash,
		})
	}
	return tokens
}

func isDash(r rune) bool {
	return strings.ContainsRune(dashes, r)
}

func isSentenceEnd(word string) bool {
	return strings.ContainsRune(".!?", lastRune(word))
}

func isClauseEnd(word string) bool {
	return strings.ContainsRune(";:", lastRune(word))
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	runes := []rune(s)
	return runes[len(runes)-1]
}
