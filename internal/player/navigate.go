package player

import "github.com/verte-zerg/spr/internal/model"

// PreviousSentenceStart finds where the sentence before current begins. A
// position directly after a sentence end already is a sentence start, so the
// search then skips back one more sentence.
func PreviousSentenceStart(current int, tokens []model.Token) int {
	if len(tokens) == 0 || current <= 0 {
		return 0
	}
	current = min(current, len(tokens))
	from := current - 1
	if tokens[current-1].IsSentenceEnd {
		from = current - 2
	}
	for i := from; i >= 0; i-- {
		if tokens[i].IsSentenceEnd {
			if i+1 < len(tokens) {
				return i + 1
			}
			return i
		}
	}
	return 0
}

// NextSentenceStart finds the token after the next sentence end at or after
// current, or the last token when there is none.
func NextSentenceStart(current int, tokens []model.Token) int {
	if len(tokens) == 0 {
		return 0
	}
	last := len(tokens) - 1
	if current >= last {
		return last
	}
	for i := max(current, 0); i < len(tokens); i++ {
		if tokens[i].IsSentenceEnd {
			return min(i+1, last)
		}
	}
	return last
}

// SentenceBounds returns the half-open token range of the sentence holding
// index.
func SentenceBounds(index int, tokens []model.Token) (start, end int) {
	if len(tokens) == 0 {
		return 0, 0
	}
	index = clampIndex(index, len(tokens))
	start = index
	for start > 0 && !tokens[start-1].IsSentenceEnd {
		start--
	}
	end = index
	for end < len(tokens)-1 && !tokens[end].IsSentenceEnd {
		end++
	}
	return start, end + 1
}
