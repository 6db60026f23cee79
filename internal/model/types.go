// Package model defines shared data structures.
package model

// Token is a single reading unit annotated with boundary flags.
type Token struct {
	Text                 string `json:"text"`
	IsSentenceEnd        bool   `json:"isSentenceEnd"`
	IsClauseEnd          bool   `json:"isClauseEnd"`
	ParagraphBreakBefore bool   `json:"paragraphBreakBefore"`
}

// OrpMode selects how far into a word the recognition point sits.
type OrpMode string

// ORP modes.
const (
	OrpShort  OrpMode = "short"
	OrpMedium OrpMode = "medium"
	OrpLong   OrpMode = "long"
)

// Valid reports whether the mode is one of the known values.
func (m OrpMode) Valid() bool {
	switch m {
	case OrpShort, OrpMedium, OrpLong:
		return true
	default:
		return false
	}
}

// Next cycles short -> medium -> long -> short.
func (m OrpMode) Next() OrpMode {
	switch m {
	case OrpShort:
		return OrpMedium
	case OrpMedium:
		return OrpLong
	default:
		return OrpShort
	}
}

// Settings governs pacing and presentation.
type Settings struct {
	WPM      int `json:"wpm"`
	MinWPM   int `json:"minWpm"`
	MaxWPM   int `json:"maxWpm"`
	WPMStep  int `json:"wpmStep"`
	SkipSize int `json:"skipSize"`

	ORPEnabled bool    `json:"orpEnabled"`
	ORPMode    OrpMode `json:"orpMode"`

	PauseOnPunctuation      bool    `json:"pauseOnPunctuation"`
	SentencePauseMultiplier float64 `json:"sentencePauseMultiplier"`
	ClausePauseMultiplier   float64 `json:"clausePauseMultiplier"`

	PauseOnParagraph         bool    `json:"pauseOnParagraph"`
	ParagraphPauseMultiplier float64 `json:"paragraphPauseMultiplier"`

	WarmupEnabled bool `json:"warmupEnabled"`

	ShowGhostPreview bool `json:"showGhostPreview"`
	ShowProgressBar  bool `json:"showProgressBar"`
	ContextEnabled   bool `json:"contextEnabled"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		WPM:                      300,
		MinWPM:                   50,
		MaxWPM:                   1200,
		WPMStep:                  10,
		SkipSize:                 10,
		ORPEnabled:               true,
		ORPMode:                  OrpMedium,
		PauseOnPunctuation:       true,
		SentencePauseMultiplier:  2.4,
		ClausePauseMultiplier:    1.6,
		PauseOnParagraph:         true,
		ParagraphPauseMultiplier: 2.5,
		WarmupEnabled:            true,
		ShowGhostPreview:         true,
		ShowProgressBar:          true,
	}
}

// Normalize narrows the wpm range to the built-in bounds, clamps wpm into it
// and restores unusable values from the defaults.
func (s Settings) Normalize() Settings {
	def := DefaultSettings()
	if s.MaxWPM <= 0 || s.MaxWPM > def.MaxWPM {
		s.MaxWPM = def.MaxWPM
	}
	if s.MinWPM < def.MinWPM {
		s.MinWPM = def.MinWPM
	}
	if s.MinWPM > s.MaxWPM {
		s.MinWPM = s.MaxWPM
	}
	if s.WPMStep <= 0 {
		s.WPMStep = def.WPMStep
	}
	if s.SkipSize <= 0 {
		s.SkipSize = def.SkipSize
	}
	if !s.ORPMode.Valid() {
		s.ORPMode = OrpMedium
	}
	if s.SentencePauseMultiplier <= 0 {
		s.SentencePauseMultiplier = def.SentencePauseMultiplier
	}
	if s.ClausePauseMultiplier <= 0 {
		s.ClausePauseMultiplier = def.ClausePauseMultiplier
	}
	if s.ParagraphPauseMultiplier <= 0 {
		s.ParagraphPauseMultiplier = def.ParagraphPauseMultiplier
	}
	return s.WithWPM(s.WPM)
}

// WithWPM returns a copy with wpm clamped into [MinWPM, MaxWPM].
func (s Settings) WithWPM(wpm int) Settings {
	s.WPM = ClampInt(wpm, s.MinWPM, s.MaxWPM)
	return s
}

// EffectiveWPM is the clamped rate used for pacing, never below 1.
func (s Settings) EffectiveWPM() int {
	wpm := ClampInt(s.WPM, s.MinWPM, s.MaxWPM)
	if wpm < 1 {
		return 1
	}
	return wpm
}

// ClampInt limits v to [lo, hi]; hi wins when the range is inverted.
func ClampInt(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// HistoryItem is a saved text with its reading position.
type HistoryItem struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Text      string `json:"text" yaml:"text"`
	CreatedAt int64  `json:"createdAt" yaml:"created_at"`
	UpdatedAt int64  `json:"updatedAt" yaml:"updated_at"`
	WordCount int    `json:"wordCount" yaml:"word_count"`
	LastIndex int    `json:"lastIndex" yaml:"last_index"`
}

// Session points at the history item being read.
type Session struct {
	ActiveID    string `json:"activeId"`
	ActiveIndex int    `json:"activeIndex"`
}
