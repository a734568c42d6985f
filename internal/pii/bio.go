package pii

import (
	"strings"
	"unicode/utf8"
)

// BioAnalytics is the non-identifying summary kept in place of a profile bio.
type BioAnalytics struct {
	Length      int  `json:"length"`
	WordCount   int  `json:"word_count"`
	HasURL      bool `json:"has_url"`
	HasEmail    bool `json:"has_email"`
	HasHashtags bool `json:"has_hashtags"`
}

// AnalyzeBio summarizes a bio without retaining any of its text.
func AnalyzeBio(bio string) BioAnalytics {
	if bio == "" {
		return BioAnalytics{}
	}

	words := strings.Fields(bio)
	hasURL := false
	for _, w := range words {
		if strings.Contains(w, "http") || strings.Contains(w, "www.") {
			hasURL = true
			break
		}
	}

	return BioAnalytics{
		Length:      utf8.RuneCountInString(bio),
		WordCount:   len(words),
		HasURL:      hasURL,
		HasEmail:    strings.Contains(bio, "@") && strings.Contains(bio, "."),
		HasHashtags: strings.Contains(bio, "#"),
	}
}

// TextLength is the length surrogate stored in place of free text.
// It counts Unicode code points, not bytes.
func TextLength(s string) int {
	return utf8.RuneCountInString(s)
}
