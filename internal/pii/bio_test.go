package pii

import "testing"

func TestAnalyzeBio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bio  string
		want BioAnalytics
	}{
		{
			name: "empty bio",
			bio:  "",
			want: BioAnalytics{},
		},
		{
			name: "plain words",
			bio:  "coffee and cats",
			want: BioAnalytics{Length: 15, WordCount: 3},
		},
		{
			name: "url email and hashtag",
			bio:  "shop www.example.com mail me@example.com #travel",
			want: BioAnalytics{Length: 48, WordCount: 5, HasURL: true, HasEmail: true, HasHashtags: true},
		},
		{
			name: "length counts code points",
			bio:  "çay ☕",
			want: BioAnalytics{Length: 5, WordCount: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := AnalyzeBio(tt.bio); got != tt.want {
				t.Errorf("AnalyzeBio(%q) = %+v, want %+v", tt.bio, got, tt.want)
			}
		})
	}
}

func TestTextLength(t *testing.T) {
	t.Parallel()

	if got := TextLength("héllo"); got != 5 {
		t.Errorf("TextLength(héllo) = %d, want 5", got)
	}
	if got := TextLength(""); got != 0 {
		t.Errorf("TextLength(\"\") = %d, want 0", got)
	}
}
