package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Water Lilies  ",
			want:  "Water Lilies",
		},
		{
			name:  "multiple spaces between words",
			input: "Water    Lilies",
			want:  "Water Lilies",
		},
		{
			name:  "tabs and newlines",
			input: "Water\t\nLilies",
			want:  "Water Lilies",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café Terrace at Night™ ",
			want:  "Café Terrace at Night™",
		},
		{
			name:  "non-latin characters",
			input: " 神奈川沖浪裏 ",
			want:  "神奈川沖浪裏",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTrimAndNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"  Starry   Night ",
		"The Persistence of Memory",
		"",
	}
	for _, in := range inputs {
		once := TrimAndNormalize(in)
		twice := TrimAndNormalize(once)
		if once != twice {
			t.Errorf("TrimAndNormalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "adds https scheme",
			input: "museum.example.com/collection",
			want:  "https://museum.example.com/collection",
		},
		{
			name:  "upgrades http",
			input: "http://museum.example.com",
			want:  "https://museum.example.com",
		},
		{
			name:  "lowercases host",
			input: "https://Museum.Example.COM/Collection",
			want:  "https://museum.example.com/Collection",
		},
		{
			name:  "strips www",
			input: "https://www.museum.example.com",
			want:  "https://museum.example.com",
		},
		{
			name:  "strips trailing slash",
			input: "https://museum.example.com/collection/",
			want:  "https://museum.example.com/collection",
		},
		{
			name:  "drops utm parameters",
			input: "https://museum.example.com/a?utm_source=mail&id=7",
			want:  "https://museum.example.com/a?id=7",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "no host",
			input: "https://",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
