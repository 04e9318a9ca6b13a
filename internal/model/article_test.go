package model

import "testing"

func TestCountryMatches(t *testing.T) {
	tests := []struct {
		name   string
		tag    string
		filter string
		want   bool
	}{
		{"empty filter matches everything", "US", "", true},
		{"exact match", "US", "US", true},
		{"case-insensitive match", "us", "US", true},
		{"mismatch", "GB", "US", false},
		{"GLOBAL matches GLOBAL", "GLOBAL", "GLOBAL", true},
		{"GLOBAL matches GLOBAL-TRENDING", "GLOBAL-TRENDING", "GLOBAL", true},
		{"GLOBAL does not match country trending", "US-TRENDING", "GLOBAL", false},
		{"GLOBAL is a union not a prefix", "GLOBALIZATION", "GLOBAL", false},
		{"country trending needs exact filter", "US-TRENDING", "US-TRENDING", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountryMatches(tt.tag, tt.filter); got != tt.want {
				t.Errorf("CountryMatches(%q, %q) = %v, want %v", tt.tag, tt.filter, got, tt.want)
			}
		})
	}
}

func TestArticleContent(t *testing.T) {
	a := Article{OriginalContent: "original"}
	if got := a.Content(); got != "original" {
		t.Errorf("got %q, want original content", got)
	}

	a.AIEnhancedContent = "enhanced"
	if got := a.Content(); got != "enhanced" {
		t.Errorf("got %q, want enhanced content", got)
	}
}

func TestFilterQueryOffset(t *testing.T) {
	f := FilterQuery{Page: 3, PageSize: 30}
	if got := f.Offset(); got != 60 {
		t.Errorf("got %d, want 60", got)
	}
}
