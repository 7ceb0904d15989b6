package validation

import (
	"strings"
	"testing"

	"contentflow/internal/models"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name string
		slug string
		want bool
	}{
		{"valid alphanumeric", "agencia123", true},
		{"valid with hyphen", "agencia-norte", true},
		{"single char", "a", true},
		{"numbers only", "12345", true},
		{"empty string", "", false},
		{"too long", strings.Repeat("a", 101), false},
		{"max length", strings.Repeat("a", 100), true},
		{"uppercase", "Agencia", false},
		{"contains space", "agencia norte", false},
		{"contains dot", "agencia.norte", false},
		{"contains slash", "agencia/norte", false},
		{"leading hyphen", "-agencia", false},
		{"path traversal attempt", "../etc/passwd", false},
		{"unicode", "日本語", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSlug(tt.slug)
			if got != tt.want {
				t.Errorf("ValidateSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestNormalizeSlug(t *testing.T) {
	if got := NormalizeSlug("  Agencia-Norte "); got != "agencia-norte" {
		t.Errorf("NormalizeSlug = %q", got)
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		valid   bool
		wantMsg string
	}{
		{"valid", "campanha de outono", true, ""},
		{"empty", "", false, "title is required"},
		{"whitespace only", "   ", false, "title is required"},
		{"too long", strings.Repeat("a", 201), false, "title must be 200 characters or fewer"},
		{"max length", strings.Repeat("a", 200), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateTitle(tt.title)
			if valid != tt.valid {
				t.Errorf("ValidateTitle(%q) valid = %v, want %v", tt.title, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateTitle(%q) msg = %q, want %q", tt.title, msg, tt.wantMsg)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{models.FormatPost, models.FormatStory, models.FormatReel, models.FormatCarousel} {
		if !ValidateFormat(f) {
			t.Errorf("ValidateFormat(%q) = false", f)
		}
	}
	for _, f := range []string{"", "video", "POST", "tweet"} {
		if ValidateFormat(f) {
			t.Errorf("ValidateFormat(%q) = true", f)
		}
	}
}

func TestValidateChannels(t *testing.T) {
	tests := []struct {
		name     string
		channels []string
		valid    bool
	}{
		{"empty list", nil, true},
		{"known channels", []string{"instagram", "tiktok"}, true},
		{"case insensitive", []string{"Instagram", "LINKEDIN"}, true},
		{"unknown channel", []string{"instagram", "myspace"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateChannels(tt.channels)
			if valid != tt.valid {
				t.Errorf("ValidateChannels(%v) = %v (%s), want %v", tt.channels, valid, msg, tt.valid)
			}
		})
	}
}

func TestValidateColumnID(t *testing.T) {
	tests := []struct {
		name     string
		columnID string
		want     bool
	}{
		{"status column", "draft", true},
		{"in_review column", "in_review", true},
		{"scheduled literal", "scheduled", true},
		{"requests literal", "requests", true},
		{"custom column", "custom_ideias", true},
		{"custom with hyphen", "custom_pauta-semanal", true},
		{"empty", "", false},
		{"unknown plain id", "backlog", false},
		{"custom prefix only", "custom_", false},
		{"custom uppercase", "custom_Ideias", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateColumnID(tt.columnID); got != tt.want {
				t.Errorf("ValidateColumnID(%q) = %v, want %v", tt.columnID, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.com", true, ""},
		{"valid http", "http://example.com", true, ""},
		{"valid with path", "https://example.com/path/to/file.mp4", true, ""},
		{"valid with port", "https://example.com:8080", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"data scheme", "data:text/html,<script>alert(1)</script>", false, "URL must use http:// or https:// scheme"},
		{"file scheme", "file:///etc/passwd", false, "URL must use http:// or https:// scheme"},
		{"no scheme", "example.com", false, "URL must use http:// or https:// scheme"},
		{"uppercase scheme", "HTTPS://example.com", true, ""},
		{"scheme only", "https://", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}
