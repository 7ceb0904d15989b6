package validation

import (
	"net/url"
	"regexp"
	"strings"

	"contentflow/internal/models"
)

// SlugPattern defines the valid agency slug format: lowercase alphanumeric
// with hyphens.
var SlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// CustomColumnPattern defines the valid custom column ID format.
var CustomColumnPattern = regexp.MustCompile(`^custom_[a-z0-9_-]+$`)

// knownChannels are the social channels a piece can target.
var knownChannels = map[string]bool{
	"instagram": true,
	"facebook":  true,
	"tiktok":    true,
	"linkedin":  true,
	"youtube":   true,
	"x":         true,
}

// ValidateSlug checks if an agency slug matches the allowed pattern.
func ValidateSlug(slug string) bool {
	if slug == "" || len(slug) > 100 {
		return false
	}
	return SlugPattern.MatchString(slug)
}

// NormalizeSlug lowercases a slug so lookups are case-insensitive.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// ValidateTitle checks a content piece or request title.
func ValidateTitle(title string) (bool, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, "title is required"
	}
	if len(title) > 200 {
		return false, "title must be 200 characters or fewer"
	}
	return true, ""
}

// ValidateFormat checks the content format enum.
func ValidateFormat(format string) bool {
	switch format {
	case models.FormatPost, models.FormatStory, models.FormatReel, models.FormatCarousel:
		return true
	}
	return false
}

// ValidateChannels checks that every entry is a known social channel.
func ValidateChannels(channels []string) (bool, string) {
	for _, c := range channels {
		if !knownChannels[strings.ToLower(c)] {
			return false, "unknown channel: " + c
		}
	}
	return true, ""
}

// ValidateColumnID checks a kanban column identifier: a status name, one of
// the well-known literals, or a custom_* ID.
func ValidateColumnID(columnID string) bool {
	if columnID == models.ColumnScheduled || columnID == models.ColumnRequests {
		return true
	}
	if models.ValidStatus(columnID) {
		return true
	}
	return CustomColumnPattern.MatchString(columnID)
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https
// only). Used for supplier links and media file URLs; prevents javascript:,
// data:, and other dangerous schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}
