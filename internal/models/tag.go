package models

import (
	"strings"
	"time"
	"unicode"
)

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "#888888"

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// TagSlug derives a lower-case, dash-separated slug from a tag name.
// "Go / gRPC" becomes "go-grpc".
func TagSlug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case r == '+':
			b.WriteString("plus")
			dash = false
		case r == '#':
			b.WriteString("sharp")
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
