package http

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from user-authored free text before it is stored.
// The result is plain text: entities produced by the policy are decoded so
// characters such as & and " round-trip through the JSON API unchanged.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *Sanitizer) Text(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(raw)))
}

// TextPtr sanitizes an optional field, keeping nil as nil.
func (s *Sanitizer) TextPtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	clean := s.Text(*raw)
	return &clean
}
