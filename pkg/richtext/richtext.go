// Package richtext handles the small inline markup allowed in authored
// takeaways: <strong>, <em>, <b>, <i> and *emphasis*.
package richtext

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	inline     *bluemonday.Policy
	strict     *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		inline = bluemonday.NewPolicy()
		inline.AllowElements("strong", "em", "b", "i")
		strict = bluemonday.StrictPolicy()
	})
	return inline, strict
}

var (
	strongTag    = regexp.MustCompile(`(?i)</?(strong|b)>`)
	emTag        = regexp.MustCompile(`(?i)</?(em|i)>`)
	starEmphasis = regexp.MustCompile(`\*([^*\n]+)\*`)
)

// Sanitize removes every tag outside the inline whitelist. Text entities
// are left escaped.
func Sanitize(s string) string {
	p, _ := policies()
	return p.Sanitize(s)
}

// ToMarkdown converts authored markup to markdown suitable for glamour.
func ToMarkdown(s string) string {
	out := Sanitize(s)
	out = strongTag.ReplaceAllString(out, "**")
	out = emTag.ReplaceAllString(out, "*")
	return html.UnescapeString(out)
}

// Plain strips all markup, including *emphasis* markers.
func Plain(s string) string {
	_, p := policies()
	out := html.UnescapeString(p.Sanitize(s))
	out = starEmphasis.ReplaceAllString(out, "$1")
	return strings.TrimSpace(out)
}

// Split returns the leading bold label of a takeaway and the remaining
// body, both plain. Takeaways without a leading <strong> label return an
// empty label.
func Split(s string) (label, body string) {
	trimmed := strings.TrimSpace(s)
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, "<strong>") {
		return "", Plain(trimmed)
	}
	end := strings.Index(lower, "</strong>")
	if end < 0 {
		return "", Plain(trimmed)
	}
	label = Plain(trimmed[len("<strong>"):end])
	body = Plain(trimmed[end+len("</strong>"):])
	return label, body
}
