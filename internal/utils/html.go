package utils

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()

	blockTags  = regexp.MustCompile(`(?i)<\s*(br\s*/?|/p|/pre|/h[1-6]|/div)\s*>`)
	listItems  = regexp.MustCompile(`(?i)<\s*li[^>]*>`)
	tagOpen    = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9]*)`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// htmlTags are the element names treated as markup. Anything else in angle
// brackets, such as the type parameter in List<String>, is answer text.
var htmlTags = map[string]bool{
	"a": true, "b": true, "blockquote": true, "br": true, "code": true, "div": true,
	"em": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "i": true, "img": true, "li": true, "ol": true, "p": true, "pre": true,
	"script": true, "span": true, "strong": true, "style": true, "sub": true, "sup": true,
	"table": true, "tbody": true, "td": true, "th": true, "thead": true, "tr": true,
	"u": true, "ul": true,
}

func escapeNonTags(s string) string {
	return tagOpen.ReplaceAllStringFunc(s, func(m string) string {
		name := strings.ToLower(strings.TrimPrefix(m[1:], "/"))
		if htmlTags[name] {
			return m
		}
		return "&lt;" + m[1:]
	})
}

// PlainText renders answer HTML as terminal text: block ends become line
// breaks, list items become bullets and all other tags are dropped.
func PlainText(s string) string {
	s = escapeNonTags(s)
	s = listItems.ReplaceAllString(s, "\n• ")
	s = blockTags.ReplaceAllString(s, "\n")
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
