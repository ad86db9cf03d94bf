package render

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

var htmlTag = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*[^>]*>`)

// Content returns model-authored section content as HTML. The prompt asks
// for HTML; a reply without any tags is treated as markdown.
func Content(s string) template.HTML {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if htmlTag.MatchString(s) {
		return template.HTML(s)
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(s) + "</p>")
	}
	return template.HTML(buf.String())
}
