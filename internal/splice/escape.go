package splice

import (
	"regexp"
	"strings"
)

// EscapeSlashes replaces every "/" in s with `\/`.
//
// The shell theme embeds the article body inside a string literal elsewhere on the
// page, and an unescaped "</" sequence would terminate that literal early.
func EscapeSlashes(s string) string {
	return strings.ReplaceAll(s, "/", `\/`)
}

var (
	// An unterminated comment runs to the end of the input, as it does for the HTML parser.
	commentPattern   = regexp.MustCompile(`(?s)<!--.*?(?:-->|$)`)
	markupTagPattern = regexp.MustCompile(`(?s)<!--.*?(?:-->|$)|<[^>]*>`)
	attrValuePattern = regexp.MustCompile(`=\s*("[^"]*"|'[^']*'|[^\s"'>]+)`)
)

// escapeMarkup applies EscapeSlashes to text and attribute values of raw markup while
// leaving tag syntax such as "</p>" and "<br/>" intact. Comments and declarations are
// copied unchanged, matching what the structural strategy does with comment nodes.
func escapeMarkup(markup string) string {
	var b strings.Builder
	b.Grow(len(markup) + len(markup)/16)

	last := 0
	for _, loc := range markupTagPattern.FindAllStringIndex(markup, -1) {
		b.WriteString(EscapeSlashes(markup[last:loc[0]]))
		b.WriteString(escapeTag(markup[loc[0]:loc[1]]))
		last = loc[1]
	}
	b.WriteString(EscapeSlashes(markup[last:]))
	return b.String()
}

// maskComments blanks out comments so tag patterns never match inside them. The
// result has the same length as markup, so offsets carry over.
func maskComments(markup string) string {
	return commentPattern.ReplaceAllStringFunc(markup, func(c string) string {
		return strings.Repeat(" ", len(c))
	})
}

func escapeTag(tag string) string {
	if strings.HasPrefix(tag, "<!") || strings.HasPrefix(tag, "</") {
		return tag
	}
	return attrValuePattern.ReplaceAllStringFunc(tag, EscapeSlashes)
}
