package splice

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/docsplice/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplice/internal/markers"
)

const contentGroupName = "content"

var (
	bodyPattern    = regexp.MustCompile(`(?is)<body(?:[\s/][^>]*)?>(.*)</body\s*>`)
	tagAttrPattern = regexp.MustCompile(`([^\s"'>/=]+)(?:\s*=\s*("[^"]*"|'[^']*'|[^\s"'>]+))?`)
)

// element finds one marker's elements in raw markup.
type element struct {
	matcher markers.Matcher
	open    *regexp.Regexp // candidate opening tags; attributes are checked separately
	tags    *regexp.Regexp // opening or closing tags of the same name, for balancing
	custom  *regexp.Regexp // user supplied pattern, replaces open/tags matching
}

// Textual edits raw markup with regular expressions. Elements are found by an
// anchored opening-tag pattern whose attributes are then checked against the marker,
// and end at the closing tag that balances nested elements of the same name. Tags
// inside comments are ignored.
type Textual struct {
	set         markers.Set
	strip       []element
	placeholder element
}

// NewTextual compiles the marker set into patterns.
//
// A strip marker's Pattern matches the whole fragment to remove. A placeholder
// Pattern must define a (?P<content>...) group for the region to replace.
func NewTextual(set markers.Set) (*Textual, error) {
	t := &Textual{set: set}
	for _, m := range set.Source.Strip {
		el, err := compileElement(m)
		if err != nil {
			return nil, err
		}
		t.strip = append(t.strip, el)
	}

	el, err := compileElement(set.Shell.Placeholder)
	if err != nil {
		return nil, err
	}
	if el.custom != nil && el.custom.SubexpIndex(contentGroupName) < 0 {
		return nil, fmt.Errorf("placeholder pattern %q must define a (?P<%s>...) group", el.custom, contentGroupName)
	}
	t.placeholder = el
	return t, nil
}

func compileElement(m markers.Matcher) (element, error) {
	el := element{matcher: m}
	if m.Pattern != "" {
		re, err := regexp.Compile(m.Pattern)
		if err != nil {
			return el, fmt.Errorf("marker %q: %w", m.Label(), err)
		}
		el.custom = re
		return el, nil
	}
	tag := regexp.QuoteMeta(m.TagName())
	el.open = regexp.MustCompile(`(?i)<` + tag + `(?:[\s/][^>]*)?>`)
	el.tags = regexp.MustCompile(`(?i)<(/?)` + tag + `(?:[\s/][^>]*)?>`)
	return el, nil
}

func (t *Textual) Kind() Kind { return KindTextual }

func (t *Textual) Clean(source []byte) (*Cleaned, error) {
	data, cs, err := toUTF8(source)
	if err != nil {
		return nil, ferrors.ParseError(err, "decode source page").Build()
	}

	m := bodyPattern.FindSubmatch(data)
	if m == nil {
		return nil, ferrors.ParseError(ErrBodyNotFound, "extract body").Build()
	}
	body := string(m[1])

	var stripped []string
	for _, el := range t.strip {
		spans := el.findAll(body)
		if len(spans) == 0 {
			continue
		}
		if el.matcher.First {
			spans = spans[:1]
		}
		body = cut(body, spans)
		for range spans {
			stripped = append(stripped, el.matcher.Label())
		}
	}

	return &Cleaned{Fragment: escapeMarkup(body), Stripped: stripped, Charset: cs}, nil
}

func (t *Textual) Splice(shell []byte, fragment string) ([]byte, error) {
	start, end, err := t.placeholder.content(string(shell))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(shell)-(end-start)+len(fragment))
	out = append(out, shell[:start]...)
	out = append(out, fragment...)
	out = append(out, shell[end:]...)
	return out, nil
}

// findAll returns the non-overlapping [start, end) spans of matching elements.
func (el element) findAll(markup string) [][2]int {
	var spans [][2]int
	if el.custom != nil {
		for _, loc := range el.custom.FindAllStringIndex(markup, -1) {
			spans = append(spans, [2]int{loc[0], loc[1]})
		}
		return spans
	}

	masked := maskComments(markup)
	last := 0
	for _, loc := range el.open.FindAllStringIndex(masked, -1) {
		if loc[0] < last || !el.matchesTag(markup[loc[0]:loc[1]]) {
			continue
		}
		_, end, ok := el.closing(masked, loc[1])
		if !ok {
			continue
		}
		spans = append(spans, [2]int{loc[0], end})
		last = end
	}
	return spans
}

// content returns the span between the placeholder's opening and closing tags.
func (el element) content(markup string) (int, int, error) {
	if el.custom != nil {
		loc := el.custom.FindStringSubmatchIndex(markup)
		idx := el.custom.SubexpIndex(contentGroupName)
		if loc == nil || loc[2*idx] < 0 {
			return 0, 0, placeholderMissing(el.matcher)
		}
		return loc[2*idx], loc[2*idx+1], nil
	}

	masked := maskComments(markup)
	for _, loc := range el.open.FindAllStringIndex(masked, -1) {
		if !el.matchesTag(markup[loc[0]:loc[1]]) {
			continue
		}
		start, _, ok := el.closing(masked, loc[1])
		if !ok {
			return 0, 0, placeholderUnterminated(el.matcher)
		}
		return loc[1], start, nil
	}
	return 0, 0, placeholderMissing(el.matcher)
}

// closing finds the closing tag balancing an opening tag that ends at from, counting
// nested elements of the same name.
func (el element) closing(markup string, from int) (int, int, bool) {
	depth := 1
	for _, loc := range el.tags.FindAllStringSubmatchIndex(markup[from:], -1) {
		if loc[3] == loc[2] {
			depth++
			continue
		}
		depth--
		if depth == 0 {
			return from + loc[0], from + loc[1], true
		}
	}
	return 0, 0, false
}

// matchesTag checks the attributes of a raw opening tag against the marker.
func (el element) matchesTag(raw string) bool {
	tag := el.matcher.TagName()
	rest := raw[1+len(tag) : len(raw)-1]
	return el.matcher.Matches(tag, parseAttrs(rest))
}

func parseAttrs(s string) []html.Attribute {
	var attrs []html.Attribute
	for _, m := range tagAttrPattern.FindAllStringSubmatch(s, -1) {
		val := m[2]
		if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
			val = val[1 : len(val)-1]
		}
		attrs = append(attrs, html.Attribute{
			Key: strings.ToLower(m[1]),
			Val: html.UnescapeString(val),
		})
	}
	return attrs
}

// cut removes the sorted, non-overlapping spans from s.
func cut(s string, spans [][2]int) string {
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, sp := range spans {
		b.WriteString(s[last:sp[0]])
		last = sp[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
