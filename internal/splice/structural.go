package splice

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	ferrors "git.home.luguber.info/inful/docsplice/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplice/internal/markers"
)

// Structural cleans source pages on the parsed node tree and locates the shell
// placeholder on the token stream, so the shell is never re-serialized.
type Structural struct {
	set markers.Set
}

// NewStructural returns a structural strategy for the marker set.
func NewStructural(set markers.Set) *Structural {
	return &Structural{set: set}
}

func (s *Structural) Kind() Kind { return KindStructural }

func (s *Structural) Clean(source []byte) (*Cleaned, error) {
	data, cs, err := toUTF8(source)
	if err != nil {
		return nil, ferrors.ParseError(err, "decode source page").Build()
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, ferrors.ParseError(err, "parse source page").Build()
	}

	body := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
	if body == nil {
		return nil, ferrors.ParseError(ErrBodyNotFound, "extract body").Build()
	}

	var stripped []string
	for _, m := range s.set.Source.Strip {
		found := findAll(body, m.MatchesNode)
		if m.First && len(found) > 1 {
			found = found[:1]
		}
		for _, n := range found {
			n.Parent.RemoveChild(n)
			stripped = append(stripped, m.Label())
		}
	}

	escapeTree(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, ferrors.ParseError(err, "render body content").Build()
		}
	}

	return &Cleaned{Fragment: buf.String(), Stripped: stripped, Charset: cs}, nil
}

func (s *Structural) Splice(shell []byte, fragment string) ([]byte, error) {
	start, end, err := s.locate(shell)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(shell)-(end-start)+len(fragment))
	out = append(out, shell[:start]...)
	out = append(out, fragment...)
	out = append(out, shell[end:]...)
	return out, nil
}

// locate returns the byte span of the placeholder's content: start is just past the
// opening tag and end is the offset of the matching closing tag. Nested elements with
// the same tag name are balanced.
func (s *Structural) locate(shell []byte) (int, int, error) {
	placeholder := s.set.Shell.Placeholder
	tag := placeholder.TagName()

	z := html.NewTokenizer(bytes.NewReader(shell))
	offset := 0
	start, depth := -1, 0

	for {
		tt := z.Next()
		tokenStart := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				if start >= 0 {
					return 0, 0, placeholderUnterminated(placeholder)
				}
				return 0, 0, placeholderMissing(placeholder)
			}
			return 0, 0, ferrors.ParseError(z.Err(), "tokenize shell document").Build()

		case html.StartTagToken:
			tok := z.Token()
			if tok.Data != tag {
				continue
			}
			if start >= 0 {
				depth++
				continue
			}
			if placeholder.Matches(tok.Data, tok.Attr) {
				start, depth = offset, 1
			}

		case html.EndTagToken:
			if start < 0 {
				continue
			}
			name, _ := z.TagName()
			if strings.EqualFold(string(name), tag) {
				depth--
				if depth == 0 {
					return start, tokenStart, nil
				}
			}
		}
	}
}

// findFirst returns the first node in document order satisfying match.
func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns matching descendants of root, not descending into matches.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				found = append(found, c)
				continue
			}
			walk(c)
		}
	}
	walk(root)
	return found
}

// escapeTree escapes slashes in text nodes and attribute values below n.
func escapeTree(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			c.Data = EscapeSlashes(c.Data)
		case html.ElementNode:
			for i := range c.Attr {
				c.Attr[i].Val = EscapeSlashes(c.Attr[i].Val)
			}
			escapeTree(c)
		}
	}
}

func placeholderMissing(m markers.Matcher) error {
	return ferrors.TemplateError(ErrPlaceholderNotFound, "locate merge target").
		WithContext("placeholder", m.Selector()).
		Build()
}

func placeholderUnterminated(m markers.Matcher) error {
	return ferrors.TemplateError(ErrPlaceholderUnterminated, "locate merge target").
		WithContext("placeholder", m.Selector()).
		Build()
}
