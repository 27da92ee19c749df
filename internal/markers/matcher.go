package markers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Matcher identifies an element by tag name and attributes.
//
// Classes match token-wise against the class attribute, like a CSS class selector.
// ID and Attrs match exact values. Pattern is an optional regular expression used by
// the textual strategy in place of the pattern derived from the other fields. First
// limits a strip marker to its first match in document order.
type Matcher struct {
	Name    string            `yaml:"name"`
	Tag     string            `yaml:"tag"`
	ID      string            `yaml:"id,omitempty"`
	Classes []string          `yaml:"classes,omitempty"`
	Attrs   map[string]string `yaml:"attrs,omitempty"`
	Pattern string            `yaml:"pattern,omitempty"`
	First   bool              `yaml:"first,omitempty"`
}

var tagNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Validate checks the matcher can be applied by both strategies.
func (m Matcher) Validate() error {
	tag := strings.ToLower(strings.TrimSpace(m.Tag))
	if tag == "" {
		return fmt.Errorf("marker %q: tag is required", m.Label())
	}
	if !tagNamePattern.MatchString(tag) {
		return fmt.Errorf("marker %q: invalid tag name %q", m.Label(), m.Tag)
	}
	for _, c := range m.Classes {
		if strings.TrimSpace(c) == "" || strings.ContainsAny(c, " \t\n") {
			return fmt.Errorf("marker %q: class %q must be a single token", m.Label(), c)
		}
	}
	if m.Pattern != "" {
		if _, err := regexp.Compile(m.Pattern); err != nil {
			return fmt.Errorf("marker %q: invalid pattern: %w", m.Label(), err)
		}
	}
	return nil
}

// Label returns the matcher's name, falling back to its selector.
func (m Matcher) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return m.Selector()
}

// Selector renders the matcher as a CSS-like selector, e.g. article.bd-article[role=main].
func (m Matcher) Selector() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(m.Tag))
	if m.ID != "" {
		b.WriteString("#" + m.ID)
	}
	for _, c := range m.Classes {
		b.WriteString("." + c)
	}
	for _, k := range sortedKeys(m.Attrs) {
		fmt.Fprintf(&b, "[%s=%s]", strings.ToLower(k), m.Attrs[k])
	}
	return b.String()
}

// TagName returns the lower-cased tag name.
func (m Matcher) TagName() string {
	return strings.ToLower(strings.TrimSpace(m.Tag))
}

// Matches reports whether an element with the given tag and attributes satisfies m.
func (m Matcher) Matches(tag string, attrs []html.Attribute) bool {
	if !strings.EqualFold(tag, m.TagName()) {
		return false
	}
	if m.ID != "" {
		if v, ok := attr(attrs, "id"); !ok || v != m.ID {
			return false
		}
	}
	if len(m.Classes) > 0 {
		v, ok := attr(attrs, "class")
		if !ok {
			return false
		}
		tokens := strings.Fields(v)
		for _, want := range m.Classes {
			if !containsToken(tokens, want) {
				return false
			}
		}
	}
	for k, want := range m.Attrs {
		if v, ok := attr(attrs, strings.ToLower(k)); !ok || v != want {
			return false
		}
	}
	return true
}

// MatchesNode reports whether an element node satisfies m.
func (m Matcher) MatchesNode(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return m.Matches(n.Data, n.Attr)
}

func attr(attrs []html.Attribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
