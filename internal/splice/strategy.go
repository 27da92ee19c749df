package splice

import (
	"fmt"

	"git.home.luguber.info/inful/docsplice/internal/foundation/normalization"
	"git.home.luguber.info/inful/docsplice/internal/markers"
)

// Kind names a Strategy implementation.
type Kind string

const (
	KindStructural Kind = "structural"
	KindTextual    Kind = "textual"
)

var kindNormalizer = normalization.NewNormalizer("strategy", map[string]Kind{
	"structural": KindStructural,
	"dom":        KindStructural,
	"textual":    KindTextual,
	"regex":      KindTextual,
}, KindStructural)

// ParseKind accepts a strategy name or alias. Empty input selects the structural strategy.
func ParseKind(raw string) (Kind, error) {
	return kindNormalizer.Parse(raw)
}

// KindNames lists every accepted strategy spelling.
func KindNames() []string {
	return kindNormalizer.Keys()
}

// Cleaned is a source body ready to be spliced.
type Cleaned struct {
	// Fragment is the body content with navigation chrome removed and slashes escaped.
	Fragment string
	// Stripped holds the label of every removed element, in removal order.
	Stripped []string
	// Charset is the encoding the page was decoded from.
	Charset string
}

// Strategy cleans source pages and merges them into the shell document.
type Strategy interface {
	Kind() Kind
	// Clean extracts the body content of a source page, removes every element
	// matched by the source markers and escapes literal slashes.
	Clean(source []byte) (*Cleaned, error)
	// Splice replaces the content of the shell's placeholder region with fragment.
	// Bytes outside the placeholder's content are returned unchanged.
	Splice(shell []byte, fragment string) ([]byte, error)
}

// NewStrategy builds the strategy of the given kind for a marker set.
func NewStrategy(kind Kind, set markers.Set) (Strategy, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	switch kind {
	case KindStructural:
		return NewStructural(set), nil
	case KindTextual:
		return NewTextual(set)
	default:
		return nil, fmt.Errorf("unknown strategy %q", kind)
	}
}
