package splice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsplice/internal/markers"
)

func TestTextualCleanRequiresBody(t *testing.T) {
	s, err := NewTextual(markers.Default())
	require.NoError(t, err)

	_, err = s.Clean([]byte(`<div class="top-heading">nav</div><p>orphan</p>`))
	require.ErrorIs(t, err, ErrBodyNotFound)
}

func TestTextualCustomStripPattern(t *testing.T) {
	set := markers.Default()
	set.Source.Strip = []markers.Matcher{{
		Name:    "banner",
		Tag:     "div",
		Pattern: `(?s)<!-- banner -->.*?<!-- /banner -->`,
	}}

	s, err := NewTextual(set)
	require.NoError(t, err)

	got, err := s.Clean(page(`<!-- banner --><div>a</div><div>b</div><!-- /banner --><p>kept</p>`))
	require.NoError(t, err)
	assert.Equal(t, `<p>kept</p>`, got.Fragment)
	assert.Equal(t, []string{"banner"}, got.Stripped)
}

func TestTextualCustomPlaceholderPattern(t *testing.T) {
	set := markers.Default()
	set.Shell.Placeholder = markers.Matcher{
		Tag:     "main",
		Pattern: `(?s)<main id="docs">(?P<content>.*?)</main>`,
	}

	s, err := NewTextual(set)
	require.NoError(t, err)

	got, err := s.Splice([]byte(`<main>x</main><main id="docs">old</main>`), "new")
	require.NoError(t, err)
	assert.Equal(t, `<main>x</main><main id="docs">new</main>`, string(got))

	_, err = s.Splice([]byte(`<main>x</main>`), "new")
	require.ErrorIs(t, err, ErrPlaceholderNotFound)
}

func TestTextualPlaceholderPatternNeedsContentGroup(t *testing.T) {
	set := markers.Default()
	set.Shell.Placeholder = markers.Matcher{Tag: "main", Pattern: `<main>(.*?)</main>`}

	_, err := NewTextual(set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content")
}

func TestTextualSkipsUnterminatedStripElement(t *testing.T) {
	s, err := NewTextual(markers.Default())
	require.NoError(t, err)

	got, err := s.Clean(page(`<p>kept</p><div class="top-heading"><div>open</div>`))
	require.NoError(t, err)
	assert.Equal(t, `<p>kept</p><div class="top-heading"><div>open</div>`, got.Fragment)
	assert.Empty(t, got.Stripped)
}

func TestParseAttrs(t *testing.T) {
	attrs := parseAttrs(` class="a b" role='main' data-x=1 hidden title="a &amp; b"`)
	require.Len(t, attrs, 5)
	assert.Equal(t, "class", attrs[0].Key)
	assert.Equal(t, "a b", attrs[0].Val)
	assert.Equal(t, "main", attrs[1].Val)
	assert.Equal(t, "1", attrs[2].Val)
	assert.Equal(t, "hidden", attrs[3].Key)
	assert.Empty(t, attrs[3].Val)
	assert.Equal(t, "a & b", attrs[4].Val)
}
