package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test looking up values succeeds, then fails
func TestLookup(t *testing.T) {
	for key, val := range keywords {
		if LookupIdentifier(key) != val {
			t.Errorf("Lookup of %s failed", key)
		}
		// Once the keywords are uppercase they'll no longer
		// match - so we find them as identifiers.
		if LookupIdentifier(strings.ToUpper(key)) != IDENT {
			t.Errorf("Lookup of %s failed", key)
		}
	}
}

func TestPosition(t *testing.T) {
	tok := Token{
		Type:    IDENT,
		Literal: "foo",
		StartPosition: Position{
			Line:   2,
			Column: 0,
		},
	}
	// Switches to 1-indexed
	require.Equal(t, 3, tok.StartPosition.LineNumber())
	require.Equal(t, 1, tok.StartPosition.ColumnNumber())
}

func TestAdvance(t *testing.T) {
	p := Position{Char: 10, LineStart: 8, Line: 1, Column: 2, File: "a.js"}
	q := p.Advance(3)
	require.Equal(t, Position{Char: 13, LineStart: 8, Line: 1, Column: 5, File: "a.js"}, q)
	require.True(t, q.IsValid())
	require.False(t, NoPos.IsValid())
}

func TestKeywords(t *testing.T) {
	words := Keywords()
	require.Len(t, words, len(keywords))
	require.Contains(t, words, "typeof")
}
