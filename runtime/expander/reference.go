package expander

import (
	"strings"

	"github.com/viant/parsly"
)

// Token codes
const (
	openDelimCode = iota
	closeDelimCode
	pathCode
)

// Token definitions
var (
	openDelimToken  = parsly.NewToken(openDelimCode, "{{", newDelimMatcher('{'))
	closeDelimToken = parsly.NewToken(closeDelimCode, "}}", newDelimMatcher('}'))
	pathToken       = parsly.NewToken(pathCode, "Path", newPathMatcher())
)

// Reference is a parsed reference expression: the dot-separated path found
// between the first {{ }} delimiter pair of a scalar string. It is recognized
// structurally at resolution time and never stored.
type Reference struct {
	Path []string
}

// ParseReference locates the first {{<path>}} occurrence within value and
// returns its parsed path. The search is a substring match: literal text may
// surround the token. Returns false when value holds no complete reference.
func ParseReference(value string) (*Reference, bool) {
	offset := strings.Index(value, "{{")
	if offset == -1 {
		return nil, false
	}
	cursor := parsly.NewCursor("", []byte(value), offset)
	matched := cursor.MatchOne(openDelimToken)
	if matched.Code != openDelimCode {
		return nil, false
	}
	matched = cursor.MatchOne(pathToken)
	if matched.Code != pathCode {
		return nil, false
	}
	path := matched.Text(cursor)
	matched = cursor.MatchOne(closeDelimToken)
	if matched.Code != closeDelimCode {
		return nil, false
	}
	return &Reference{Path: strings.Split(path, ".")}, true
}

// Custom matchers

func newDelimMatcher(ch byte) parsly.Matcher {
	return &delimMatcher{ch: ch}
}

func newPathMatcher() parsly.Matcher {
	return &pathMatcher{}
}

// delimMatcher matches a doubled delimiter byte ({{ or }})
type delimMatcher struct {
	ch byte
}

func (m *delimMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	if pos+1 >= cursor.InputSize {
		return 0
	}
	if input[pos] == m.ch && input[pos+1] == m.ch {
		return 2
	}
	return 0
}

// pathMatcher captures everything until the closing brace
type pathMatcher struct {
	// a path segment may contain any byte except '}'; splitting on '.'
	// happens after the match
}

func (m *pathMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if input[i] == '}' {
			break
		}
		matched++
	}
	return matched
}
