package command

import (
	"strings"
	"unicode"

	"github.com/jask/ocrclick/internal/screen"
)

// DefaultSeparator joins commands in a chain.
const DefaultSeparator = ","

// Parser turns fragments into commands.
type Parser struct {
	// AllowBare keeps fragments that carry only a quadrant/direction and no
	// search text ("2", "1L"). Such commands match any single word in scope.
	// When false they are dropped like empty chain fragments.
	AllowBare bool
}

var defaultParser Parser

// Parse parses fragment with the default parser.
func Parse(fragment string) (Command, bool) { return defaultParser.Parse(fragment) }

// ParseChain splits query on sep and parses each piece with the default parser.
func ParseChain(query, sep string) []Command { return defaultParser.ParseChain(query, sep) }

// cursor walks a fragment rune by rune.
type cursor struct {
	rs  []rune
	pos int
}

func (c *cursor) peek() (rune, bool) {
	if c.pos >= len(c.rs) {
		return 0, false
	}
	return c.rs[c.pos], true
}

func (c *cursor) peekAt(off int) (rune, bool) {
	if c.pos+off >= len(c.rs) {
		return 0, false
	}
	return c.rs[c.pos+off], true
}

// atBoundary reports end of input or a single space at the cursor.
func (c *cursor) atBoundary() bool {
	r, ok := c.peek()
	return !ok || r == ' '
}

func (c *cursor) rest() string { return string(c.rs[c.pos:]) }

// Parse converts a single fragment. The second result is false when nothing
// is left to search for.
//
// Rules, in order: a leading '!' or '@' fixes the action; a quadrant/direction
// token may follow; without a leading modifier the token may carry a trailing
// '!' or '@'; the token must end at a space or the end of input, otherwise it
// is read as search text.
func (p Parser) Parse(fragment string) (Command, bool) {
	cur := &cursor{rs: []rune(fragment)}
	cmd := Command{Action: Click}

	prefixed := false
	if r, ok := cur.peek(); ok {
		if a, ok := modifierAction(r); ok {
			cmd.Action = a
			prefixed = true
			cur.pos++
		}
	}

	afterPrefix := cur.pos
	if q, d, n := quadDir(cur); n > 0 {
		cur.pos += n
		if !prefixed {
			if r, ok := cur.peek(); ok {
				if a, ok := modifierAction(r); ok {
					cmd.Action = a
					cur.pos++
				}
			}
		}
		switch {
		case cur.atBoundary():
			cmd.Quadrant, cmd.Direction = q, d
		case prefixed:
			cur.pos = afterPrefix
		default:
			return p.finish(Command{Action: Click}, fragment)
		}
	}

	return p.finish(cmd, cur.rest())
}

func (p Parser) finish(cmd Command, rest string) (Command, bool) {
	cmd.SearchText = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if cmd.SearchText != "" {
		return cmd, true
	}
	if p.AllowBare && (cmd.Quadrant.Valid() || cmd.Direction != screen.NoDirection) {
		return cmd, true
	}
	return Command{}, false
}

// quadDir reads a quadrant/direction token at the cursor without moving it:
// digit+letter, digit, letter+digit or letter. It returns the number of runes
// the token spans, 0 when there is none.
func quadDir(cur *cursor) (screen.Quadrant, screen.Direction, int) {
	first, ok := cur.peek()
	if !ok {
		return screen.NoQuadrant, screen.NoDirection, 0
	}
	second, hasSecond := cur.peekAt(1)

	if q, ok := quadrantDigit(first); ok {
		if hasSecond {
			if d, ok := screen.ParseDirection(second); ok {
				return q, d, 2
			}
		}
		return q, screen.NoDirection, 1
	}
	if d, ok := screen.ParseDirection(first); ok {
		if hasSecond {
			if q, ok := quadrantDigit(second); ok {
				return q, d, 2
			}
		}
		return screen.NoQuadrant, d, 1
	}
	return screen.NoQuadrant, screen.NoDirection, 0
}

func quadrantDigit(r rune) (screen.Quadrant, bool) {
	if r >= '1' && r <= '4' {
		return screen.Quadrant(r - '0'), true
	}
	return screen.NoQuadrant, false
}

// ParseChain splits query on sep, trims each piece, drops empty pieces and
// parses the rest in order. Pieces that yield no command are skipped. An
// empty sep treats the whole query as one fragment.
func (p Parser) ParseChain(query, sep string) []Command {
	pieces := []string{query}
	if sep != "" {
		pieces = strings.Split(query, sep)
	}
	var out []Command
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if cmd, ok := p.Parse(piece); ok {
			out = append(out, cmd)
		}
	}
	return out
}
