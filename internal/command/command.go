// Package command parses the click mini-language.
//
// A fragment is an optional action modifier, an optional quadrant/direction
// token and free search text:
//
//	open           click the best "open"
//	!1L save as    right-click the leftmost "save as" in the top-left quadrant
//	3@ menu        move to "menu" in the bottom-left quadrant
//	B close        click the bottommost "close"
//
// Malformed modifiers never fail; the offending text is searched literally.
package command

import (
	"fmt"
	"strings"

	"github.com/jask/ocrclick/internal/screen"
)

// Action is the pointer operation a command ends in.
type Action int

const (
	Click Action = iota
	RightClick
	Move
)

func (a Action) String() string {
	switch a {
	case Click:
		return "click"
	case RightClick:
		return "right-click"
	case Move:
		return "move"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// MarshalText lets reports print the action by name.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// modifierAction maps the '!' and '@' modifiers.
func modifierAction(r rune) (Action, bool) {
	switch r {
	case '!':
		return RightClick, true
	case '@':
		return Move, true
	}
	return Click, false
}

// Command is one parsed fragment.
type Command struct {
	SearchText string           `json:"search" yaml:"search"`
	Quadrant   screen.Quadrant  `json:"quadrant,omitempty" yaml:"quadrant,omitempty"`
	Direction  screen.Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
	Action     Action           `json:"action" yaml:"action"`
}

// Bare reports a command with a quadrant or direction but no search text.
func (c Command) Bare() bool { return c.SearchText == "" }

// String renders c back in canonical mini-language form.
func (c Command) String() string {
	var b strings.Builder
	switch c.Action {
	case RightClick:
		b.WriteByte('!')
	case Move:
		b.WriteByte('@')
	}
	if c.Quadrant.Valid() {
		fmt.Fprintf(&b, "%d", int(c.Quadrant))
	}
	b.WriteString(c.Direction.String())
	if b.Len() > 0 && c.SearchText != "" {
		b.WriteByte(' ')
	}
	b.WriteString(c.SearchText)
	return b.String()
}
