// Package pointer drives the system mouse.
package pointer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/jask/ocrclick/internal/command"
	"github.com/jask/ocrclick/internal/logging"
)

// Robot moves and clicks the system pointer through robotgo.
type Robot struct {
	// Settle is the pause between moving and pressing, so hover-sensitive
	// targets register the pointer first.
	Settle time.Duration
	Log    *logging.Logger
}

// Perform moves to (x, y) and presses the button the action needs.
func (r Robot) Perform(ctx context.Context, action command.Action, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var button string
	switch action {
	case command.Click:
		button = "left"
	case command.RightClick:
		button = "right"
	case command.Move:
	default:
		return fmt.Errorf("unsupported action %v", action)
	}

	robotgo.Move(x, y)
	r.Log.Debug("pointer moved", "x", x, "y", y)
	if button == "" {
		return nil
	}
	if r.Settle > 0 {
		time.Sleep(r.Settle)
	}
	robotgo.Click(button)
	r.Log.Debug("pointer clicked", "button", button, "x", x, "y", y)
	return nil
}
