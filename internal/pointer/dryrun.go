package pointer

import (
	"context"
	"fmt"
	"io"

	"github.com/jask/ocrclick/internal/command"
)

// DryRun reports actions instead of performing them.
type DryRun struct {
	Out io.Writer
}

func (d DryRun) Perform(ctx context.Context, action command.Action, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(d.Out, "would %s at %d,%d\n", action, x, y)
	return err
}
