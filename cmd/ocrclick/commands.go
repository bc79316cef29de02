package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jask/ocrclick/internal/command"
	"github.com/jask/ocrclick/internal/config"
	"github.com/jask/ocrclick/internal/pointer"
	"github.com/jask/ocrclick/internal/screen"
	"github.com/jask/ocrclick/internal/service"
)

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}

func newRunCmd() *cobra.Command {
	var (
		dryRun    bool
		delay     time.Duration
		maxRatio  float64
		allowBare bool
	)
	c := &cobra.Command{
		Use:   "run <query>",
		Short: "Execute a command chain once and print the report",
		Example: `  ocrclick run 'open, !2 close'
  ocrclick run --dry-run '@L file'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(needs{db: !dryRun, screen: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			s := overrideSettings(cmd, rt.cfg.Settings(), delay, maxRatio, allowBare)

			var p service.Pointer = pointer.Robot{Settle: pointerSettle, Log: rt.log}
			if dryRun {
				p = pointer.DryRun{Out: cmd.ErrOrStderr()}
			}
			exec := rt.executor(p, service.LogHighlighter{Log: rt.log})

			rep, runErr := exec.Execute(cmd.Context(), strings.Join(args, " "), s)
			if err := writeYAML(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
			return runErr
		},
	}
	c.Flags().BoolVar(&dryRun, "dry-run", false, "print pointer actions instead of performing them")
	c.Flags().DurationVar(&delay, "delay", 0, "pause between commands (overrides commands.delay_ms)")
	c.Flags().Float64Var(&maxRatio, "max-ratio", 0, "largest accepted distance/length ratio (overrides match.max_ratio)")
	c.Flags().BoolVar(&allowBare, "allow-bare", false, "accept commands with a quadrant or direction but no text")
	return c
}

func overrideSettings(cmd *cobra.Command, s config.Settings, delay time.Duration, maxRatio float64, allowBare bool) config.Settings {
	if cmd.Flags().Changed("delay") && delay >= 0 {
		s.CommandDelay = delay
	}
	if cmd.Flags().Changed("max-ratio") && maxRatio >= 0 {
		s.MaxRatio = maxRatio
	}
	if cmd.Flags().Changed("allow-bare") {
		s.AllowBare = allowBare
	}
	return s
}

func newParseCmd() *cobra.Command {
	var allowBare bool
	c := &cobra.Command{
		Use:   "parse <query>",
		Short: "Print the commands a query parses into",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			p := cfg.Parser()
			if cmd.Flags().Changed("allow-bare") {
				p.AllowBare = allowBare
			}
			cmds := p.ParseChain(strings.Join(args, " "), cfg.Commands.Separator)
			if cmds == nil {
				cmds = []command.Command{}
			}
			return writeYAML(cmd.OutOrStdout(), cmds)
		},
	}
	c.Flags().BoolVar(&allowBare, "allow-bare", false, "accept commands with a quadrant or direction but no text")
	return c
}

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions [quadrant]",
		Short: "Print the words OCR currently sees",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuadrantArg(args)
			if err != nil {
				return err
			}
			rt, err := openRuntime(needs{screen: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			var area *screen.Rect
			if q.Valid() {
				bounds, err := rt.engine.Bounds(cmd.Context())
				if err != nil {
					return err
				}
				r, _ := screen.QuadrantRect(bounds, q)
				area = &r
			}
			regions, err := rt.engine.CaptureRegions(cmd.Context(), area)
			if err != nil {
				return err
			}
			if area != nil {
				regions = screen.FilterRegions(regions, *area)
			}
			if regions == nil {
				regions = []screen.TextRegion{}
			}
			return writeYAML(cmd.OutOrStdout(), regions)
		},
	}
}

func parseQuadrantArg(args []string) (screen.Quadrant, error) {
	if len(args) == 0 {
		return screen.NoQuadrant, nil
	}
	n, err := strconv.Atoi(args[0])
	q := screen.Quadrant(n)
	if err != nil || !q.Valid() {
		return screen.NoQuadrant, fmt.Errorf("quadrant must be 1-4, got %q", args[0])
	}
	return q, nil
}

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		runID     string
		pruneDays int
		wipe      bool
	)
	c := &cobra.Command{
		Use:   "history",
		Short: "Show or prune the run journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(needs{db: true})
			if err != nil {
				return err
			}
			defer rt.Close()
			ctx := cmd.Context()

			maint := &service.Maintenance{DB: rt.db, Log: rt.log}
			if wipe {
				if err := maint.Reset(ctx); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "journal cleared")
				return err
			}
			if pruneDays > 0 {
				n, err := maint.Prune(ctx, time.Duration(pruneDays)*24*time.Hour)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
				return err
			}

			if runID != "" {
				entries, err := rt.runs.ByRun(ctx, runID)
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), entries)
			}
			entries, err := rt.runs.Recent(ctx, limit)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), entries)
		},
	}
	c.Flags().IntVar(&limit, "limit", 20, "number of entries to show")
	c.Flags().StringVar(&runID, "run", "", "show every command of one run")
	c.Flags().IntVar(&pruneDays, "prune-days", 0, "delete entries older than this many days")
	c.Flags().BoolVar(&wipe, "clear", false, "delete every journal entry")
	return c
}
