package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/ocrclick/internal/config"
	"github.com/jask/ocrclick/internal/database"
	"github.com/jask/ocrclick/internal/database/repository"
	"github.com/jask/ocrclick/internal/logging"
	"github.com/jask/ocrclick/internal/ocr"
	"github.com/jask/ocrclick/internal/pointer"
	"github.com/jask/ocrclick/internal/service"
	"github.com/jask/ocrclick/internal/tui"
)

const pointerSettle = 30 * time.Millisecond

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:   "ocrclick",
		Short: "Click on-screen text by name",
		Long: `ocrclick reads the screen with OCR and clicks the text you name.

A query is one or more commands separated by commas:
  open             click the best match for "open"
  !2 close         right-click "close" in the top-right quadrant
  @L file          move to the left-most "file"
  1T save as, ok   click the top-most "save as" in the top-left, then "ok"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgPath != "" {
				return os.Setenv("OCRCLICK_CONFIG", cfgPath)
			}
			return nil
		},
		RunE: runPrompt,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/ocrclick/config.toml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "prompt",
			Short: "Open the interactive prompt",
			Args:  cobra.NoArgs,
			RunE:  runPrompt,
		},
		newRunCmd(),
		newParseCmd(),
		newRegionsCmd(),
		newHistoryCmd(),
	)
	return root
}

// runtime holds what a subcommand opened and must close.
type runtime struct {
	cfg    config.Config
	log    *logging.Logger
	db     *sql.DB
	runs   *repository.RunRepo
	engine *ocr.Engine
}

type needs struct {
	db     bool
	screen bool
}

func openRuntime(n needs) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	rt := &runtime{cfg: cfg, log: logging.New(cfg.Log.Level, cfg.Log.Dir)}

	if n.db {
		db, err := database.Prepare(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		rt.db = db
		rt.runs = repository.NewRunRepo(db)
	}
	if n.screen {
		engine, err := ocr.NewEngine(cfg.OCR, rt.log)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("ocr: %w", err)
		}
		rt.engine = engine
	}
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.engine != nil {
		_ = rt.engine.Close()
	}
	if rt.db != nil {
		_ = rt.db.Close()
	}
}

func (rt *runtime) executor(p service.Pointer, h service.Highlighter) *service.Executor {
	e := &service.Executor{
		Capturer:    rt.engine,
		Pointer:     p,
		Highlighter: h,
		Log:         rt.log,
	}
	if rt.runs != nil {
		e.Journal = rt.runs
	}
	return e
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(needs{db: true, screen: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	board := service.NewHighlightBoard()
	exec := rt.executor(pointer.Robot{Settle: pointerSettle, Log: rt.log}, board)

	p := tea.NewProgram(tui.New(cmd.Context(), rt.cfg, exec, rt.runs, board), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
