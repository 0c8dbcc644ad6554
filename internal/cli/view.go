package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/virtlist/internal/config"
	"github.com/rshade/virtlist/internal/errmsg"
	"github.com/rshade/virtlist/internal/records"
	"github.com/rshade/virtlist/internal/tui"
	listview "github.com/rshade/virtlist/internal/tui/list"
	"github.com/rshade/virtlist/internal/validate"
	"github.com/rshade/virtlist/internal/viewport"
	"github.com/rshade/virtlist/internal/viewport/screen"
)

type viewFlags struct {
	sourceFlags

	backend string
	sort    string
}

// listSettings is the resolved list configuration for one view session.
type listSettings struct {
	itemHeight int
	throttle   time.Duration
	debounce   time.Duration
	settle     bool
	remeasure  bool
	policy     listview.ErrorPolicy
	title      string
}

func statusPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// NewViewCmd creates the view command, which browses records in an
// interactive windowed list.
func NewViewCmd() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "view [FILE]",
		Short: "Browse records in an interactive windowed list",
		Long: `Opens a full-screen list that only draws the records in view.

FILE may be YAML (.yaml/.yml), JSON (.json) or JSON Lines (.jsonl/.ndjson).
When stdout is not a terminal, the first screen is printed instead.`,
		Example: `  # Browse a file with the default Bubble Tea backend
  virtlist view contacts.jsonl

  # Browse demo data with the tcell backend and two rows per record
  virtlist view --demo 50000 --backend tcell --item-height 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.backend, "backend", "", "terminal backend: tea or tcell (default from config list.backend)")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "sort by field, e.g. email or score:desc")

	return cmd
}

func runView(cmd *cobra.Command, args []string, flags *viewFlags) error {
	cfg := config.GetGlobalConfig()
	backend := cfg.List.Backend
	if flags.backend != "" {
		backend = flags.backend
	}
	if !validate.OneOf(backend, config.BackendTea, config.BackendTcell) {
		return fmt.Errorf("unsupported backend: %s", backend)
	}

	recs, rules, err := loadSource(args, flags.demo, cfg)
	if err != nil {
		return err
	}
	settings, err := resolveListSettings(cfg, &flags.sourceFlags)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		settings.title = args[0]
	}
	if recs, err = sortRecords(recs, flags.sort); err != nil {
		return err
	}

	if tui.DetectOutputMode(flags.plain, false, false) != tui.OutputModeInteractive {
		_, height := tui.TerminalSize()
		snap, renderErr := RenderWindow(recs, rowRenderer(rules, false, settings.itemHeight),
			settings.itemHeight, 0, max(height-1, 1), settings.policy)
		if renderErr != nil {
			return renderErr
		}
		return writeTable(cmd.OutOrStdout(), snap, len(recs))
	}

	logger.Info().Ctx(cmd.Context()).
		Int("records", len(recs)).
		Str("backend", backend).
		Int("item_height", settings.itemHeight).
		Msg("starting list view")

	if backend == config.BackendTcell {
		return runTcellView(cmd.Context(), recs, rules, settings)
	}
	return runTeaView(cmd.Context(), recs, rules, settings)
}

func resolveListSettings(cfg *config.Config, flags *sourceFlags) (listSettings, error) {
	itemHeight, err := flags.resolveItemHeight(cfg)
	if err != nil {
		return listSettings{}, err
	}
	policy, err := listview.ParseErrorPolicy(cfg.List.ErrorPolicy)
	if err != nil {
		return listSettings{}, err
	}
	return listSettings{
		itemHeight: itemHeight,
		throttle:   cfg.List.ThrottleInterval(),
		debounce:   cfg.List.ResizeDebounce(),
		settle:     cfg.List.Settle,
		remeasure:  cfg.List.RecomputeOnResize,
		policy:     policy,
	}, nil
}

func runTeaView(ctx context.Context, recs []records.Record, rules records.Rules, s listSettings) error {
	width, height := tui.TerminalSize()
	m, err := listview.NewModel(recs, rowRenderer(rules, true, s.itemHeight), listview.ModelConfig{
		Width:             width,
		Height:            height,
		ItemHeight:        s.itemHeight,
		Throttle:          s.throttle,
		RecomputeOnResize: s.remeasure,
		Settle:            s.settle,
		ErrorPolicy:       s.policy,
		Logger:            logger,
		Title:             s.title,
	})
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

func runTcellView(ctx context.Context, recs []records.Record, rules records.Rules, s listSettings) error {
	scr, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err = scr.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer scr.Fini()

	w, h := scr.Size()
	pane := viewport.NewPane(w, screen.PaneHeight(h))
	r, err := listview.New(pane, recs, s.itemHeight, rowRenderer(rules, false, s.itemHeight),
		listview.WithThrottle(s.throttle),
		listview.WithLogger(logger),
		listview.WithErrorPolicy(s.policy),
	)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	printer := statusPrinter()
	var notice string
	handler := errmsg.NewHandler(logger, func(msg string) { notice = msg })

	opts := screen.Options{
		Status: func() string {
			if notice != "" {
				return notice
			}
			return listview.FormatStatus(printer, s.title, r.Window(), len(recs)) + "  q quit"
		},
		OnResize: func(int, int) error {
			notice = ""
			if s.remeasure {
				if err := r.Remeasure(); err != nil {
					return err
				}
			}
			return r.Sync()
		},
		OnError:        func(err error) { handler.Handle(err, errmsg.ContextRender) },
		ResizeDebounce: s.debounce,
		Logger:         logger,
	}
	if s.settle {
		opts.Settle = r.ThrottleInterval()
		opts.OnSettle = r.Sync
	}

	err = screen.Run(ctx, scr, pane, opts)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
