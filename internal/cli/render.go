package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/virtlist/internal/cli/pagination"
	"github.com/rshade/virtlist/internal/config"
	"github.com/rshade/virtlist/internal/errmsg"
	"github.com/rshade/virtlist/internal/records"
	"github.com/rshade/virtlist/internal/tui"
	listview "github.com/rshade/virtlist/internal/tui/list"
	"github.com/rshade/virtlist/internal/validate"
	"github.com/rshade/virtlist/internal/viewport"
)

// Output formats for the render command.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// renderWidth is the pane width used for non-interactive renders.
const renderWidth = 1 << 16

// WindowSnapshot is one rendered window.
type WindowSnapshot struct {
	Window           listview.Window
	Offset           int
	Height           int
	ScrollableHeight int
	Lines            []string
	Visible          []records.Record
	Skipped          int
}

// exportRecord is the JSON shape of one visible record.
type exportRecord struct {
	Index  int               `json:"index"`
	Fields map[string]string `json:"fields"`
	Issues []string          `json:"issues,omitempty"`
}

// exportDocument is the JSON shape of `virtlist render --output json`.
type exportDocument struct {
	Start            int             `json:"start"`
	End              int             `json:"end"`
	VisibleCount     int             `json:"visible_count"`
	Offset           int             `json:"offset"`
	Height           int             `json:"height"`
	ScrollableHeight int             `json:"scrollable_height"`
	Page             pagination.Meta `json:"page"`
	Records          []exportRecord  `json:"records"`
}

type renderFlags struct {
	sourceFlags

	params *pagination.Params
	output string
	out    string
}

// NewRenderCmd creates the render command, which draws one window of the
// list without a terminal UI and prints or exports it.
func NewRenderCmd() *cobra.Command {
	flags := renderFlags{params: pagination.NewParams()}

	cmd := &cobra.Command{
		Use:   "render [FILE]",
		Short: "Render one window of a record list",
		Long: `Renders the records visible in a viewport of the given height at the given
scroll offset, exactly as the interactive list would mount them.

The window is chosen either by --offset/--height (rows) or by
--page/--page-size (records); the two modes are mutually exclusive.`,
		Example: `  # The window at row 205 of a 200-row viewport
  virtlist render --demo 1000 --item-height 20 --offset 205 --height 200

  # Page 2 of 25 records, sorted by email, as JSON
  virtlist render contacts.jsonl --page 2 --page-size 25 --sort email --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.params.Offset, "offset", 0, "scroll offset in rows")
	cmd.Flags().IntVar(&flags.params.Height, "height", pagination.DefaultHeight, "viewport height in rows")
	cmd.Flags().IntVar(&flags.params.Page, "page", 0, "1-based page number (requires --page-size)")
	cmd.Flags().IntVar(&flags.params.PageSize, "page-size", 0, "records per page")
	cmd.Flags().StringVar(&flags.params.Sort, "sort", "", "sort by field, e.g. email or score:desc")
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputTable, "output format: table or json")
	cmd.Flags().StringVar(&flags.out, "out", "", "write to this file instead of stdout")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	handler := errmsg.NewHandler(logger, func(msg string) { cmd.PrintErrln(msg) })

	if err := flags.params.Validate(); err != nil {
		return err
	}
	if !validate.OneOf(flags.output, outputTable, outputJSON) {
		return fmt.Errorf("unsupported output format: %s", flags.output)
	}

	cfg := config.GetGlobalConfig()
	recs, rules, err := loadSource(args, flags.demo, cfg)
	if err != nil {
		return err
	}
	itemHeight, err := flags.resolveItemHeight(cfg)
	if err != nil {
		return err
	}
	policy, err := listview.ParseErrorPolicy(cfg.List.ErrorPolicy)
	if err != nil {
		return err
	}

	if recs, err = sortRecords(recs, flags.params.Sort); err != nil {
		return err
	}

	styled := flags.output == outputTable && flags.out == "" &&
		tui.DetectOutputMode(flags.plain, false, true) == tui.OutputModeStyled
	render := rowRenderer(rules, styled, itemHeight)

	var snap WindowSnapshot
	if flags.params.IsPageBased() {
		snap, err = RenderPage(recs, render, itemHeight, *flags.params, policy)
	} else {
		offset, height := flags.params.Viewport(itemHeight)
		snap, err = RenderWindow(recs, render, itemHeight, offset, height, policy)
	}
	if err != nil {
		handler.Handle(err, errmsg.ContextRender)
		return err
	}

	w := cmd.OutOrStdout()
	var file *os.File
	if flags.out != "" {
		if file, err = os.Create(flags.out); err != nil {
			handler.Handle(err, errmsg.ContextExport)
			return fmt.Errorf("creating output file: %w", err)
		}
		w = file
	}

	switch flags.output {
	case outputJSON:
		err = writeJSON(w, snap, rules, len(recs))
	default:
		err = writeTable(w, snap, len(recs))
	}
	if file != nil {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		handler.Handle(err, errmsg.ContextExport)
		return err
	}

	logger.Info().Ctx(cmd.Context()).
		Int("start", snap.Window.Start).
		Int("end", snap.Window.End).
		Int("skipped", snap.Skipped).
		Str("output", flags.output).
		Msg("window rendered")
	if flags.out != "" {
		cmd.PrintErrf("Wrote %d records to %s\n", snap.Window.Len(), flags.out)
	}
	return nil
}

// RenderWindow mounts recs into a fresh pane of the given height, scrolls it
// to offset and returns what ended up in view.
func RenderWindow(
	recs []records.Record,
	render listview.RenderFunc[records.Record],
	itemHeight, offset, height int,
	policy listview.ErrorPolicy,
) (WindowSnapshot, error) {
	pane := viewport.NewPane(renderWidth, height)
	r, err := listview.New(pane, recs, itemHeight, render,
		listview.WithThrottle(0),
		listview.WithLogger(logger),
		listview.WithErrorPolicy(policy),
	)
	if err != nil {
		return WindowSnapshot{}, err
	}
	defer func() { _ = r.Close() }()
	// The initial render at offset 0 may already have skipped items.
	skippedBefore := r.Skipped()

	pane.ScrollTo(offset)
	if err = r.Sync(); err != nil {
		return WindowSnapshot{}, err
	}

	snap := WindowSnapshot{
		Window:           r.Window(),
		Offset:           pane.ScrollOffset(),
		Height:           height,
		ScrollableHeight: pane.ScrollableHeight(),
		Lines:            pane.Lines(),
		Skipped:          r.Skipped() - skippedBefore,
	}
	snap.Visible = recs[snap.Window.Start:snap.Window.End]
	return snap, nil
}

// RenderPage renders the records of one page. The page is cut from recs
// before mounting, so the last partial page is not pulled back by the
// pane's scroll clamp.
func RenderPage(
	recs []records.Record,
	render listview.RenderFunc[records.Record],
	itemHeight int,
	params pagination.Params,
	policy listview.ErrorPolicy,
) (WindowSnapshot, error) {
	start, end := params.PageRange(len(recs))
	offset, height := params.Viewport(itemHeight)

	pageRender := func(rec records.Record, index int) (string, error) {
		return render(rec, start+index)
	}
	snap, err := RenderWindow(recs[start:end], pageRender, itemHeight, 0, height, policy)
	if err != nil {
		return WindowSnapshot{}, err
	}
	snap.Window.Start += start
	snap.Window.End += start
	snap.Offset = offset
	snap.ScrollableHeight = len(recs) * itemHeight
	return snap, nil
}

func writeTable(w io.Writer, snap WindowSnapshot, total int) error {
	lines := snap.Lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(tui.MutedStyle.Render(listview.FormatStatus(statusPrinter(), "", snap.Window, total)))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, snap WindowSnapshot, rules records.Rules, total int) error {
	doc := exportDocument{
		Start:            snap.Window.Start,
		End:              snap.Window.End,
		VisibleCount:     snap.Window.VisibleCount,
		Offset:           snap.Offset,
		Height:           snap.Height,
		ScrollableHeight: snap.ScrollableHeight,
		Page:             pagination.NewMeta(snap.Window.Start, snap.Window.VisibleCount, total),
		Records:          make([]exportRecord, 0, len(snap.Visible)),
	}
	for _, rec := range snap.Visible {
		er := exportRecord{Index: rec.Index, Fields: rec.Fields}
		for _, issue := range rules.Check(rec) {
			er.Issues = append(er.Issues, issue.Err.Error())
		}
		doc.Records = append(doc.Records, er)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
