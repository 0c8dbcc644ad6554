package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/virtlist/internal/cli/pagination"
	"github.com/rshade/virtlist/internal/config"
	"github.com/rshade/virtlist/internal/records"
	"github.com/rshade/virtlist/internal/tui"
	listview "github.com/rshade/virtlist/internal/tui/list"
)

// errNoSource is returned when neither a file nor --demo is given.
var errNoSource = errors.New("a records FILE or --demo N is required")

// sourceFlags are the record-source flags shared by view and render.
type sourceFlags struct {
	demo       int
	itemHeight int
	plain      bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.demo, "demo", 0, "generate N sample records instead of reading a file")
	cmd.Flags().IntVar(&f.itemHeight, "item-height", 0, "rows per record (default from config list.item_height)")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "disable colors and the interactive list")
}

// loadSource reads the records and the rules to check them against.
// Demo data falls back to the demo rules when the config has none.
func loadSource(args []string, demo int, cfg *config.Config) ([]records.Record, records.Rules, error) {
	rules := cfg.Records.Rules
	switch {
	case len(args) > 0 && demo > 0:
		return nil, nil, errors.New("use either a records FILE or --demo, not both")
	case len(args) > 0:
		recs, err := records.Load(args[0])
		if err != nil {
			return nil, nil, err
		}
		return recs, rules, nil
	case demo > 0:
		if len(rules) == 0 {
			rules = records.DemoRules()
		}
		return records.Demo(demo), rules, nil
	default:
		return nil, nil, errNoSource
	}
}

// resolveItemHeight returns the --item-height flag, or the configured height.
func (f *sourceFlags) resolveItemHeight(cfg *config.Config) (int, error) {
	h := cfg.List.ItemHeight
	if f.itemHeight != 0 {
		h = f.itemHeight
	}
	if h <= 0 {
		return 0, fmt.Errorf("%w: item height must be positive, got %d", listview.ErrInvalidConfig, h)
	}
	return h, nil
}

// rowRenderer returns the RenderFunc that draws one record per list item.
func rowRenderer(rules records.Rules, styled bool, itemHeight int) listview.RenderFunc[records.Record] {
	opts := tui.RowOptions{Rules: rules, Styled: styled, Lines: itemHeight}
	return func(rec records.Record, _ int) (string, error) {
		return tui.RenderRecordRow(rec, rec.Index, opts), nil
	}
}

// sortRecords applies a --sort expression.
func sortRecords(recs []records.Record, expr string) ([]records.Record, error) {
	field, order, err := pagination.ParseSort(expr)
	if err != nil {
		return nil, err
	}
	return pagination.SortRecords(recs, field, order), nil
}
