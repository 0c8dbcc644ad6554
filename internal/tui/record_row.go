package tui

import (
	"fmt"
	"strings"

	"github.com/rshade/virtlist/internal/records"
)

// RowOptions controls record row rendering.
type RowOptions struct {
	// Rules flag failing fields.
	Rules records.Rules
	// Styled enables colors.
	Styled bool
	// Lines is the item height. Fields wrap onto at most this many lines.
	Lines int
}

// RenderRecordRow renders rec as one list item. The first line starts with a
// status mark and the record number; fields are spread over opts.Lines lines.
func RenderRecordRow(rec records.Record, index int, opts RowOptions) string {
	failed := map[string]bool{}
	for _, issue := range opts.Rules.Check(rec) {
		failed[issue.Err.Field] = true
	}

	style := func(s string, styleFn func(...string) string) string {
		if !opts.Styled {
			return s
		}
		return styleFn(s)
	}

	mark := style("✓", OKStyle.Render)
	if len(failed) > 0 {
		mark = style("✗", InvalidStyle.Render)
	}

	fields := make([]string, 0, len(rec.Keys))
	for _, k := range rec.Keys {
		v := rec.Get(k)
		switch {
		case failed[k]:
			fields = append(fields, style(k+"=", LabelStyle.Render)+style(v, InvalidStyle.Render))
		default:
			fields = append(fields, style(k+"=", LabelStyle.Render)+style(v, ValueStyle.Render))
		}
	}

	lines := max(opts.Lines, 1)
	prefix := fmt.Sprintf("%s %6d ", mark, index+1)
	if len(fields) == 0 {
		return prefix + style("(empty)", MutedStyle.Render)
	}

	perLine := (len(fields) + lines - 1) / lines
	var out []string
	for start := 0; start < len(fields); start += perLine {
		end := min(start+perLine, len(fields))
		out = append(out, strings.Join(fields[start:end], "  "))
	}

	indent := strings.Repeat(" ", len([]rune(prefix)))
	for i := range out {
		if i == 0 {
			out[i] = prefix + out[i]
			continue
		}
		out[i] = indent + out[i]
	}
	return strings.Join(out, "\n")
}
