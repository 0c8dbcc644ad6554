package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtlist/internal/cli"
	"github.com/rshade/virtlist/internal/cli/pagination"
	"github.com/rshade/virtlist/internal/records"
	listview "github.com/rshade/virtlist/internal/tui/list"
)

type exportDoc struct {
	Start            int `json:"start"`
	End              int `json:"end"`
	VisibleCount     int `json:"visible_count"`
	Offset           int `json:"offset"`
	ScrollableHeight int `json:"scrollable_height"`
	Page             struct {
		CurrentPage int  `json:"current_page"`
		TotalPages  int  `json:"total_pages"`
		HasNext     bool `json:"has_next"`
	} `json:"page"`
	Records []struct {
		Index  int               `json:"index"`
		Fields map[string]string `json:"fields"`
		Issues []string          `json:"issues"`
	} `json:"records"`
}

func decode(t *testing.T, data string) exportDoc {
	t.Helper()
	var doc exportDoc
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	return doc
}

func TestRender_ScrolledWindowJSON(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "render", "--demo", "1000", "--item-height", "20",
		"--offset", "205", "--height", "200", "--output", "json")
	require.NoError(t, err)

	doc := decode(t, out)
	assert.Equal(t, 10, doc.Start)
	assert.Equal(t, 20, doc.End)
	assert.Equal(t, 10, doc.VisibleCount)
	assert.Equal(t, 205, doc.Offset)
	assert.Equal(t, 20000, doc.ScrollableHeight)
	assert.Equal(t, 2, doc.Page.CurrentPage)
	assert.Equal(t, 100, doc.Page.TotalPages)
	require.Len(t, doc.Records, 10)
	assert.Equal(t, 10, doc.Records[0].Index)
	require.NotEmpty(t, doc.Records[0].Issues, "record 10 has a bad date")
	assert.Contains(t, doc.Records[0].Issues[0], "joined")
	assert.Contains(t, doc.Records[3].Issues[0], "email", "record 13 has a bad email")
}

func TestRender_PageMode(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "render", "--demo", "25", "--page", "3", "--page-size", "10", "-o", "json")
	require.NoError(t, err)

	doc := decode(t, out)
	assert.Equal(t, 20, doc.Start)
	assert.Equal(t, 25, doc.End)
	assert.Equal(t, 3, doc.Page.CurrentPage)
	assert.False(t, doc.Page.HasNext)
	require.Len(t, doc.Records, 5)
	assert.Equal(t, 20, doc.Records[0].Index, "the last page does not overlap page 2")
	assert.Equal(t, 24, doc.Records[4].Index)
}

func TestRenderPage(t *testing.T) {
	recs := records.Demo(25)
	var indexes []int
	render := func(rec records.Record, index int) (string, error) {
		indexes = append(indexes, index)
		if rec.Index == 22 {
			return "", assert.AnError
		}
		return rec.Get("name"), nil
	}

	params := pagination.Params{Page: 3, PageSize: 10}
	snap, err := cli.RenderPage(recs, render, 2, params, listview.PolicySkip)
	require.NoError(t, err)
	assert.Equal(t, 20, snap.Window.Start)
	assert.Equal(t, 25, snap.Window.End)
	assert.Equal(t, 40, snap.Offset)
	assert.Equal(t, 20, snap.Height)
	assert.Equal(t, 50, snap.ScrollableHeight)
	assert.Equal(t, 1, snap.Skipped)
	require.Len(t, snap.Visible, 5)
	assert.Equal(t, 20, snap.Visible[0].Index)
	assert.Contains(t, indexes, 24, "render receives absolute indexes")
	assert.NotContains(t, indexes, 4)

	snap, err = cli.RenderPage(recs, render, 1, pagination.Params{Page: 5, PageSize: 10}, listview.PolicySkip)
	require.NoError(t, err)
	assert.Equal(t, 25, snap.Window.Start)
	assert.Zero(t, snap.Window.Len())
	assert.Empty(t, snap.Visible)
}

func TestRender_Table(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "render", "--demo", "5", "--height", "3", "--plain")
	require.NoError(t, err)

	assert.Contains(t, out, "ada0@example.com")
	assert.Contains(t, out, "linus2@example.com")
	assert.NotContains(t, out, "ken3@example.com")
	assert.Contains(t, out, "items 1-3 of 5")
}

func TestRender_Sort(t *testing.T) {
	setupCLITest(t)

	out, _, err := execute(t, "render", "--demo", "20", "--height", "3", "--sort", "score:desc", "-o", "json")
	require.NoError(t, err)

	doc := decode(t, out)
	require.Len(t, doc.Records, 3)
	assert.Equal(t, []int{8, 16, 5}, []int{doc.Records[0].Index, doc.Records[1].Index, doc.Records[2].Index})
}

func TestRender_FileAndOut(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "people.jsonl")
	require.NoError(t, os.WriteFile(src, []byte(
		`{"name":"ann","email":"ann@example.com"}`+"\n"+`{"name":"bo","email":"bo"}`+"\n"), 0o600))
	dst := filepath.Join(dir, "out.json")

	out, errOut, err := execute(t, "render", src, "--output", "json", "--out", dst)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Wrote 2 records")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	doc := decode(t, string(data))
	require.Len(t, doc.Records, 2)
	assert.Equal(t, "bo", doc.Records[1].Fields["name"])
	assert.Empty(t, doc.Records[1].Issues, "files are checked against configured rules only")
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no source", args: []string{"render"}, want: "--demo"},
		{name: "both sources", args: []string{"render", "x.json", "--demo", "3"}, want: "not both"},
		{name: "mixed modes", args: []string{"render", "--demo", "3", "--page", "1", "--page-size", "2", "--offset", "4"}, want: "mutually exclusive"},
		{name: "bad output", args: []string{"render", "--demo", "3", "-o", "xml"}, want: "unsupported output format"},
		{name: "bad sort", args: []string{"render", "--demo", "3", "--sort", "a:up"}, want: "sort order"},
		{name: "bad item height", args: []string{"render", "--demo", "3", "--item-height", "-2"}, want: "item height"},
		{name: "missing file", args: []string{"render", "missing.jsonl"}, want: "reading records file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	setupCLITest(t)
	src := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b\n"), 0o600))

	_, _, err := execute(t, "render", src)
	require.ErrorIs(t, err, records.ErrUnsupportedFormat)
}

func TestRenderWindow_SkipPolicy(t *testing.T) {
	recs := records.Demo(6)
	render := func(rec records.Record, _ int) (string, error) {
		if rec.Index == 2 {
			return "", assert.AnError
		}
		return rec.Get("name"), nil
	}

	snap, err := cli.RenderWindow(recs, render, 1, 0, 4, listview.PolicySkip)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Skipped)
	assert.Equal(t, []string{"ada", "grace", "", "ken"}, snap.Lines)

	_, err = cli.RenderWindow(recs, render, 1, 0, 4, listview.PolicyAbort)
	var renderErr *listview.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, 2, renderErr.Index)
}
