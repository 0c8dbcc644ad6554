package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/virtlist/internal/records"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
		errMsg  string
	}{
		{name: "valid default", params: *NewParams()},
		{name: "valid offset mode", params: Params{Offset: 20, Height: 10}},
		{name: "valid page mode", params: Params{Page: 2, PageSize: 10}},
		{name: "valid sort", params: Params{Height: 5, Sort: "email:desc"}},
		{name: "negative offset", params: Params{Offset: -1}, wantErr: true, errMsg: "offset cannot be negative"},
		{name: "negative height", params: Params{Height: -1}, wantErr: true, errMsg: "height cannot be negative"},
		{name: "negative page", params: Params{Page: -1}, wantErr: true, errMsg: "page cannot be negative"},
		{name: "negative page-size", params: Params{PageSize: -1}, wantErr: true, errMsg: "page-size cannot be negative"},
		{
			name:    "mixed modes",
			params:  Params{Page: 1, PageSize: 5, Offset: 10},
			wantErr: true,
			errMsg:  "page and offset parameters are mutually exclusive",
		},
		{name: "page-size without page", params: Params{PageSize: 10}, wantErr: true, errMsg: "page must be specified"},
		{name: "page without page-size", params: Params{Page: 2}, wantErr: true, errMsg: "page-size must be specified"},
		{name: "bad sort", params: Params{Sort: "a:b:c"}, wantErr: true, errMsg: "invalid sort format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParams_Viewport(t *testing.T) {
	offset, height := Params{Offset: 205, Height: 20}.Viewport(20)
	assert.Equal(t, 205, offset)
	assert.Equal(t, 20, height)

	offset, height = Params{Page: 3, PageSize: 10}.Viewport(2)
	assert.Equal(t, 40, offset)
	assert.Equal(t, 20, height)

	offset, height = Params{Page: 1, PageSize: 10}.Viewport(1)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 10, height)
}

func TestParams_PageRange(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		total     int
		wantStart int
		wantEnd   int
	}{
		{name: "first page", params: Params{Page: 1, PageSize: 10}, total: 25, wantStart: 0, wantEnd: 10},
		{name: "middle page", params: Params{Page: 2, PageSize: 10}, total: 25, wantStart: 10, wantEnd: 20},
		{name: "last partial page", params: Params{Page: 3, PageSize: 10}, total: 25, wantStart: 20, wantEnd: 25},
		{name: "past the end", params: Params{Page: 9, PageSize: 10}, total: 25, wantStart: 25, wantEnd: 25},
		{name: "empty list", params: Params{Page: 1, PageSize: 10}, total: 0, wantStart: 0, wantEnd: 0},
		{name: "offset mode", params: Params{Offset: 5, Height: 10}, total: 25, wantStart: 0, wantEnd: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.params.PageRange(tt.total)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		input     string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{input: "", wantField: "", wantOrder: "asc"},
		{input: "email", wantField: "email", wantOrder: "asc"},
		{input: "email:desc", wantField: "email", wantOrder: "desc"},
		{input: " age : ASC ", wantField: "age", wantOrder: "asc"},
		{input: "age:sideways", wantErr: ErrInvalidSortOrder},
		{input: ":desc", wantErr: ErrEmptySortField},
		{input: "a:b:c", wantErr: ErrInvalidSortFormat},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field, order, err := ParseSort(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name                  string
		start, size, total    int
		want                  Meta
	}{
		{
			name: "first page", start: 0, size: 10, total: 25,
			want: Meta{CurrentPage: 1, PageSize: 10, TotalPages: 3, TotalItems: 25, HasNext: true},
		},
		{
			name: "middle page", start: 10, size: 10, total: 25,
			want: Meta{CurrentPage: 2, PageSize: 10, TotalPages: 3, TotalItems: 25, HasPrevious: true, HasNext: true},
		},
		{
			name: "last page", start: 20, size: 10, total: 25,
			want: Meta{CurrentPage: 3, PageSize: 10, TotalPages: 3, TotalItems: 25, HasPrevious: true},
		},
		{
			name: "unaligned offset", start: 15, size: 10, total: 25,
			want: Meta{CurrentPage: 2, PageSize: 10, TotalPages: 3, TotalItems: 25, HasPrevious: true},
		},
		{
			name: "empty viewport", start: 0, size: 0, total: 5,
			want: Meta{CurrentPage: 1, TotalItems: 5},
		},
		{
			name: "no items", start: 0, size: 10, total: 0,
			want: Meta{CurrentPage: 1, PageSize: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMeta(tt.start, tt.size, tt.total))
		})
	}
}

func rec(index int, kv ...string) records.Record {
	r := records.Record{Index: index, Fields: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Keys = append(r.Keys, kv[i])
		r.Fields[kv[i]] = kv[i+1]
	}
	return r
}

func indexes(recs []records.Record) []int {
	out := make([]int, len(recs))
	for i, r := range recs {
		out[i] = r.Index
	}
	return out
}

func TestSortRecords(t *testing.T) {
	recs := []records.Record{
		rec(0, "name", "carol", "age", "30"),
		rec(1, "name", "alice", "age", "9"),
		rec(2, "name", "bob"),
		rec(3, "name", "dave", "age", "n/a"),
		rec(4, "name", "erin", "age", "30"),
	}

	assert.Equal(t, []int{1, 0, 4, 3, 2}, indexes(SortRecords(recs, "age", SortOrderAsc)),
		"numbers before text, missing last, ties stable")
	assert.Equal(t, []int{1, 2, 0, 3, 4}, indexes(SortRecords(recs, "name", SortOrderAsc)))
	assert.Equal(t, []int{4, 3, 0, 2, 1}, indexes(SortRecords(recs, "name", SortOrderDesc)))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indexes(SortRecords(recs, "", SortOrderAsc)))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, indexes(recs), "input is not modified")
}
