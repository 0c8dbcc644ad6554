package pagination

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/rshade/virtlist/internal/records"
)

// SortRecords returns a copy of recs ordered by field. Values that parse as
// numbers compare numerically and sort before text; records missing the field
// sort last. The sort is stable, and Index keeps each record's load position.
func SortRecords(recs []records.Record, field, order string) []records.Record {
	sorted := slices.Clone(recs)
	if field == "" {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b records.Record) int {
		va, vb := a.Get(field), b.Get(field)
		c := compareValues(va, vb)
		if order == SortOrderDesc && va != "" && vb != "" {
			return -c
		}
		return c
	})
	return sorted
}

func compareValues(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}

	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(fa, fb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}
