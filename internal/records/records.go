// Package records loads flat key/value records to browse in a windowed list
// and checks them against per-field validation rules.
package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/virtlist/internal/validate"
)

// ErrUnsupportedFormat is returned by Load for an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported records format")

// maxLineBytes bounds a single JSON Lines record.
const maxLineBytes = 1 << 20

// Record is one flat record. Keys holds the field order for display.
type Record struct {
	Index  int
	Keys   []string
	Fields map[string]string
}

// Get returns the value of field, or "".
func (r Record) Get(field string) string {
	return r.Fields[field]
}

// FieldIssue is one failed rule on one record.
type FieldIssue struct {
	Index int
	Err   *validate.FieldError
}

// Rules maps a field name to the rule names it must satisfy.
type Rules map[string][]string

// Validate checks that every rule name is known.
func (r Rules) Validate() error {
	for _, field := range r.fields() {
		for _, name := range r[field] {
			if _, err := validate.Rule(name); err != nil {
				return fmt.Errorf("field %q: %w", field, err)
			}
		}
	}
	return nil
}

// Check returns the failed rules of rec, one issue per failing field, in field order.
func (r Rules) Check(rec Record) []FieldIssue {
	var issues []FieldIssue
	for _, field := range r.fields() {
		err := validate.Check(field, rec.Get(field), r[field]...)
		var fe *validate.FieldError
		if errors.As(err, &fe) {
			issues = append(issues, FieldIssue{Index: rec.Index, Err: fe})
		}
	}
	return issues
}

func (r Rules) fields() []string {
	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Load reads records from a .yaml/.yml file (a list of mappings), a .json file
// (an array of objects) or a .jsonl/.ndjson file (one object per line).
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records file %s: %w", path, err)
	}

	var rows []map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("parsing YAML records from %s: %w", path, err)
		}
	case ".json":
		if err = json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("parsing JSON records from %s: %w", path, err)
		}
	case ".jsonl", ".ndjson":
		if rows, err = parseLines(data); err != nil {
			return nil, fmt.Errorf("parsing JSON Lines records from %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = fromMap(i, row)
	}
	return out, nil
}

func parseLines(data []byte) ([]map[string]any, error) {
	var rows []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var row map[string]any
		if err := json.Unmarshal(text, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}

func fromMap(index int, row map[string]any) Record {
	rec := Record{Index: index, Fields: make(map[string]string, len(row))}
	for k, v := range row {
		rec.Keys = append(rec.Keys, k)
		if v == nil {
			rec.Fields[k] = ""
			continue
		}
		rec.Fields[k] = fmt.Sprint(v)
	}
	slices.Sort(rec.Keys)
	return rec
}
