package feed

import (
	"errors"
	"strings"
)

// Type names the shape of an uploaded table.
type Type string

const (
	TypeOrganization Type = "organization"
	TypeServices     Type = "services"
	TypeDependencies Type = "dependencies"
)

var ErrUnknownType = errors.New("unknown feed type")

func ParseType(v string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "organization":
		return TypeOrganization, nil
	case "services":
		return TypeServices, nil
	case "dependencies":
		return TypeDependencies, nil
	default:
		return "", ErrUnknownType
	}
}

// Mode selects how the feed meets existing data: replace overwrites
// attributes of matched entities, append preserves them and only upserts
// the edges.
type Mode string

const (
	ModeReplace Mode = "replace"
	ModeAppend  Mode = "append"
)

var ErrUnknownMode = errors.New("unknown ingest mode")

func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "replace", "":
		return ModeReplace, nil
	case "append", "merge":
		return ModeAppend, nil
	default:
		return "", ErrUnknownMode
	}
}

// Table is parsed tabular input: a header row and data rows. Column lookup
// is caseless and ignores surrounding whitespace, so "Squad ", "squad" and
// "SQUAD" address the same column.
type Table struct {
	index map[string]int
	rows  [][]string
}

func NewTable(headers []string, rows [][]string) *Table {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, taken := index[key]; key != "" && !taken {
			index[key] = i
		}
	}
	return &Table{index: index, rows: rows}
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[normalizeHeader(name)]
	return ok
}

// Cell returns the trimmed value at row for the first of the given column
// names that exists. Missing columns and short rows read as "".
func (t *Table) Cell(row int, names ...string) string {
	if row < 0 || row >= len(t.rows) {
		return ""
	}
	for _, name := range names {
		col, ok := t.index[normalizeHeader(name)]
		if !ok || col >= len(t.rows[row]) {
			continue
		}
		if v := strings.TrimSpace(t.rows[row][col]); v != "" {
			return v
		}
	}
	return ""
}
