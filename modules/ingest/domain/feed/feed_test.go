package feed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for input, want := range map[string]Type{
		"organization": TypeOrganization,
		" Services ":   TypeServices,
		"DEPENDENCIES": TypeDependencies,
	} {
		got, err := ParseType(input)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseType("people")
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestParseMode(t *testing.T) {
	for input, want := range map[string]Mode{
		"":        ModeReplace,
		"replace": ModeReplace,
		"append":  ModeAppend,
		"Merge":   ModeAppend,
	} {
		got, err := ParseMode(input)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseMode("upsert")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestTableCaselessLookup(t *testing.T) {
	table := NewTable(
		[]string{" Squad ", "NAME", "name"},
		[][]string{{" payments ", "first", "second"}},
	)

	require.Equal(t, 1, table.Len())
	require.True(t, table.HasColumn("squad"))
	require.True(t, table.HasColumn("SQUAD"))
	require.False(t, table.HasColumn("tribe"))

	require.Equal(t, "payments", table.Cell(0, "Squad"))
	// duplicate headers resolve to the first occurrence
	require.Equal(t, "first", table.Cell(0, "name"))
}

func TestTableCellAliases(t *testing.T) {
	table := NewTable(
		[]string{"et", "employment type"},
		[][]string{
			{"", "regular"},
			{"subcon", "regular"},
		},
	)

	// first non-empty value among the aliases wins
	require.Equal(t, "regular", table.Cell(0, "et", "employment type"))
	require.Equal(t, "subcon", table.Cell(1, "et", "employment type"))
}

func TestTableCellOutOfRange(t *testing.T) {
	table := NewTable([]string{"name"}, [][]string{{"a"}, {}})

	require.Equal(t, "", table.Cell(-1, "name"))
	require.Equal(t, "", table.Cell(5, "name"))
	// short row
	require.Equal(t, "", table.Cell(1, "name"))
	// unknown column
	require.Equal(t, "", table.Cell(0, "email"))
}

func TestSlug(t *testing.T) {
	for input, want := range map[string]string{
		"John Doe":            "john.doe",
		"  Mary-Jane O'Hara ": "mary.jane.o.hara",
		"Backend Engineer 2":  "backend.engineer.2",
		"---":                 "",
		"Vacancy":             "vacancy",
	} {
		require.Equal(t, want, Slug(input), "input %q", input)
	}
}
