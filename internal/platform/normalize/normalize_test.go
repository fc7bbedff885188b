package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "401309885,2021,Oklahoma,Tulane",
			want: []string{"401309885", "2021", "Oklahoma", "Tulane"},
		},
		{
			name: "quoted comma",
			line: `1,"Miami, OH",7`,
			want: []string{"1", "Miami, OH", "7"},
		},
		{
			name: "escaped quote",
			line: `1,"the ""Sooners""",7`,
			want: []string{"1", `the "Sooners"`, "7"},
		},
		{
			name: "trailing empty field",
			line: "1,Oklahoma,",
			want: []string{"1", "Oklahoma", ""},
		},
		{
			name: "quoted line scores",
			line: `401309885,"'[7, 14, 3, 10]'"`,
			want: []string{"401309885", "'[7, 14, 3, 10]'"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SplitLine(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSplitLineUnterminatedQuote(t *testing.T) {
	_, err := SplitLine(`1,"Oklahoma`)
	require.Error(t, err)
}

func TestSchemaApplyCoercion(t *testing.T) {
	schema := NewSchema(
		Column{Name: "id", Kind: KindInt},
		Column{Name: "ppa", Kind: KindFloat},
		Column{Name: "neutral_site", Kind: KindBool},
		Column{Name: "home_team", Kind: KindString},
		Column{Name: "home_line_scores", Kind: KindIntList},
	)

	record, err := schema.Apply([]string{"401309885", "0.34", "false", "Oklahoma", "'[7, 14, 3, 10]'"})
	require.NoError(t, err)

	assert.Equal(t, int64(401309885), record["id"])
	assert.Equal(t, 0.34, record["ppa"])
	assert.Equal(t, false, record["neutral_site"])
	assert.Equal(t, "Oklahoma", record["home_team"])
	assert.Equal(t, []int64{7, 14, 3, 10}, record["home_line_scores"])
}

func TestSchemaApplyNullTokens(t *testing.T) {
	schema := NewSchema(
		Column{Name: "excitement", Kind: KindFloat},
		Column{Name: "attendance", Kind: KindInt},
		Column{Name: "notes", Kind: KindString},
	)

	for _, token := range []string{"", "NA", "NaN"} {
		record, err := schema.Apply([]string{token, token, token})
		require.NoError(t, err)

		for _, name := range schema.Names() {
			value, present := record[name]
			assert.True(t, present, "column %s should be present", name)
			assert.Nil(t, value, "column %s should be null for token %q", name, token)
		}
	}
}

func TestSchemaApplyBadValueBecomesNull(t *testing.T) {
	schema := NewSchema(
		Column{Name: "week", Kind: KindInt},
		Column{Name: "ppa", Kind: KindFloat},
		Column{Name: "completed", Kind: KindBool},
		Column{Name: "line_scores", Kind: KindIntList},
	)

	record, err := schema.Apply([]string{"week-one", "many", "maybe", "'[oops]'"})
	require.NoError(t, err)

	assert.Nil(t, record["week"])
	assert.Nil(t, record["ppa"])
	assert.Nil(t, record["completed"])
	assert.Nil(t, record["line_scores"])
}

func TestSchemaApplyIntegralFloat(t *testing.T) {
	schema := NewSchema(Column{Name: "attendance", Kind: KindInt})

	record, err := schema.Apply([]string{"84912.0"})
	require.NoError(t, err)
	assert.Equal(t, int64(84912), record["attendance"])
}

func TestSchemaApplyFieldCountMismatch(t *testing.T) {
	schema := NewSchema(Column{Name: "id", Kind: KindInt})
	_, err := schema.Apply([]string{"1", "extra"})
	require.Error(t, err)
}

func TestDecodeLine(t *testing.T) {
	schema := NewSchema(
		Column{Name: "season", Kind: KindInt},
		Column{Name: "school", Kind: KindString},
		Column{Name: "points", Kind: KindInt},
	)

	record, err := schema.DecodeLine(`2021,"Miami, OH",NA`)
	require.NoError(t, err)
	assert.Equal(t, int64(2021), record["season"])
	assert.Equal(t, "Miami, OH", record["school"])
	assert.Nil(t, record["points"])
}
