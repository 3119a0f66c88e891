package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/filepilot/pkg/tabular"
)

func TestApplyFirstMatch(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantRule    string
		wantMatched bool
		check       func(t *testing.T, doc *tabular.Document)
	}{
		{
			name:        "column_constant_single_quotes",
			text:        "df['Notes'] = 'pending'",
			wantRule:    "column_constant",
			wantMatched: true,
			check: func(t *testing.T, doc *tabular.Document) {
				v, ok := doc.Cell(0, "Notes")
				require.True(t, ok)
				assert.Equal(t, "pending", v)
			},
		},
		{
			name:        "column_constant_embedded_in_prose",
			text:        "Thought: I should run `df['Status'] = 'Closed'` to apply the change.",
			wantRule:    "column_constant",
			wantMatched: true,
			check: func(t *testing.T, doc *tabular.Document) {
				v, _ := doc.Cell(2, "Status")
				assert.Equal(t, "Closed", v)
			},
		},
		{
			name:        "loc_assign_numeric_selector",
			text:        "df.loc[df['OrderID'] == 105, 'Status'] = 'Closed'",
			wantRule:    "loc_assign",
			wantMatched: true,
			check: func(t *testing.T, doc *tabular.Document) {
				v, _ := doc.Cell(4, "Status")
				assert.Equal(t, "Closed", v)
				v, _ = doc.Cell(0, "Status")
				assert.Equal(t, "Shipped", v)
			},
		},
		{
			name:        "loc_assign_string_selector",
			text:        "Could not parse LLM output: `df.loc[df['Status'] == 'Pending', 'Status'] = 'Open'`",
			wantRule:    "loc_assign",
			wantMatched: true,
			check: func(t *testing.T, doc *tabular.Document) {
				v, _ := doc.Cell(1, "Status")
				assert.Equal(t, "Open", v)
				v, _ = doc.Cell(3, "Status")
				assert.Equal(t, "Open", v)
			},
		},
		{
			name:        "loc_scale",
			text:        "`df.loc[df['Status'] == 'Pending', 'Price'] *= 1.1`",
			wantRule:    "loc_scale",
			wantMatched: true,
			check: func(t *testing.T, doc *tabular.Document) {
				v, _ := doc.Cell(1, "Price")
				assert.Equal(t, "330", v)
				v, _ = doc.Cell(3, "Price")
				assert.Equal(t, "82.5", v)
			},
		},
		{
			name:        "no_match",
			text:        "I am unable to help with that request.",
			wantMatched: false,
			check: func(t *testing.T, doc *tabular.Document) {
				assert.True(t, doc.Equal(demoTable()), "document untouched when nothing matches")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := demoTable()
			rule, matched, err := ApplyFirstMatch(doc, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatched, matched)
			assert.Equal(t, tt.wantRule, rule)
			tt.check(t, doc)
		})
	}
}

func TestApplyFirstMatch_RuleErrorSurfaces(t *testing.T) {
	doc := demoTable()
	// Selector column does not exist: the rule matches structurally but
	// application fails.
	rule, matched, err := ApplyFirstMatch(doc, "df.loc[df['Missing'] == 1, 'Status'] = 'x'")
	assert.Equal(t, "loc_assign", rule)
	assert.True(t, matched)
	require.Error(t, err)
}

func TestRules_PriorityOrder(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "column_constant", rules[0].Name)
	assert.Equal(t, "loc_assign", rules[1].Name)
	assert.Equal(t, "loc_scale", rules[2].Name)
}

func TestFirstExpression(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "bare_expression",
			output: "df['Notes'] = 'pending'",
			want:   "df['Notes'] = 'pending'",
		},
		{
			name:   "fenced_expression",
			output: "```\ndf.loc[df['OrderID'] == 105, 'Status'] = 'Closed'\n```",
			want:   "df.loc[df['OrderID'] == 105, 'Status'] = 'Closed'",
		},
		{
			name:   "prose_only",
			output: "Sure! I'd be happy to help.",
			want:   "",
		},
		{
			name:   "expression_after_prose_line",
			output: "Here is the edit:\ndf['Status'] = 'Closed'",
			want:   "df['Status'] = 'Closed'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstExpression(tt.output))
		})
	}
}

func demoTable() *tabular.Document {
	return DemoDocument()
}
