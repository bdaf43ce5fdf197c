package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"heading", "# Verbs", []string{"<h1>Verbs</h1>"}},
		{"emphasis", "remember *ser* vs **estar**", []string{"<em>ser</em>", "<strong>estar</strong>"}},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", []string{"<table>", "<td>1</td>"}},
		{"fenced code", "```\nx := 1\n```", []string{"<pre"}},
		{"strikethrough", "~~old~~", []string{"<del>old</del>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.source)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestToHTMLEscapesRawHTML(t *testing.T) {
	got, err := ToHTML("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, got, "<script>")
}

func TestRender(t *testing.T) {
	assert.Equal(t, "", string(Render("")))
	assert.True(t, strings.HasPrefix(string(Render("hello")), "<p>hello</p>"))
}
