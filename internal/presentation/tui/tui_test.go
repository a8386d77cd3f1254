package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererFor_NonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))

	out, err := RendererFor(&buf)("# Title\n\n| a | b |\n")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\n| a | b |\n", out)
}

func TestNewRenderer(t *testing.T) {
	out, err := NewRenderer()("# Investment\n\nExpected value **120.00**")
	require.NoError(t, err)
	assert.Contains(t, out, "Investment")
	assert.Contains(t, out, "120.00")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Equal(t, len(bannerLines)+2, strings.Count(buf.String(), "\n"))
}
