package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"      _ _                 ", "#34d399"},
	{"   __| | |_ _ __ ___  ___ ", "#2dd4bf"},
	{"  / _` | __| '__/ _ \\/ _ \\", "#22d3ee"},
	{" | (_| | |_| | |  __/  __/", "#38bdf8"},
	{"  \\__,_|\\__|_|  \\___|\\___|", "#60a5fa"},
}

// PrintBanner writes the dtree ASCII banner to w, coloured when the terminal
// supports it.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
