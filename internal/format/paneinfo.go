package format

import (
	"strings"

	"github.com/vtmux/vtmux/internal/grid"
	"github.com/vtmux/vtmux/internal/objgraph"
)

// paneVisibleText joins every row of p's visible screen into one string,
// for the "C/pattern/" search modifier (spec §4.8 "search pane text").
func paneVisibleText(p *objgraph.Pane) string {
	g := p.Screen.Grid()
	var lines []string
	for y := 0; y < g.Rows(); y++ {
		lines = append(lines, g.StringCells(0, y, g.Cols(), grid.StringCellsTrim))
	}
	return strings.Join(lines, "\n")
}
