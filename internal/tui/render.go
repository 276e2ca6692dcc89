// SPDX-License-Identifier: MIT
package tui

import (
	"math"
	"strings"

	"freqscope/internal/analysis"

	"github.com/charmbracelet/lipgloss"
)

// Eighth blocks, index n draws n/8 of a cell.
var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// canvas maps the graph's virtual pixel space onto a grid of terminal
// cells.
type canvas struct {
	cols, rows      int
	graphW, graphH  int
	ground, padding int
}

// toVirtual converts a terminal column to a graph x coordinate.
func (c canvas) toVirtual(col int) int {
	if c.cols <= 0 {
		return 0
	}
	return col * c.graphW / c.cols
}

// toColumn converts a graph x coordinate to a terminal column.
func (c canvas) toColumn(x int) int {
	if c.graphW <= 0 {
		return 0
	}
	return x * c.cols / c.graphW
}

// columnBars returns, per terminal column, the index of the tallest bar
// drawn in that column's virtual x range, or -1.
func (c canvas) columnBars(frame analysis.Frame) []int {
	out := make([]int, c.cols)
	for col := range out {
		out[col] = -1
	}
	if len(frame.Bars) == 0 || frame.Bars[0].Width <= 0 {
		return out
	}
	barWidth := frame.Bars[0].Width
	for col := range out {
		lo, hi := c.toVirtual(col), c.toVirtual(col+1)
		if hi <= lo {
			hi = lo + 1
		}
		for i := lo / barWidth; i <= (hi-1)/barWidth && i < len(frame.Bars); i++ {
			if out[col] < 0 || frame.Bars[i].Height > frame.Bars[out[col]].Height {
				out[col] = i
			}
		}
	}
	return out
}

// levels converts a bar height in virtual pixels to eighths of a cell.
func (c canvas) levels(height int) int {
	drawable := c.graphH - c.ground - c.padding
	if drawable <= 0 || c.rows <= 0 {
		return 0
	}
	return int(math.Round(float64(height) / float64(drawable) * float64(c.rows*8)))
}

// render draws the frame as rows of block characters, bottom aligned.
func (c canvas) render(frame analysis.Frame, mode analysis.ColorMode) string {
	if c.cols <= 0 || c.rows <= 0 {
		return ""
	}

	columns := c.columnBars(frame)
	styles := make([]lipgloss.Style, c.cols)
	heights := make([]int, c.cols)
	selected, hasSel := frame.SelectedBar()
	for col, i := range columns {
		if i < 0 {
			continue
		}
		bar := frame.Bars[i]
		heights[col] = c.levels(bar.Height)
		styles[col] = lipgloss.NewStyle().Foreground(lipgloss.Color(bar.Color(mode).Hex()))
		if hasSel && bar.Data.BinIndex == selected.Data.BinIndex {
			styles[col] = styles[col].Background(lipgloss.Color("#3a3a3a"))
			heights[col] = max(heights[col], 1)
		}
	}

	var sb strings.Builder
	for row := c.rows - 1; row >= 0; row-- {
		for col := range columns {
			cell := min(max(heights[col]-row*8, 0), 8)
			if columns[col] < 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteString(styles[col].Render(string(blocks[cell])))
		}
		if row > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
