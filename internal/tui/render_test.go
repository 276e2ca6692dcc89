// SPDX-License-Identifier: MIT
package tui

import (
	"slices"
	"strings"
	"testing"

	"freqscope/internal/analysis"
)

func TestCanvasMapping(t *testing.T) {
	c := canvas{cols: 50, rows: 10, graphW: 100, graphH: 200}

	tests := []struct {
		col, x int
	}{
		{0, 0},
		{10, 20},
		{25, 50},
		{49, 98},
	}
	for _, tt := range tests {
		if got := c.toVirtual(tt.col); got != tt.x {
			t.Errorf("toVirtual(%d) = %d, want %d", tt.col, got, tt.x)
		}
		if got := c.toColumn(tt.x); got != tt.col {
			t.Errorf("toColumn(%d) = %d, want %d", tt.x, got, tt.col)
		}
	}

	if got := (canvas{}).toVirtual(5); got != 0 {
		t.Errorf("toVirtual on empty canvas = %d, want 0", got)
	}
}

func TestColumnBars(t *testing.T) {
	_, graph := newTestPipeline(t)
	frame := graph.Run()

	tests := []struct {
		name string
		cols int
		want []int
	}{
		{"two columns per bar", 10, []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}},
		{"one column per bar", 5, []int{0, 1, 2, 3, 4}},
		// Columns span bars 0-1, 1-3 and 3-4.
		{"tallest bar wins", 3, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := canvas{cols: tt.cols, rows: 10, graphW: 100, graphH: 200}
			if got := c.columnBars(frame); !slices.Equal(got, tt.want) {
				t.Errorf("columnBars() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("empty frame", func(t *testing.T) {
		c := canvas{cols: 4, rows: 10, graphW: 100, graphH: 200}
		got := c.columnBars(analysis.Frame{PeakBar: -1})
		if !slices.Equal(got, []int{-1, -1, -1, -1}) {
			t.Errorf("columnBars() = %v, want all -1", got)
		}
	})
}

func TestLevels(t *testing.T) {
	c := canvas{cols: 10, rows: 10, graphW: 100, graphH: 200, ground: analysis.GroundHeight, padding: analysis.PaddingTop}

	tests := []struct {
		height, want int
	}{
		{0, 0},
		{160, 80},
		{80, 40},
		{2, 1},
	}
	for _, tt := range tests {
		if got := c.levels(tt.height); got != tt.want {
			t.Errorf("levels(%d) = %d, want %d", tt.height, got, tt.want)
		}
	}

	if got := (canvas{rows: 10, graphH: 20}).levels(10); got != 0 {
		t.Errorf("levels on a canvas without drawable area = %d, want 0", got)
	}
}

func TestRender(t *testing.T) {
	_, graph := newTestPipeline(t)
	frame := graph.Run()
	c := canvas{cols: 10, rows: 6, graphW: 100, graphH: 200, ground: analysis.GroundHeight, padding: analysis.PaddingTop}

	out := c.render(frame, analysis.ColorAmplitude)
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("render() produced %d rows, want 6", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "█") {
		t.Errorf("bottom row %q has no full block", lines[len(lines)-1])
	}
	// The peak bar reaches 145 of 160 drawable pixels, so the top row is
	// partially filled at most.
	if strings.Contains(lines[0], "█") {
		t.Errorf("top row %q should not be full", lines[0])
	}

	if got := (canvas{}).render(frame, analysis.ColorAmplitude); got != "" {
		t.Errorf("render on empty canvas = %q, want empty", got)
	}
}
