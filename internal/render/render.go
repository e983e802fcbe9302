// Package render paints a layout.Graph viewport as rows of box-drawing runes,
// one row per commit, with lipgloss styling per lane color.
package render

import (
	"strings"

	"github.com/thiagokokada/gitgraph-go/internal/layout"
)

const (
	nodeRune     = '●'
	headNodeRune = '◉'
)

type cell struct {
	ch    rune
	color int
}

type Renderer struct {
	palette Palette
}

func New(palette Palette) *Renderer {
	return &Renderer{palette: palette}
}

// Rows renders count graph rows starting at row first, styled with the
// renderer's palette. Rows outside the graph are dropped, so the result may
// be shorter than count.
func (r *Renderer) Rows(g *layout.Graph, first, count int) []string {
	return renderGrid(buildGrid(g, first, count), func(c cell) string {
		return r.palette.accent(c.color).Render(string(c.ch))
	})
}

// PlainRows renders the same viewport without any styling.
func (r *Renderer) PlainRows(g *layout.Graph, first, count int) []string {
	return renderGrid(buildGrid(g, first, count), func(c cell) string {
		return string(c.ch)
	})
}

// RefBadges formats decoration labels as bracketed badges, styled by kind
// (HEAD, tag, remote, branch), joined with single spaces.
func (r *Renderer) RefBadges(names []string) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		parts = append(parts, r.palette.badgeStyle(name).Render("["+name+"]"))
	}
	return strings.Join(parts, " ")
}

func renderGrid(grid [][]cell, paint func(cell) string) []string {
	rows := make([]string, len(grid))
	for i, line := range grid {
		var b strings.Builder
		for _, c := range line {
			if c.ch == ' ' {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(paint(c))
		}
		rows[i] = b.String()
	}
	return rows
}

// buildGrid rasterizes rows [first, first+count) into a rune grid two cells
// per lane wide. Lines are drawn first; nodes overwrite whatever sits at
// their cell.
func buildGrid(g *layout.Graph, first, count int) [][]cell {
	commits := g.Commits()
	if first < 0 {
		first = 0
	}
	if count <= 0 || first >= len(commits) {
		return nil
	}
	last := min(first+count, len(commits))
	width := max(1, g.MaxLanes()*2-1)

	grid := make([][]cell, last-first)
	for i := range grid {
		row := make([]cell, width)
		for j := range row {
			row[j] = cell{ch: ' '}
		}
		grid[i] = row
	}

	lines := g.Lines()
	for i := range lines {
		drawLine(grid, &lines[i], first, last)
	}
	for row := first; row < last; row++ {
		entry := commits[row]
		ch := nodeRune
		if containsPrefix(entry.Record.RefNames, "HEAD") {
			ch = headNodeRune
		}
		grid[row-first][entry.Lane*2] = cell{ch: ch, color: entry.ColorIdx}
	}
	return grid
}

// drawLine walks a line's segments inside the viewport, resuming at the
// first visible segment instead of replaying the path from the child.
func drawLine(grid [][]cell, line *layout.Line, first, last int) {
	if line.StartRow >= last {
		return
	}
	segIdx, col, ok := line.FirstVisibleSegment(first)
	if !ok {
		return
	}
	row := line.StartRow
	if segIdx > 0 {
		row = line.Segments[segIdx-1].EndRow
	}
	for _, seg := range line.Segments[segIdx:] {
		if row >= last {
			break
		}
		switch seg.Kind {
		case layout.SegmentStraight:
			for r := row + 1; r <= seg.EndRow; r++ {
				put(grid, first, last, r, col*2, '│', line.ColorIdx)
			}
		case layout.SegmentCurve:
			drawCurve(grid, first, last, seg.EndRow, col, seg.ToColumn, line.ColorIdx)
			col = seg.ToColumn
		}
		row = seg.EndRow
	}
}

func drawCurve(grid [][]cell, first, last, row, fromCol, toCol, color int) {
	fromX, toX := fromCol*2, toCol*2
	switch {
	case toX == fromX:
		put(grid, first, last, row, fromX, '│', color)
	case toX > fromX:
		put(grid, first, last, row, fromX, '╰', color)
		for x := fromX + 1; x < toX; x++ {
			put(grid, first, last, row, x, '─', color)
		}
		put(grid, first, last, row, toX, '╮', color)
	default:
		put(grid, first, last, row, fromX, '╯', color)
		for x := toX + 1; x < fromX; x++ {
			put(grid, first, last, row, x, '─', color)
		}
		put(grid, first, last, row, toX, '╭', color)
	}
}

// put writes a rune unless the cell is taken; a crossing of a vertical run
// and a horizontal run becomes a junction.
func put(grid [][]cell, first, last, row, x int, ch rune, color int) {
	if row < first || row >= last {
		return
	}
	c := &grid[row-first][x]
	switch {
	case c.ch == ' ':
		*c = cell{ch: ch, color: color}
	case c.ch == '│' && ch == '─', c.ch == '─' && ch == '│':
		c.ch = '┼'
	}
}

func containsPrefix(values []string, prefix string) bool {
	if prefix == "" {
		return false
	}
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}
