package view

import "github.com/rivo/uniseg"

// DisplayColumn returns the screen column of byte offset col within line.
// Tabs advance to the next multiple of tabWidth and grapheme clusters use
// their East Asian width. An offset inside a cluster maps to the cluster
// start.
func DisplayColumn(line string, col, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	x := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		if _, to := g.Positions(); to > col {
			break
		}
		x += CellWidth(g.Str(), x, tabWidth)
	}
	return x
}

// ByteColumn is the inverse of DisplayColumn: it returns the byte offset of
// the cluster drawn at screen column x, or len(line) past the end.
func ByteColumn(line string, x, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	if x <= 0 {
		return 0
	}
	cur := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		from, to := g.Positions()
		w := CellWidth(g.Str(), cur, tabWidth)
		if cur+w > x {
			return from
		}
		cur += w
		if cur >= x {
			return to
		}
	}
	return len(line)
}

// CellWidth is the number of screen cells a grapheme cluster takes when it
// starts at column x.
func CellWidth(cluster string, x, tabWidth int) int {
	if cluster == "\t" {
		if tabWidth < 1 {
			tabWidth = 1
		}
		return tabWidth - x%tabWidth
	}
	if w := uniseg.StringWidth(cluster); w > 0 {
		return w
	}
	return 1
}
