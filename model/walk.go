package model

import (
	"errors"
	"strings"
)

// SkipChildren may be returned by WalkFunc to avoid descending into the
// children of the current block.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every block in depth-first document order. depth is
// 0 for top level blocks.
type WalkFunc func(b *Block, depth int) error

// Walk visits blocks depth first. Returning SkipChildren prunes the current
// subtree, any other error stops the walk and is returned.
func Walk(blocks []Block, fn WalkFunc) error {
	return walk(blocks, 0, fn)
}

func walk(blocks []Block, depth int, fn WalkFunc) error {
	for i := range blocks {
		err := fn(&blocks[i], depth)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if blocks[i].Value.HasChildren() {
			if err := walk(blocks[i].Value.children, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// PlainText concatenates all text values found under blocks.
func PlainText(blocks []Block) string {
	var buf strings.Builder
	_ = Walk(blocks, func(b *Block, _ int) error {
		if b.Value.HasText() {
			buf.WriteString(b.Value.text)
		}
		return nil
	})
	return buf.String()
}

// CountCells returns number of cells in a table row block.
func CountCells(row *Block) int {
	if row == nil || row.Type != TypeTableRow {
		return 0
	}
	n := 0
	for _, c := range row.Value.children {
		if c.Type == TypeTableCell || c.Type == TypeTableHeaderCell {
			n++
		}
	}
	return n
}
