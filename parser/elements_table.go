package parser

import (
	"go.uber.org/zap"

	"canvas/model"
)

type tableElement struct{ elementBase }

type tableSection struct {
	id   string
	rows []model.Block
	// bare is set when the first row did not come from a section element
	bare bool
}

func (s *tableSection) add(blk model.Block) {
	if s.id == "" {
		s.id = blk.ID
	}
	s.rows = append(s.rows, blk.Value.Children()...)
}

func allHeaderCells(row *model.Block) bool {
	cells := row.Value.Children()
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c.Type != model.TypeTableHeaderCell {
			return false
		}
	}
	return true
}

// finalize brings table into canonical shape: caption, optional header, body
// and optional footer, every row padded to the same number of cells.
// Multiple sections of the same kind are merged, rows outside sections go to
// body. A leading row of header cells outside any section becomes header
// when there is none.
func (e *tableElement) finalize(b *builder) []model.Block {
	var (
		caption              *model.Block
		header, body, footer tableSection
	)
	for _, c := range b.normalize(model.TypeTable, e.children) {
		switch c.Type {
		case model.TypeTableCaption:
			if caption == nil {
				caption = &c
			}
		case model.TypeTableHeader:
			header.add(c)
		case model.TypeTableBody:
			body.add(c)
		case model.TypeTableFooter:
			footer.add(c)
		case model.TypeTableRow:
			if len(body.rows) == 0 {
				body.bare = true
			}
			body.rows = append(body.rows, c)
		}
	}
	if len(header.rows)+len(body.rows)+len(footer.rows) == 0 {
		b.log.Debug("Table without rows dropped")
		return nil
	}

	s := b.ctx.Settings()
	if len(header.rows) == 0 && body.bare && len(body.rows) > 1 && allHeaderCells(&body.rows[0]) && s.TypeAllowed(model.TypeTableHeader) {
		header.rows, body.rows = body.rows[:1], body.rows[1:]
	}

	width := 0
	for _, section := range []*tableSection{&header, &body, &footer} {
		for i := range section.rows {
			width = max(width, model.CountCells(&section.rows[i]))
		}
	}
	headerCell := model.TypeTableHeaderCell
	if !s.TypeAllowed(headerCell) {
		headerCell = model.TypeTableCell
	}
	pad := func(rows []model.Block, cell model.Type) {
		for i := range rows {
			n := model.CountCells(&rows[i])
			if n >= width {
				continue
			}
			cells := append([]model.Block(nil), rows[i].Value.Children()...)
			for ; n < width; n++ {
				cells = append(cells, model.Block{Type: cell, ID: b.ids.next()})
			}
			rows[i].Value = model.ChildrenValue(cells)
		}
	}
	pad(header.rows, headerCell)
	pad(body.rows, model.TypeTableCell)
	pad(footer.rows, model.TypeTableCell)

	section := func(t model.Type, sec *tableSection) model.Block {
		id := sec.id
		if id == "" {
			id = b.ids.next()
		}
		blk := model.Block{Type: t, ID: id}
		if len(sec.rows) > 0 {
			blk.Value = model.ChildrenValue(sec.rows)
		}
		return blk
	}

	if caption == nil {
		caption = &model.Block{Type: model.TypeTableCaption, ID: b.ids.next()}
	}
	children := []model.Block{*caption}
	if len(header.rows) > 0 {
		children = append(children, section(model.TypeTableHeader, &header))
	}
	children = append(children, section(model.TypeTableBody, &body))
	if len(footer.rows) > 0 {
		children = append(children, section(model.TypeTableFooter, &footer))
	}

	b.log.Debug("Table normalized", zap.Int("columns", width),
		zap.Int("header", len(header.rows)), zap.Int("body", len(body.rows)), zap.Int("footer", len(footer.rows)))
	return []model.Block{{Type: model.TypeTable, ID: e.id(b), Value: model.ChildrenValue(children)}}
}
