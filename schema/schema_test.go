package schema

import (
	"testing"

	"canvas/model"
	"canvas/settings"
)

func TestAllowedChildren(t *testing.T) {
	tests := []struct {
		parent, child model.Type
		want          bool
	}{
		{model.TypeList, model.TypeListItem, true},
		{model.TypeList, model.TypeParagraph, false},
		{model.TypeAnchor, model.TypeFragment, true},
		{model.TypeAnchor, model.TypeLink, false},
		{model.TypeTableBody, model.TypeTableRow, true},
		{model.TypeTableBody, model.TypeTableCell, false},
		{model.TypeTableRow, model.TypeTableHeaderCell, true},
		{model.TypeDivider, model.TypeFragment, false},
		{model.TypeQuote, model.TypeParagraph, true},
		{model.TypeQuote, model.TypeTable, false},
	}
	for _, tt := range tests {
		t.Run(tt.parent.Name()+"_"+tt.child.Name(), func(t *testing.T) {
			if got := AllowedChildren(tt.parent, tt.child); got != tt.want {
				t.Fatalf("AllowedChildren(%s, %s) = %v, want %v", tt.parent, tt.child, got, tt.want)
			}
		})
	}
}

func TestContextPushPop(t *testing.T) {
	c := NewContext(nil)

	if !c.CanAddType(model.TypeList) {
		t.Fatal("list must be legal at root")
	}
	mark := c.Push(model.TypeList)
	if c.CanAddType(model.TypeParagraph) {
		t.Error("paragraph must not be legal directly under list")
	}
	inner := c.Push(model.TypeListItem)
	if !c.CanAddType(model.TypeParagraph) && !c.CanAddType(model.TypeFragment) {
		t.Error("list item must accept inline content")
	}
	c.Push(model.TypeList)
	c.Pop(inner)
	if c.Top().Type != model.TypeList || c.Depth() != 2 {
		t.Fatalf("Pop(inner) left %s at depth %d", c.Top().Type, c.Depth())
	}
	c.Pop(mark)
	if c.Depth() != 1 || c.Top().Type != "" {
		t.Fatalf("Pop(mark) did not restore root, depth %d", c.Depth())
	}
	c.Pop(0)
	if c.Depth() != 1 {
		t.Fatal("root frame must never be removed")
	}
}

func TestContextDecorators(t *testing.T) {
	c := NewContext(nil)
	c.Push(model.TypeParagraph)

	if !c.CanAddDecorator(model.DecoratorStrong) {
		t.Fatal("strong must be available in paragraph")
	}
	mark := c.PushDecorator(model.DecoratorStrong)

	t.Run("no_reapply", func(t *testing.T) {
		if c.CanAddDecorator(model.DecoratorStrong) {
			t.Error("strong must not re-apply itself")
		}
		if !c.IsActive(model.DecoratorStrong) {
			t.Error("strong should be active")
		}
	})

	t.Run("inherited_through_block", func(t *testing.T) {
		m := c.Push(model.TypeLink)
		defer c.Pop(m)
		if c.CanAddDecorator(model.DecoratorStrong) {
			t.Error("active set must be inherited by nested blocks")
		}
		if !c.CanAddDecorator(model.DecoratorEmphasis) {
			t.Error("emphasis should be available inside link")
		}
	})

	t.Run("decorator_matrix", func(t *testing.T) {
		m := c.PushDecorator(model.DecoratorKeyboard)
		defer c.Pop(m)
		if c.CanAddDecorator(model.DecoratorEmphasis) {
			t.Error("emphasis must not nest inside keyboard")
		}
		if !c.CanAddDecorator(model.DecoratorLinebreak) {
			t.Error("linebreak should nest inside keyboard")
		}
	})

	c.Pop(mark)
	if c.IsActive(model.DecoratorStrong) {
		t.Fatal("pop must restore active set")
	}
	if got := c.Top().Active(); len(got) != 0 {
		t.Fatalf("Active() = %v after pop", got)
	}
}

func TestContextCodeBlock(t *testing.T) {
	c := NewContext(nil)
	c.Push(model.TypeCode)
	if c.CanAddDecorator(model.DecoratorEmphasis) {
		t.Fatal("decorators must not be available in code blocks")
	}
	if !c.CanAddType(model.TypeFragment) {
		t.Fatal("code collects text fragments")
	}
}

func TestContextSettings(t *testing.T) {
	field, err := settings.ParseField([]byte(`
validations:
  allowedTypes:
    types: [_paragraph, _fragment]
    validations:
      _fragment:
        allowedDecorators:
          decorators: [emphasis]
`))
	if err != nil {
		t.Fatalf("ParseField() error = %v", err)
	}
	c := NewContext(settings.Compile(field))

	if c.CanAddType(model.TypeList) {
		t.Error("list is disabled by settings")
	}
	if !c.CanAddType(model.TypeParagraph) {
		t.Error("paragraph is enabled")
	}
	c.Push(model.TypeParagraph)
	if c.CanAddDecorator(model.DecoratorStrong) {
		t.Error("strong is disabled by settings")
	}
	if !c.CanAddDecorator(model.DecoratorEmphasis) {
		t.Error("emphasis is enabled")
	}
}
