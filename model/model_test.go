package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBlockMarshalJSON(t *testing.T) {
	t.Run("text_value", func(t *testing.T) {
		b := Block{Type: TypeHeading, ID: "h1", Properties: &Properties{Level: 2}, Value: TextValue("Title")}
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		want := `{"type":"_heading","id":"h1","properties":{"level":2},"value":"Title"}`
		if string(data) != want {
			t.Fatalf("got %s, want %s", data, want)
		}
	})

	t.Run("absent_value_omitted", func(t *testing.T) {
		data, err := json.Marshal(Block{Type: TypeDivider, ID: "d"})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != `{"type":"_divider","id":"d"}` {
			t.Fatalf("unexpected json %s", data)
		}
	})

	t.Run("empty_children_is_array", func(t *testing.T) {
		data, err := json.Marshal(Block{Type: TypeTableBody, ID: "b", Value: ChildrenValue(nil)})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !strings.Contains(string(data), `"value":[]`) {
			t.Fatalf("expected empty array value, got %s", data)
		}
	})
}

func TestBlockUnmarshalJSON(t *testing.T) {
	input := `[{"type":"_paragraph","id":"p","value":[{"type":"_fragment","id":"f","properties":{"decorators":["strong"]},"value":"x"}]}]`

	var blocks []Block
	if err := json.Unmarshal([]byte(input), &blocks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(blocks) != 1 || !blocks[0].Value.HasChildren() {
		t.Fatalf("expected paragraph with children, got %+v", blocks)
	}
	frag := blocks[0].Value.Children()[0]
	if frag.Value.Text() != "x" || !HasDecorator(frag.Decorators(), DecoratorStrong) {
		t.Fatalf("unexpected fragment %+v", frag)
	}

	t.Run("rejects_unknown_type", func(t *testing.T) {
		var b Block
		if err := json.Unmarshal([]byte(`{"type":"_bogus","id":"x"}`), &b); err == nil {
			t.Fatal("expected error for unknown type")
		}
	})

	t.Run("rejects_object_value", func(t *testing.T) {
		var b Block
		if err := json.Unmarshal([]byte(`{"type":"_paragraph","id":"x","value":{}}`), &b); err == nil {
			t.Fatal("expected error for object value")
		}
	})
}

func TestSameDecorators(t *testing.T) {
	tests := []struct {
		name string
		a, b []Decorator
		want bool
	}{
		{"both_empty", nil, nil, true},
		{"order_independent", []Decorator{DecoratorStrong, DecoratorEmphasis}, []Decorator{DecoratorEmphasis, DecoratorStrong}, true},
		{"different_length", []Decorator{DecoratorStrong}, nil, false},
		{"multiset_counts", []Decorator{DecoratorStrong, DecoratorStrong}, []Decorator{DecoratorStrong, DecoratorCode}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDecorators(tt.a, tt.b); got != tt.want {
				t.Fatalf("SameDecorators() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkAndPlainText(t *testing.T) {
	doc := []Block{
		{Type: TypeParagraph, ID: "p1", Value: ChildrenValue([]Block{
			{Type: TypeFragment, ID: "f1", Value: TextValue("Hello ")},
			{Type: TypeLink, ID: "l1", Value: ChildrenValue([]Block{
				{Type: TypeFragment, ID: "f2", Value: TextValue("world")},
			})},
		})},
		{Type: TypeDivider, ID: "d1"},
	}

	if got := PlainText(doc); got != "Hello world" {
		t.Fatalf("PlainText() = %q", got)
	}

	var visited []string
	err := Walk(doc, func(b *Block, depth int) error {
		visited = append(visited, b.ID)
		if b.Type == TypeLink {
			return SkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if strings.Join(visited, ",") != "p1,f1,l1,d1" {
		t.Fatalf("unexpected visit order %v", visited)
	}
}

func TestDump(t *testing.T) {
	doc := []Block{{Type: TypeList, ID: "l", Properties: &Properties{ListType: ListOrdered}, Value: ChildrenValue([]Block{
		{Type: TypeListItem, ID: "i", Value: ChildrenValue([]Block{{Type: TypeFragment, ID: "f", Value: TextValue("a")}})},
	})}}

	out := Dump(doc)
	for _, want := range []string{"Document: 1 blocks", "list id=\"l\" listType=ordered", "Text: \"a\""} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}
