package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type jsonBlock struct {
	Type       Type            `json:"type"`
	ID         string          `json:"id"`
	Properties *Properties     `json:"properties,omitempty"`
	Value      json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON renders block with value as either string or array.
func (b Block) MarshalJSON() ([]byte, error) {
	out := jsonBlock{Type: b.Type, ID: b.ID, Properties: b.Properties}
	switch b.Value.kind {
	case ValueText:
		data, err := json.Marshal(b.Value.text)
		if err != nil {
			return nil, err
		}
		out.Value = data
	case ValueChildren:
		children := b.Value.children
		if children == nil {
			children = []Block{}
		}
		data, err := json.Marshal(children)
		if err != nil {
			return nil, err
		}
		out.Value = data
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts shape produced by MarshalJSON.
func (b *Block) UnmarshalJSON(data []byte) error {
	var in jsonBlock
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return fmt.Errorf("unknown block type %q", in.Type)
	}
	*b = Block{Type: in.Type, ID: in.ID, Properties: in.Properties}

	raw := bytes.TrimSpace(in.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return fmt.Errorf("block %q value: %w", in.ID, err)
		}
		b.Value = TextValue(text)
	case '[':
		var children []Block
		if err := json.Unmarshal(raw, &children); err != nil {
			return fmt.Errorf("block %q value: %w", in.ID, err)
		}
		b.Value = ChildrenValue(children)
	default:
		return fmt.Errorf("block %q: value must be string or array", in.ID)
	}
	return nil
}
