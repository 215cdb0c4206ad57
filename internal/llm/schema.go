package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema a reply must satisfy. Name is kebab-case; the
// vendors use it as the tool or format name. Definition is compiled the
// first time a reply is checked.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// Check reports an *ErrInvalidResponse unless raw is JSON that satisfies
// s. A nil schema accepts anything.
func (s *Schema) Check(raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("reply is not JSON: %w", err)}
	}
	v, err := s.validator()
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := v.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}

func (s *Schema) validator() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		s.compiled, s.err = compileSchema(s.Name, s.Definition)
	})
	return s.compiled, s.err
}

func compileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("encode schema %q: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", name, err)
	}
	loc := "mem://schemas/" + name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("load schema %q: %w", name, err)
	}
	compiled, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	return compiled, nil
}
