// ABOUTME: Ordered product specification mapping
// ABOUTME: Keeps catalog key order through JSON and YAML decoding
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Spec is one specification entry. A value is either a single string or a
// list of strings.
type Spec struct {
	Key    string
	Values []string
	IsList bool
}

// Specs is a spec mapping in catalog order
type Specs []Spec

// UnmarshalJSON decodes an object keeping key order
func (s *Specs) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("specs must be an object")
	}

	var out Specs
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		spec := Spec{Key: key}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			spec.Values = []string{single}
		} else {
			var list []string
			if err := json.Unmarshal(raw, &list); err != nil {
				return fmt.Errorf("spec %q must be a string or list of strings", key)
			}
			spec.Values = list
			spec.IsList = true
		}
		out = append(out, spec)
	}

	*s = out
	return nil
}

// UnmarshalYAML decodes a mapping node keeping key order
func (s *Specs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("specs must be a mapping (line %d)", node.Line)
	}

	var out Specs
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		spec := Spec{Key: key}
		switch value.Kind {
		case yaml.ScalarNode:
			spec.Values = []string{value.Value}
		case yaml.SequenceNode:
			if err := value.Decode(&spec.Values); err != nil {
				return fmt.Errorf("spec %q: %w", key, err)
			}
			spec.IsList = true
		default:
			return fmt.Errorf("spec %q must be a string or list of strings", key)
		}
		out = append(out, spec)
	}

	*s = out
	return nil
}

// MarshalJSON writes the mapping in catalog order without HTML escaping,
// matching how a browser serializes the same object
func (s Specs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, spec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, spec.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')

		var value interface{} = spec.Values
		if !spec.IsList {
			single := ""
			if len(spec.Values) > 0 {
				single = spec.Values[0]
			}
			value = single
		} else if spec.Values == nil {
			value = []string{}
		}
		if err := writeJSON(&buf, value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v interface{}) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}
