package vetra

import (
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes data into the any-tree shape compiled validators
// operate on: map[string]any, []any, float64, string, bool, nil.
func DecodeJSON(data []byte) (any, error) {
	var v any
	if err := gojson.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("vetra: decode json: %w", err)
	}
	return v, nil
}

// ParseJSON decodes a JSON document and validates it against d.
func ParseJSON(d *Descriptor, data []byte) (any, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return Compile(d)(v)
}

// ParseJSONReader decodes a JSON document from r and validates it against d.
func ParseJSONReader(d *Descriptor, r io.Reader) (any, error) {
	var v any
	if err := gojson.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("vetra: decode json: %w", err)
	}
	return Compile(d)(v)
}

// ParseJSONC decodes a JSONC document (JSON with comments and trailing
// commas) and validates it against d.
func ParseJSONC(d *Descriptor, data []byte) (any, error) {
	return ParseJSON(d, jsonc.ToJSON(data))
}

// ParseYAML decodes a YAML document and validates it against d. YAML
// integers arrive as Go ints, which the number and integer descriptors
// accept alongside JSON's float64.
func ParseYAML(d *Descriptor, data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("vetra: decode yaml: %w", err)
	}
	return Compile(d)(v)
}
