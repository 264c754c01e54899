package specparse

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseBusYAML parses a bus definition from YAML bytes.
func ParseBusYAML(data []byte) (*RawBusDef, error) {
	var def RawBusDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing bus def: %w", err)
	}
	if err := def.validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// UnmarshalYAML decodes the messages mapping keeping file order.
func (m *RawMessages) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: messages must be a mapping of name to definition", value.Line)
	}

	entries := make(RawMessages, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, defNode := value.Content[i], value.Content[i+1]

		var def RawMessageDef
		if err := defNode.Decode(&def); err != nil {
			return fmt.Errorf("message %s: %w", keyNode.Value, err)
		}
		entries = append(entries, RawMessageEntry{Name: keyNode.Value, Def: def})
	}
	*m = entries
	return nil
}
