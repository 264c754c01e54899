package specparse

import (
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
)

// tomlBusDef mirrors RawBusDef with messages as a plain table. File order
// is recovered from the decode metadata.
type tomlBusDef struct {
	Name     string                   `toml:"name"`
	Baudrate uint32                   `toml:"baudrate"`
	Extended bool                     `toml:"extended"`
	Messages map[string]RawMessageDef `toml:"messages"`
}

// ParseBusTOML parses a bus definition from TOML bytes.
func ParseBusTOML(data []byte) (*RawBusDef, error) {
	var raw tomlBusDef
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing bus def: %w", err)
	}

	def := RawBusDef{Name: raw.Name, Baudrate: raw.Baudrate, Extended: raw.Extended}
	for _, name := range messageOrder(meta.Keys(), raw.Messages) {
		def.Messages = append(def.Messages, RawMessageEntry{Name: name, Def: raw.Messages[name]})
	}

	if err := def.validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// messageOrder returns every message name in the order its first key
// appears. A message reached only through sub-tables or dotted keys is
// placed by that key. Names with no key at all come last, sorted.
func messageOrder(keys []toml.Key, messages map[string]RawMessageDef) []string {
	order := make([]string, 0, len(messages))
	seen := make(map[string]bool, len(messages))
	for _, key := range keys {
		if len(key) < 2 || key[0] != "messages" || seen[key[1]] {
			continue
		}
		if _, ok := messages[key[1]]; !ok {
			continue
		}
		seen[key[1]] = true
		order = append(order, key[1])
	}

	for _, name := range slices.Sorted(maps.Keys(messages)) {
		if !seen[name] {
			order = append(order, name)
		}
	}
	return order
}
