// Package specparse loads bus specification files. YAML and TOML files
// share one set of Raw* definition types; Build turns a definition into a
// spec.Bus.
package specparse

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parsecan/parsecan-go/pkg/spec"
)

// Loader errors.
var (
	ErrMissingName       = errors.New("bus definition missing name")
	ErrUnknownFormat     = errors.New("unknown specification format")
	ErrInvalidEndianness = errors.New("invalid endianness")
)

// RawBusDef represents a bus definition loaded from a specification file.
type RawBusDef struct {
	Name     string      `yaml:"name" toml:"name"`
	Baudrate uint32      `yaml:"baudrate" toml:"baudrate"`
	Extended bool        `yaml:"extended" toml:"extended"`
	Messages RawMessages `yaml:"messages" toml:"-"`
}

// RawMessages is the name -> definition mapping of a bus file, in file
// order.
type RawMessages []RawMessageEntry

// RawMessageEntry is one named message definition.
type RawMessageEntry struct {
	Name string
	Def  RawMessageDef
}

// RawMessageDef represents a message definition.
type RawMessageDef struct {
	ID          uint32         `yaml:"id" toml:"id"`
	Length      int            `yaml:"length" toml:"length"`
	Description string         `yaml:"description" toml:"description"`
	Signals     []RawSignalDef `yaml:"signals" toml:"signals"`
}

// RawSignalDef represents a signal definition.
type RawSignalDef struct {
	Name        string         `yaml:"name" toml:"name"`
	Start       int            `yaml:"start" toml:"start"`
	Length      int            `yaml:"length" toml:"length"`
	Endianness  string         `yaml:"endianness" toml:"endianness"` // "little" (default) or "big"
	Signed      bool           `yaml:"signed" toml:"signed"`
	Scale       float64        `yaml:"scale" toml:"scale"`
	Offset      float64        `yaml:"offset" toml:"offset"`
	Unit        string         `yaml:"unit" toml:"unit"`
	Description string         `yaml:"description" toml:"description"`
	Enums       []RawEnumValue `yaml:"enums" toml:"enums"`
}

// RawEnumValue represents a single enumeration value of a signal.
type RawEnumValue struct {
	Name        string `yaml:"name" toml:"name"`
	Value       int64  `yaml:"value" toml:"value"`
	Description string `yaml:"description" toml:"description"`
}

// Lookup returns the definition of the named message.
func (m RawMessages) Lookup(name string) (RawMessageDef, bool) {
	for _, e := range m {
		if e.Name == name {
			return e.Def, true
		}
	}
	return RawMessageDef{}, false
}

// Names returns the message names in file order.
func (m RawMessages) Names() []string {
	names := make([]string, len(m))
	for i, e := range m {
		names[i] = e.Name
	}
	return names
}

// LoadBus loads a bus definition, choosing the format by file extension:
// .yaml and .yml for YAML, .toml for TOML.
func LoadBus(path string) (*RawBusDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseBusYAML(data)
	case ".toml":
		return ParseBusTOML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadSpec loads a bus definition and builds it.
func LoadSpec(path string) (*spec.Bus, error) {
	def, err := LoadBus(path)
	if err != nil {
		return nil, err
	}
	return def.Build()
}

func (d *RawBusDef) validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	return nil
}

// Build converts the definition into a spec.Bus. Every message is built from
// its fields, so a failure names the offending message.
func (d *RawBusDef) Build() (*spec.Bus, error) {
	src := make(spec.FromMapping, 0, len(d.Messages))
	for _, e := range d.Messages {
		fields, err := e.Def.Fields()
		if err != nil {
			return nil, &spec.ConstructionError{Bus: d.Name, Message: e.Name, Err: err}
		}
		src = append(src, spec.MappingEntry{Name: e.Name, Fields: &fields})
	}
	return spec.NewBus(d.Name, d.Baudrate, d.Extended, src)
}

// Fields converts the definition into message constructor fields.
func (d RawMessageDef) Fields() (spec.MessageFields, error) {
	f := spec.MessageFields{
		ID:          d.ID,
		Length:      d.Length,
		Description: d.Description,
		Signals:     make([]spec.SignalFields, 0, len(d.Signals)),
	}
	for _, s := range d.Signals {
		sf, err := s.Fields()
		if err != nil {
			return spec.MessageFields{}, fmt.Errorf("in signal %s: %w", s.Name, err)
		}
		f.Signals = append(f.Signals, sf)
	}
	return f, nil
}

// Fields converts the definition into signal constructor fields.
func (d RawSignalDef) Fields() (spec.SignalFields, error) {
	little, err := parseEndianness(d.Endianness)
	if err != nil {
		return spec.SignalFields{}, err
	}

	f := spec.SignalFields{
		Name:         d.Name,
		Start:        d.Start,
		Length:       d.Length,
		LittleEndian: little,
		Signed:       d.Signed,
		Scale:        d.Scale,
		Offset:       d.Offset,
		Unit:         d.Unit,
		Description:  d.Description,
	}
	for _, e := range d.Enums {
		f.Enumerations = append(f.Enumerations, spec.EnumerationFields{Name: e.Name, Value: e.Value})
	}
	return f, nil
}

func parseEndianness(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "little", "intel":
		return true, nil
	case "big", "motorola":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidEndianness, s)
	}
}
