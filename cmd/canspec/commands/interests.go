package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/parsecan/parsecan-go/pkg/spec"
)

// ParseInterests splits comma or space separated tokens into filter
// interests. Tokens that parse as integers (decimal, or hex with 0x) become
// message ids; everything else is a message name.
func ParseInterests(tokens ...string) []any {
	var interests []any
	for _, tok := range tokens {
		for _, part := range strings.FieldsFunc(tok, func(r rune) bool { return r == ',' || r == ' ' }) {
			if id, err := strconv.ParseUint(part, 0, 32); err == nil {
				interests = append(interests, uint32(id))
				continue
			}
			interests = append(interests, part)
		}
	}
	return interests
}

// buildView returns the whole bus, or a filtered view when interests are
// given.
func buildView(bus *spec.Bus, interests []any) (spec.View, error) {
	if len(interests) == 0 {
		return bus, nil
	}
	fb, err := spec.NewFilteredBus(bus, interests...)
	if err != nil {
		return nil, fmt.Errorf("applying filter: %w", err)
	}
	return fb, nil
}
