package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/parsecan/parsecan-go/pkg/spec"
	"github.com/parsecan/parsecan-go/pkg/specparse"
)

// RunList prints the messages, signals and enumerations of a bus spec.
func RunList(path string, only []string, w io.Writer) error {
	bus, err := specparse.LoadSpec(path)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}
	view, err := buildView(bus, ParseInterests(only...))
	if err != nil {
		return err
	}
	writeView(w, view)
	return nil
}

func writeView(w io.Writer, view spec.View) {
	mode := "standard"
	if view.Extended() {
		mode = "extended"
	}
	fmt.Fprintf(w, "bus %s (%d baud, %s ids)\n", view.Name(), view.Baudrate(), mode)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for m := range view.All() {
		fmt.Fprintf(tw, "  0x%03X\t%s\tlen %d\t%s\n", m.ID(), m.Name(), m.Length(), m.Description())
		for s := range m.Signals() {
			fmt.Fprintf(tw, "    \t%s\t%s\t%s\n", s.Name(), signalLayout(s), signalEnums(s))
		}
	}
	tw.Flush()
}

func signalLayout(s *spec.Signal) string {
	order := "le"
	if !s.LittleEndian() {
		order = "be"
	}
	sign := "u"
	if s.Signed() {
		sign = "s"
	}
	layout := fmt.Sprintf("%d|%d@%s%s", s.Start(), s.Length(), order, sign)
	if s.Scale() != 1 || s.Offset() != 0 {
		layout += fmt.Sprintf(" (%g,%g)", s.Scale(), s.Offset())
	}
	if s.Unit() != "" {
		layout += " " + s.Unit()
	}
	return layout
}

func signalEnums(s *spec.Signal) string {
	var parts []string
	for e := range s.Enumerations() {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " ")
}
