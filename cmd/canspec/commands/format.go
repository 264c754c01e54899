// Package commands implements the canspec CLI commands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/parsecan/parsecan-go/pkg/decode"
	"github.com/parsecan/parsecan-go/pkg/log"
	"github.com/parsecan/parsecan-go/pkg/spec"
)

// Format selects how decode results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a -format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCBOR:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q (valid: text, json, cbor)", s)
	}
}

// record is the machine-readable form of one decode result.
type record struct {
	Input    string       `json:"input" cbor:"1,keyasint"`
	Frame    string       `json:"frame,omitempty" cbor:"2,keyasint,omitempty"`
	Messages spec.Decoded `json:"messages,omitempty" cbor:"3,keyasint,omitempty"`
	Error    string       `json:"error,omitempty" cbor:"4,keyasint,omitempty"`
}

func newRecord(r decode.Result) record {
	rec := record{Input: r.Line, Messages: r.Decoded}
	if r.Frame != nil {
		rec.Frame = r.Frame.Compact()
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	return rec
}

// resultWriter writes decode results in one format.
type resultWriter struct {
	w      io.Writer
	format Format
	color  bool
	json   *json.Encoder
	cbor   interface{ Encode(any) error }
}

func newResultWriter(w io.Writer, format Format, color bool) *resultWriter {
	rw := &resultWriter{w: w, format: format, color: color}
	switch format {
	case FormatJSON:
		rw.json = json.NewEncoder(w)
	case FormatCBOR:
		rw.cbor = log.NewEncoder(w)
	}
	return rw
}

func (rw *resultWriter) write(r decode.Result) error {
	switch rw.format {
	case FormatJSON:
		return rw.json.Encode(newRecord(r))
	case FormatCBOR:
		return rw.cbor.Encode(newRecord(r))
	}

	if r.Err != nil {
		_, err := fmt.Fprintf(rw.w, "%s\n  error: %v\n", r.Line, r.Err)
		return err
	}

	header := r.Frame.String()
	if rw.color {
		header = r.Frame.ColorString()
	}
	fmt.Fprintln(rw.w, header)
	writeDecoded(rw.w, r.Decoded, "  ")
	return nil
}

// writeDecoded writes one indented block per message, signals aligned.
func writeDecoded(w io.Writer, decoded spec.Decoded, indent string) {
	if len(decoded) == 0 {
		fmt.Fprintf(w, "%s(no match)\n", indent)
		return
	}

	for _, name := range decoded.Names() {
		fmt.Fprintf(w, "%s%s\n", indent, name)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fields := decoded[name]
		for _, sig := range fields.Names() {
			fmt.Fprintf(tw, "%s  %s\t%s\n", indent, sig, fields[sig])
		}
		tw.Flush()
	}
}
