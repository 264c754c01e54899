package main

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/parsecan/parsecan-go/pkg/spec"
	"github.com/parsecan/parsecan-go/pkg/specparse"
)

var funcMap = template.FuncMap{
	"goName": specparse.GoName,
	"hexID": func(id uint32, extended bool) string {
		if extended {
			return fmt.Sprintf("0x%08X", id)
		}
		return fmt.Sprintf("0x%03X", id)
	},
	"quote":   func(s string) string { return fmt.Sprintf("%q", s) },
	"comment": comment,
}

// comment renders text as an indented line comment, one "//" per line.
func comment(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			lines[i] = "\t//"
			continue
		}
		lines[i] = "\t// " + line
	}
	return strings.Join(lines, "\n")
}

var templates = template.Must(template.New("").Funcs(funcMap).Parse(fileTmpl))

type busData struct {
	Package  string
	Source   string
	Name     string
	Baudrate uint32
	Extended bool
	Messages []messageData
}

type messageData struct {
	Name        string
	ID          uint32
	Length      int
	Description string
	Signals     []signalData
}

type signalData struct {
	Name  string
	Unit  string
	Enums []enumData
}

type enumData struct {
	Name  string
	Value int64
}

// Generate renders the constants file for bus.
func Generate(bus *spec.Bus, pkg, source string) (string, error) {
	data := busData{
		Package:  pkg,
		Source:   source,
		Name:     bus.Name(),
		Baudrate: bus.Baudrate(),
		Extended: bus.Extended(),
	}
	for m := range bus.All() {
		md := messageData{Name: m.Name(), ID: m.ID(), Length: m.Length(), Description: m.Description()}
		for s := range m.Signals() {
			sd := signalData{Name: s.Name(), Unit: s.Unit()}
			for e := range s.Enumerations() {
				sd.Enums = append(sd.Enums, enumData{Name: e.Name(), Value: e.Value()})
			}
			md.Signals = append(md.Signals, sd)
		}
		data.Messages = append(data.Messages, md)
	}

	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, "file", data); err != nil {
		return "", fmt.Errorf("template file: %w", err)
	}
	return b.String(), nil
}

const fileTmpl = `{{define "file"}}// Code generated by canspec-gen from {{.Source}}. DO NOT EDIT.

// Package {{.Package}} holds the identifiers of bus {{.Name}}.
package {{.Package}}

// Bus properties.
const (
	BusName = {{quote .Name}}
	Baudrate uint32 = {{.Baudrate}}
	Extended = {{.Extended}}
)
{{- $ext := .Extended}}
{{- if .Messages}}

// Message IDs.
const (
{{- range .Messages}}
{{- if .Description}}
{{comment (printf "%sID: %s" (goName .Name) .Description)}}
{{- end}}
	{{goName .Name}}ID uint32 = {{hexID .ID $ext}}
{{- end}}
)

// Message names.
const (
{{- range .Messages}}
	{{goName .Name}}Name = {{quote .Name}}
{{- end}}
)
{{- end}}
{{- range $m := .Messages}}
{{- if .Signals}}

// Signals of {{$m.Name}}.
const (
{{- range .Signals}}
	{{goName $m.Name}}{{goName .Name}}Signal = {{quote .Name}}
{{- end}}
)
{{- end}}
{{- range $s := .Signals}}
{{- if .Enums}}

// Values of {{$m.Name}}.{{$s.Name}}.
const (
{{- range .Enums}}
	{{goName $m.Name}}{{goName $s.Name}}{{goName .Name}} int64 = {{.Value}}
{{- end}}
)
{{- end}}
{{- end}}
{{- end}}
{{end}}`
