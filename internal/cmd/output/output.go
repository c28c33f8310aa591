// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/servicesync/pkg/errors"
)

// Format is an output format.
type Format string

const (
	// FormatTable renders a human readable table.
	FormatTable Format = "table"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// Table is data laid out in rows. Columns listed in RightAligned are
// right aligned, the rest are left aligned.
type Table struct {
	Headers      []string
	Rows         [][]string
	RightAligned []int
}

// Tabular is implemented by values that know how to lay themselves out as
// a table.
type Tabular interface {
	Table() Table
}

// ParseFormat validates s. An empty string is returned unchanged so that
// Detect can pick a format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatTable, FormatJSON, FormatYAML, "":
		return f, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: table, json, yaml")
	}
}

// Detect returns explicit when set. Otherwise terminals get a table and
// pipes get JSON.
func Detect(explicit Format) Format {
	if explicit != "" {
		return explicit
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// Write renders data to w in format f. Data that is not Tabular is written
// as JSON when a table is requested.
func Write(w io.Writer, f Format, data any) error {
	switch f {
	case FormatYAML:
		return writeYAML(w, data)
	case FormatTable:
		if t, ok := data.(Tabular); ok {
			return writeTable(w, t.Table())
		}
		return writeJSON(w, data)
	default:
		return writeJSON(w, data)
	}
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func writeYAML(w io.Writer, data any) error {
	b, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return errors.WrapParse("yaml", "", err)
	}
	_, err = w.Write(b)
	return err
}

func writeTable(w io.Writer, t Table) error {
	var cfg tablewriter.Config
	if len(t.Headers) > 0 {
		align := make([]tw.Align, len(t.Headers))
		for i := range align {
			align[i] = tw.AlignLeft
		}
		for _, i := range t.RightAligned {
			if i >= 0 && i < len(align) {
				align[i] = tw.AlignRight
			}
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: align}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	if len(t.Headers) > 0 {
		headers := make([]any, len(t.Headers))
		for i, h := range t.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}
	for _, row := range t.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return fmt.Errorf("table row: %w", err)
		}
	}
	return table.Render()
}

// Title turns an identifier such as "ytr_services" or "channels-new" into
// a column label ("Ytr Services").
func Title(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return cases.Title(language.English).String(s)
}
