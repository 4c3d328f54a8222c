// Package output renders command results as a table for people or as JSON
// or YAML for scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json or yaml. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or yaml)", s)
	}
}

// TableFunc writes tab-separated rows; columns are aligned afterwards.
type TableFunc func(w io.Writer)

// Render writes v to w in format. table is used for FormatTable.
func Render(w io.Writer, format Format, v any, table TableFunc) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

// Dash substitutes "-" for empty table cells.
func Dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func Success(w io.Writer, format string, a ...any) {
	pterm.Success.WithWriter(w).Printfln(format, a...)
}

func Info(w io.Writer, format string, a ...any) {
	pterm.Info.WithWriter(w).Printfln(format, a...)
}

func Warning(w io.Writer, format string, a ...any) {
	pterm.Warning.WithWriter(w).Printfln(format, a...)
}

func Section(w io.Writer, title string) {
	pterm.DefaultSection.WithWriter(w).Println(title)
}
