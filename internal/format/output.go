package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabular values render as a table in text format.
type Tabular interface {
	Table() (header []string, rows [][]string)
}

// Write writes v as json (default), edn or text.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteText writes Tabular values as a borderless table, Stringers as their string and
// anything else as indented JSON.
func WriteText(w io.Writer, v any) error {
	switch t := v.(type) {
	case Tabular:
		header, rows := t.Table()
		tbl := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderHeader(false).
			Headers(header...).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				s := lipgloss.NewStyle().PaddingRight(1)
				if row == table.HeaderRow {
					return s.Bold(true)
				}
				return s
			})
		_, err := fmt.Fprintln(w, strings.TrimRight(tbl.Render(), "\n"))
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, t.String())
		return err
	case string:
		_, err := fmt.Fprintln(w, t)
		return err
	default:
		return WriteJSON(w, v, true)
	}
}
