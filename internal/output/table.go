package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table is a titled grid of cells. Data is what JSON and TOON encode.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string
	Data    any
}

// NewTable creates a table over rows that serializes as data.
func NewTable(title string, headers []string, rows [][]string, footer []string, data any) *Table {
	return &Table{Title: title, Headers: headers, Rows: rows, Footer: footer, Data: data}
}

func (t *Table) RenderData() any { return t.Data }

var (
	leftAligned = tw.CellAlignment{Global: tw.AlignLeft}

	textTableConfig = tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  leftAligned,
			Formatting: tw.CellFormatting{AutoFormat: tw.On},
		},
		Row:    tw.CellConfig{Alignment: leftAligned},
		Footer: tw.CellConfig{Alignment: leftAligned},
	}

	// Column gaps only, no rules or borders.
	textTableRendition = tw.Rendition{
		Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
		Settings: tw.Settings{
			Separators: tw.Separators{BetweenColumns: tw.Off},
		},
	}
)

func (t *Table) RenderText(w io.Writer, colored bool) error {
	heading(w, t.Title, '=', colored, color.New(color.Bold))

	grid := tablewriter.NewTable(w,
		tablewriter.WithConfig(textTableConfig),
		tablewriter.WithRendition(textTableRendition),
	)
	grid.Header(t.Headers)
	if err := grid.Bulk(t.Rows); err != nil {
		return err
	}
	if len(t.Footer) > 0 {
		cells := make([]any, 0, len(t.Footer))
		for _, c := range t.Footer {
			cells = append(cells, c)
		}
		grid.Footer(cells...)
	}
	if err := grid.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (t *Table) RenderMarkdown(w io.Writer) error {
	var b strings.Builder
	if t.Title != "" {
		fmt.Fprintf(&b, "## %s\n\n", t.Title)
	}
	writeMarkdownRow(&b, t.Headers)
	rule := make([]string, len(t.Headers))
	for i := range rule {
		rule[i] = "---"
	}
	writeMarkdownRow(&b, rule)
	for _, row := range t.Rows {
		writeMarkdownRow(&b, row)
	}
	if len(t.Footer) > 0 {
		writeMarkdownRow(&b, t.Footer)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// writeMarkdownRow escapes pipes so free text such as rejection messages
// cannot split a cell.
func writeMarkdownRow(b *strings.Builder, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(escaped, " | "))
}

// heading prints a title underlined with rule. Empty titles print nothing.
func heading(w io.Writer, title string, rule rune, colored bool, c *color.Color) {
	if title == "" {
		return
	}
	if colored {
		c.Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat(string(rule), len([]rune(title))))
	fmt.Fprintln(w)
}
