package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Part is one block of a Document.
type Part interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
}

// Section is a titled list of lines, shown as a bullet list in markdown.
type Section struct {
	Title string
	Lines []string
}

func (s *Section) RenderText(w io.Writer, colored bool) error {
	heading(w, s.Title, '-', colored, color.New(color.Bold))
	for _, line := range s.Lines {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (s *Section) RenderMarkdown(w io.Writer) error {
	if s.Title != "" {
		fmt.Fprintf(w, "## %s\n\n", s.Title)
	}
	for _, line := range s.Lines {
		if _, err := fmt.Fprintf(w, "- %s\n", line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// Document is a titled sequence of tables and sections.
type Document struct {
	Title string
	Parts []Part
}

func (d *Document) RenderText(w io.Writer, colored bool) error {
	heading(w, d.Title, '=', colored, color.New(color.Bold, color.FgCyan))
	for _, p := range d.Parts {
		if err := p.RenderText(w, colored); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) RenderMarkdown(w io.Writer) error {
	if d.Title != "" {
		fmt.Fprintf(w, "# %s\n\n", d.Title)
	}
	for _, p := range d.Parts {
		if err := p.RenderMarkdown(w); err != nil {
			return err
		}
	}
	return nil
}
