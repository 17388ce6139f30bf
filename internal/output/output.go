// Package output renders growth results as text, markdown, JSON or TOON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

func (f Format) String() string { return string(f) }

// ParseFormat converts a string to Format. Unknown names mean text.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTOON, FormatMarkdown:
		return f
	case "md":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Renderable is a value that knows its text and markdown layout and which
// data stands for it in JSON and TOON.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	RenderData() any
}

// Formatter writes Renderables in one format to stdout, a file or any writer.
type Formatter struct {
	format  Format
	out     io.Writer
	closer  io.Closer
	colored bool
}

// NewFormatter writes to path, or to stdout when path is empty. Files never
// get color codes.
func NewFormatter(format Format, path string, colored bool) (*Formatter, error) {
	if path == "" {
		return NewWriterFormatter(format, os.Stdout, colored), nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Formatter{format: format, out: file, closer: file}, nil
}

// NewWriterFormatter writes to w, which the formatter does not close.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, out: w, colored: colored}
}

// Close closes the output file, if the formatter opened one.
func (f *Formatter) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func (f *Formatter) Writer() io.Writer { return f.out }

func (f *Formatter) Format() Format { return f.format }

func (f *Formatter) Colored() bool { return f.colored }

// Output renders r in the formatter's format.
func (f *Formatter) Output(r Renderable) error {
	switch f.format {
	case FormatJSON:
		enc := json.NewEncoder(f.out)
		enc.SetIndent("", "  ")
		return enc.Encode(r.RenderData())
	case FormatTOON:
		s, err := MarshalTOON(r.RenderData())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.out, s)
		return err
	case FormatMarkdown:
		return r.RenderMarkdown(f.out)
	default:
		return r.RenderText(f.out, f.colored)
	}
}

// MarshalTOON encodes data as TOON with two-space indentation.
func MarshalTOON(data any) (string, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", fmt.Errorf("failed to encode toon: %w", err)
	}
	return string(out), nil
}

// Success prints a confirmation line, green when colored.
func (f *Formatter) Success(format string, args ...any) {
	f.notice(color.FgGreen, "", format, args...)
}

// Warning prints a warning line, yellow when colored and prefixed otherwise.
func (f *Formatter) Warning(format string, args ...any) {
	f.notice(color.FgYellow, "WARNING: ", format, args...)
}

func (f *Formatter) notice(attr color.Attribute, plainPrefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if f.colored {
		color.New(attr).Fprintln(f.out, msg)
		return
	}
	fmt.Fprintln(f.out, plainPrefix+msg)
}

// StatusColor colors text by growth status code: alert bands red,
// caution bands yellow, normal green.
func StatusColor(status, text string) string {
	switch strings.ToLower(status) {
	case "very_low", "very_high":
		return color.RedString(text)
	case "low", "high":
		return color.YellowString(text)
	case "normal":
		return color.GreenString(text)
	default:
		return text
	}
}
