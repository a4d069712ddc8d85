package tools

import (
	"strings"

	"github.com/multixspace/msa/assembler"
	"github.com/multixspace/msa/blocks"
	"github.com/multixspace/msa/lexer"
	"github.com/multixspace/msa/resolver"
)

// FormatStyle selects how aggressively whitespace is normalized.
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // canonical indent step, single space between tokens
	FormatCompact                     // canonical indent step, no blank lines
	FormatExpanded                    // canonical indent step, blank line before each label
)

// FormatOptions controls formatter behavior. Unlike a column-aligned
// assembly formatter, MULTIX's formatting surface is its indentation: every
// block nesting level is re-rendered at a fixed width regardless of what
// the source used, which is what lets two programs with different editors'
// tab settings compare equal.
type FormatOptions struct {
	Style      FormatStyle
	IndentSize int // spaces per block nesting level
}

// DefaultFormatOptions returns default formatter options.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:      FormatDefault,
		IndentSize: 4,
	}
}

// CompactFormatOptions drops blank lines entirely. Comments and blank lines
// never survive lexer.Prepare regardless of style, so this is equivalent to
// the default except for the blank line inserted by FormatExpanded.
func CompactFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatCompact
	return opts
}

// ExpandedFormatOptions inserts a blank line before every label to visually
// separate routines.
func ExpandedFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatExpanded
	opts.IndentSize = 8
	return opts
}

// Formatter re-indents MULTIX source to a canonical block depth, collapsing
// whatever mix of tabs/spaces the original used.
type Formatter struct {
	options *FormatOptions
}

// NewFormatter creates a Formatter.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format reformats input, re-deriving block depth the same way the
// assembler does so the result always reflects real nesting, not
// whatever the source's raw leading whitespace happened to be.
func (f *Formatter) Format(input, filename string) (string, error) {
	lines, lerr := lexer.Prepare(input, filename)
	if lerr != nil {
		return "", lerr
	}

	var out strings.Builder
	tracker := blocks.New()
	inCode := false

	for idx, line := range lines {
		tokens := strings.Fields(line.Text)

		tracker.CloseTo(line.Indent)
		depth := tracker.Depth()

		c, cerr := assembler.Classify(tokens, inCode, lexer.Position{Filename: filename, Line: line.LineNo})
		if cerr != nil {
			// Preserve the offending line verbatim; a linter, not a
			// formatter, is responsible for reporting the error.
			out.WriteString(line.Text)
			out.WriteString("\n")
			continue
		}

		if f.options.Style == FormatExpanded && idx > 0 &&
			(c.Kind == assembler.KindNamedLabel || c.Kind == assembler.KindEntryPoint) {
			out.WriteString("\n")
		}

		out.WriteString(strings.Repeat(" ", depth*f.options.IndentSize))
		out.WriteString(strings.Join(tokens, " "))
		out.WriteString("\n")

		switch c.Kind {
		case assembler.KindEntryPoint, assembler.KindNamedLabel:
			inCode = true
		case assembler.KindWhileOpener:
			tracker.Open(blocks.KindWhile, line.Indent)
		case assembler.KindIfOpener:
			tracker.Open(blocks.KindIf, line.Indent)
		case assembler.KindRangeOpener:
			step := int64(1)
			if len(tokens) >= 5 {
				step = resolver.Resolve(tokens[4], nil)
			}
			tracker.OpenRange(line.Indent, tokens[1], step)
		}
	}

	tracker.CloseAll()

	return out.String(), nil
}

// FormatString is a convenience function to format a string with default options.
func FormatString(input, filename string) (string, error) {
	formatter := NewFormatter(DefaultFormatOptions())
	return formatter.Format(input, filename)
}

// FormatStringWithStyle formats a string with the specified style.
func FormatStringWithStyle(input, filename string, style FormatStyle) (string, error) {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	formatter := NewFormatter(options)
	return formatter.Format(input, filename)
}
