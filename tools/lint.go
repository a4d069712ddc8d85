// Package tools implements advisory static analysis over MULTIX source:
// a linter, a symbol cross-reference report, and a source reformatter.
// None of these participate in compilation — they are read-only surfaces
// over the same Lexer and Block Tracker the assembler uses.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/multixspace/msa/assembler"
	"github.com/multixspace/msa/blocks"
	"github.com/multixspace/msa/encoder"
	"github.com/multixspace/msa/lexer"
)

// LintLevel is the severity of a lint finding.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
	LintInfo
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	case LintInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding at a source line.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", i.Line, i.Level, i.Message, i.Code)
}

// LintOptions controls which checks run.
type LintOptions struct {
	CheckUnused  bool
	CheckReach   bool
	SuggestFixes bool
}

// DefaultLintOptions returns the default set of enabled checks.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{CheckUnused: true, CheckReach: true, SuggestFixes: true}
}

// Linter runs advisory checks over MULTIX source without compiling it.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue

	definedLabels    map[string]int
	referencedLabels map[string][]int
}

// NewLinter creates a Linter.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{
		options:          options,
		definedLabels:    make(map[string]int),
		referencedLabels: make(map[string][]int),
	}
}

// Lint analyzes source and returns every finding, sorted by line.
func (l *Linter) Lint(source, filename string) []*LintIssue {
	lines, lerr := lexer.Prepare(source, filename)
	if lerr != nil {
		l.issues = append(l.issues, &LintIssue{Level: LintError, Line: lerr.Pos.Line, Message: lerr.Message, Code: "LEX_ERROR"})
		return l.issues
	}

	l.collectLabels(lines)
	l.checkReferences(lines)

	if l.options.CheckUnused {
		l.checkUnusedLabels()
	}
	if l.options.CheckReach {
		l.checkUnreachableCode(lines)
	}

	sort.Slice(l.issues, func(i, j int) bool { return l.issues[i].Line < l.issues[j].Line })
	return l.issues
}

// collectLabels records every named label (the entry point is not recorded)
// at its first definition, and warns on each later redefinition.
func (l *Linter) collectLabels(lines []lexer.Line) {
	for _, line := range lines {
		tokens := strings.Fields(line.Text)
		if len(tokens) == 2 && tokens[1] == ":" && tokens[0] != ":" {
			if _, exists := l.definedLabels[tokens[0]]; exists {
				l.issues = append(l.issues, &LintIssue{
					Level: LintWarning, Line: line.LineNo,
					Message: fmt.Sprintf("label %q defined more than once", tokens[0]),
					Code:    "DUPLICATE_LABEL",
				})
			} else {
				l.definedLabels[tokens[0]] = line.LineNo
			}
		}
	}
}

// checkReferences walks jump/call targets and flags ones with no matching
// definition.
func (l *Linter) checkReferences(lines []lexer.Line) {
	for _, line := range lines {
		tokens := strings.Fields(line.Text)
		switch {
		case len(tokens) == 1 && isIdentifier(tokens[0]):
			l.checkLabelReference(tokens[0], line.LineNo)
		case len(tokens) == 2 && isIdentifier(tokens[0]) && looksLikeBracket(tokens[1]):
			l.checkLabelReference(tokens[0], line.LineNo)
		}
	}
}

func (l *Linter) checkLabelReference(name string, line int) {
	l.referencedLabels[name] = append(l.referencedLabels[name], line)
	if _, exists := l.definedLabels[name]; !exists {
		msg := fmt.Sprintf("undefined label %q", name)
		if l.options.SuggestFixes {
			if s := l.findSimilarLabel(name); s != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", s)
			}
		}
		l.issues = append(l.issues, &LintIssue{Level: LintError, Line: line, Message: msg, Code: "UNDEF_LABEL"})
	}
}

func (l *Linter) checkUnusedLabels() {
	for name, line := range l.definedLabels {
		if _, used := l.referencedLabels[name]; !used {
			l.issues = append(l.issues, &LintIssue{
				Level: LintWarning, Line: line,
				Message: fmt.Sprintf("label %q defined but never referenced", name),
				Code:    "UNUSED_LABEL",
			})
		}
	}
}

// checkUnreachableCode flags a code line that immediately follows a halt,
// return, break, continue, or unconditional jump at the same block depth,
// with no intervening label to serve as a jump target.
func (l *Linter) checkUnreachableCode(lines []lexer.Line) {
	tracker := blocks.New()
	inCode := false
	terminal := false
	terminalDepth := 0

	for _, line := range lines {
		tokens := strings.Fields(line.Text)
		tracker.CloseTo(line.Indent)

		c, cerr := assembler.Classify(tokens, inCode, lexer.Position{Filename: "", Line: line.LineNo})
		if cerr != nil {
			continue
		}

		if terminal && tracker.Depth() == terminalDepth &&
			c.Kind != assembler.KindNamedLabel && c.Kind != assembler.KindEntryPoint {
			l.issues = append(l.issues, &LintIssue{
				Level: LintWarning, Line: line.LineNo,
				Message: "unreachable code", Code: "UNREACHABLE_CODE",
			})
			terminal = false
			continue
		}

		switch c.Kind {
		case assembler.KindEntryPoint, assembler.KindNamedLabel:
			inCode = true
			terminal = false
		case assembler.KindWhileOpener:
			tracker.Open(blocks.KindWhile, line.Indent)
			terminal = false
		case assembler.KindIfOpener:
			tracker.Open(blocks.KindIf, line.Indent)
			terminal = false
		case assembler.KindRangeOpener:
			tracker.OpenRange(line.Indent, "", 0)
			terminal = false
		case assembler.KindHalt, assembler.KindReturn, assembler.KindBreak, assembler.KindContinue, assembler.KindJumpLabel:
			terminal = true
			terminalDepth = tracker.Depth()
		default:
			terminal = false
		}
	}
}

func (l *Linter) findSimilarLabel(target string) string {
	target = strings.ToLower(target)
	best, bestDist := "", 999
	for name := range l.definedLabels {
		d := levenshteinDistance(strings.ToLower(name), target)
		if d < bestDist && d <= 3 {
			best, bestDist = name, d
		}
	}
	return best
}

func isIdentifier(tok string) bool {
	if tok == "" || tok == "_" || tok == "." || tok == ".." || encoder.IsRegister(tok) {
		return false
	}
	for _, c := range tok {
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return (tok[0] >= 'a' && tok[0] <= 'z') || (tok[0] >= 'A' && tok[0] <= 'Z') || tok[0] == '_'
}

func looksLikeBracket(tok string) bool {
	return strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]")
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}
	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}
	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = minInt(matrix[i-1][j]+1, matrix[i][j-1]+1, matrix[i-1][j-1]+cost)
		}
	}
	return matrix[len(s1)][len(s2)]
}

func minInt(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
