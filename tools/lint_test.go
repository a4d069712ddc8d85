package tools_test

import (
	"strings"
	"testing"

	"github.com/multixspace/msa/tools"
)

func hasCode(issues []*tools.LintIssue, code string) bool {
	for _, i := range issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

func TestLint_UndefinedLabel(t *testing.T) {
	src := ": 0\nmissing\n_\n"
	l := tools.NewLinter(nil)
	issues := l.Lint(src, "test.msa")
	if !hasCode(issues, "UNDEF_LABEL") {
		t.Errorf("expected UNDEF_LABEL, got %+v", issues)
	}
}

func TestLint_DuplicateLabel(t *testing.T) {
	src := strings.Join([]string{
		": 0",
		"loop :",
		"_",
		"loop :",
		"_",
	}, "\n")
	l := tools.NewLinter(nil)
	issues := l.Lint(src, "test.msa")
	if !hasCode(issues, "DUPLICATE_LABEL") {
		t.Errorf("expected DUPLICATE_LABEL, got %+v", issues)
	}
}

func TestLint_UnusedLabel(t *testing.T) {
	src := strings.Join([]string{
		": 0",
		"unused :",
		"_",
	}, "\n")
	l := tools.NewLinter(nil)
	issues := l.Lint(src, "test.msa")
	if !hasCode(issues, "UNUSED_LABEL") {
		t.Errorf("expected UNUSED_LABEL, got %+v", issues)
	}
}

func TestLint_UnreachableAfterHalt(t *testing.T) {
	src := strings.Join([]string{
		": 0",
		"_",
		"x1 5",
	}, "\n")
	l := tools.NewLinter(nil)
	issues := l.Lint(src, "test.msa")
	if !hasCode(issues, "UNREACHABLE_CODE") {
		t.Errorf("expected UNREACHABLE_CODE, got %+v", issues)
	}
}

func TestLint_NoFalsePositiveOnCleanProgram(t *testing.T) {
	src := strings.Join([]string{
		": 0",
		"x1 1",
		"loop :",
		"x1 x1 + 1",
		"_",
	}, "\n")
	l := tools.NewLinter(nil)
	issues := l.Lint(src, "test.msa")
	if hasCode(issues, "UNDEF_LABEL") || hasCode(issues, "DUPLICATE_LABEL") {
		t.Errorf("unexpected issues on clean program: %+v", issues)
	}
}

func TestLint_SuggestionForTypo(t *testing.T) {
	src := strings.Join([]string{
		": 0",
		"loop :",
		"x1 1",
		"looop",
		"_",
	}, "\n")
	l := tools.NewLinter(nil)
	issues := l.Lint(src, "test.msa")
	found := false
	for _, i := range issues {
		if i.Code == "UNDEF_LABEL" && strings.Contains(i.Message, `did you mean "loop"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected typo suggestion, got %+v", issues)
	}
}

func TestLint_IssuesSortedByLine(t *testing.T) {
	src := strings.Join([]string{
		": 0",
		"loop :",
		"missing1",
		"missing2",
		"_",
	}, "\n")
	l := tools.NewLinter(nil)
	issues := l.Lint(src, "test.msa")
	for i := 1; i < len(issues); i++ {
		if issues[i].Line < issues[i-1].Line {
			t.Error("issues not sorted by line number")
		}
	}
}
