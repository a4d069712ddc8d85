// Package tui is an interactive viewer over a single MULTIX source file: a
// source panel, the pass-2 emission trace, a hex dump of the assembled
// image, and the resolved symbol table. It recompiles on command rather
// than stepping anything — there is no VM to step.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/multixspace/msa/assembler"
	"github.com/multixspace/msa/output"
	"github.com/multixspace/msa/tools"
)

// TUI is the text user interface over one source file.
type TUI struct {
	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	SourceView   *tview.TextView
	TraceView    *tview.TextView
	HexView      *tview.TextView
	SymbolsView  *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField

	Path   string
	Source string

	compiler *assembler.Compiler
	image    []byte
	lastErr  error
}

// New creates a TUI over the source file at path.
func New(path string) (*TUI, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied CLI argument
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	t := &TUI{
		App:      tview.NewApplication(),
		Path:     path,
		Source:   string(data),
		compiler: assembler.New(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t, nil
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.TraceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.TraceView.SetBorder(true).SetTitle(" Trace ")

	t.HexView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.HexView.SetBorder(true).SetTitle(" Hex Dump ")

	t.SymbolsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.SymbolsView.SetBorder(true).SetTitle(" Symbols ")

	t.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.SourceView, 0, 3, false).
		AddItem(t.TraceView, 0, 2, false)

	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.SymbolsView, 0, 1, false).
		AddItem(t.HexView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 6, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().
		AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("compile")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key == tcell.KeyEnter {
		cmd := t.CommandInput.GetText()
		if cmd != "" {
			t.executeCommand(cmd)
			t.CommandInput.SetText("")
		}
	}
}

// executeCommand runs one interactive command. Supported commands:
// compile, lint, xref, format, reload, help, quit.
func (t *TUI) executeCommand(cmd string) {
	switch strings.TrimSpace(cmd) {
	case "compile":
		t.compile()
	case "lint":
		t.lint()
	case "xref":
		t.xref()
	case "format":
		t.format()
	case "reload":
		t.reload()
	case "help":
		t.WriteOutput("[yellow]commands:[white] compile, lint, xref, format, reload, quit\n" +
			"F5 compile, F1 help, Ctrl+C quit, Ctrl+L refresh\n")
	case "quit", "q":
		t.App.Stop()
	default:
		t.WriteOutput(fmt.Sprintf("[red]unknown command:[white] %s\n", cmd))
	}
	t.RefreshAll()
}

func (t *TUI) compile() {
	image, err := t.compiler.CompileNamed(t.Source, t.Path)
	t.lastErr = err
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]compile error:[white] %v\n", err))
		t.image = nil
		return
	}
	t.image = image
	t.WriteOutput(fmt.Sprintf("[green]compiled[white] %d bytes\n", len(image)))
}

func (t *TUI) lint() {
	issues := tools.NewLinter(tools.DefaultLintOptions()).Lint(t.Source, t.Path)
	if len(issues) == 0 {
		t.WriteOutput("[green]no lint issues[white]\n")
		return
	}
	for _, issue := range issues {
		t.WriteOutput(issue.String() + "\n")
	}
}

func (t *TUI) xref() {
	report, err := tools.GenerateXRef(t.Source, t.Path)
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]xref error:[white] %v\n", err))
		return
	}
	t.WriteOutput(report)
}

func (t *TUI) format() {
	formatted, err := tools.FormatString(t.Source, t.Path)
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]format error:[white] %v\n", err))
		return
	}
	t.Source = formatted
	t.WriteOutput("[green]reformatted in place[white] (not written to disk; use reload to discard)\n")
}

func (t *TUI) reload() {
	data, err := os.ReadFile(t.Path) // #nosec G304 -- path fixed at TUI construction
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]reload error:[white] %v\n", err))
		return
	}
	t.Source = string(data)
	t.WriteOutput("[green]reloaded[white] " + t.Path + "\n")
}

// WriteOutput appends text to the output view and scrolls to the end.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text)) // Ignore write errors in TUI
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current state.
func (t *TUI) RefreshAll() {
	t.updateSourceView()
	t.updateTraceView()
	t.updateHexView()
	t.updateSymbolsView()
	t.App.Draw()
}

func (t *TUI) updateSourceView() {
	t.SourceView.SetText(tview.Escape(t.Source))
}

func (t *TUI) updateTraceView() {
	if t.lastErr != nil || t.compiler.Trace() == nil {
		t.TraceView.SetText("[yellow]no trace (compile first)[white]")
		return
	}
	t.TraceView.SetText(strings.Join(t.compiler.Trace(), "\n"))
}

func (t *TUI) updateHexView() {
	if len(t.image) == 0 {
		t.HexView.SetText("[yellow]no image (compile first)[white]")
		return
	}
	t.HexView.SetText(output.HexDump(t.image, 16))
}

func (t *TUI) updateSymbolsView() {
	syms := t.compiler.Symbols()
	if syms == nil {
		t.SymbolsView.SetText("[yellow]no symbols (compile first)[white]")
		return
	}
	var lines []string
	for name, addr := range syms.Labels() {
		lines = append(lines, fmt.Sprintf("%-20s 0x%08X", name, addr))
	}
	t.SymbolsView.SetText(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop, compiling once up front.
func (t *TUI) Run() error {
	t.compile()
	t.RefreshAll()

	t.WriteOutput("[green]MULTIX Source Viewer[white]\n")
	t.WriteOutput("Press F1 for help, F5 to recompile\n\n")

	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop stops the TUI application.
func (t *TUI) Stop() {
	t.App.Stop()
}
