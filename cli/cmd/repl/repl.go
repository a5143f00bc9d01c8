package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/shapescript/geom"
	"github.com/ardnew/shapescript/lang"
	"github.com/ardnew/shapescript/log"
)

const (
	evalPrompt = "➜ "
	contPrompt = "… "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help              Print this message
  vars              List bound variables
  funcs             List declared functions
  builtins [query]  List built-in functions
  load <file>       Evaluate a script file
  edit              Edit the session transcript in $EDITOR
  reset             Discard all state
  clear             Clear screen
  quit              Exit

Usage:
  Type statements to evaluate them; a missing trailing ";" is added
  Unterminated blocks continue on the next line
  Press Tab / Shift-Tab to cycle through completions
  Use Up/Down for history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`

// inputMode selects how a submitted line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	outputStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config configures a REPL session.
type Config struct {
	// Inputs answer "input" declarations.
	Inputs map[string]lang.Value
	// Source, if non-nil, is evaluated before the first prompt.
	Source io.Reader
	// CacheDir holds the history file. Empty disables persistence.
	CacheDir string
	Logger   log.Logger
	Options  []lang.Option
}

// editDoneMsg carries the transcript accepted by the editor.
type editDoneMsg struct {
	source string
	ok     bool
}

type editDeclinedMsg struct{}

type editErrorMsg struct{ err error }

type model struct {
	ctx     context.Context
	cfg     Config
	input   textinput.Model
	session *lang.Session
	output  *bytes.Buffer
	history *History

	// transcript holds every eval-mode source that ran without error.
	transcript []string
	// pending holds lines of an unterminated statement.
	pending []string

	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	historyIdx   int
	width        int
	tabbing      bool
	preTabText   string
	preTabCursor int
	quitting     bool
	startup      tea.Cmd
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts an interactive session on the terminal and blocks until the
// user exits or ctx is canceled.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var path string
	if cfg.CacheDir != "" {
		path = filepath.Join(cfg.CacheDir, baseHistory)
	}

	hist := NewHistory(path)
	if err := hist.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "repl history", slog.Any("error", err))
	}

	m := newModel(ctx, cfg, hist)

	if cfg.Source != nil {
		src, err := io.ReadAll(cfg.Source)
		if err != nil {
			return err
		}

		var cmd tea.Cmd

		if m, cmd, err = m.evalSource(string(src), false); err != nil {
			return err
		}

		m.startup = cmd
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Int("history", hist.Len()),
		slog.Int("inputs", len(cfg.Inputs)),
	)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, hist *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.CharLimit = 4096
	ti.Width = defaultWidth
	ti.Focus()

	m := model{
		ctx:        ctx,
		cfg:        cfg,
		input:      ti,
		output:     new(bytes.Buffer),
		history:    hist,
		historyIdx: hist.Len(),
		width:      defaultWidth,
		suggIdx:    -1,
	}

	m.session = m.newSession()

	return m
}

func (m model) newSession() *lang.Session {
	opts := append(slices.Clone(m.cfg.Options),
		lang.WithOutput(m.output),
		lang.WithLogger(m.cfg.Logger),
	)

	return lang.NewSession(m.cfg.Inputs, opts...)
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startup)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		if !msg.ok {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		m.session = m.newSession()
		m.transcript = nil
		m.pending = nil

		var cmd tea.Cmd

		m, cmd, _ = m.evalSource(msg.source, false)

		return m, cmd

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(m.hintLine())
	b.WriteByte('\n')

	return b.String()
}

// hintLine is the status line drawn below the input.
func (m model) hintLine() string {
	text := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))
	}

	if strings.TrimSpace(text) == "" {
		switch {
		case m.mode == modeCtrl:
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (Esc to return)")
		case len(m.pending) > 0:
			return hintStyle.Render(fmt.Sprintf("%d pending line(s); Ctrl+C discards", len(m.pending)))
		default:
			return hintStyle.Render("Type a statement or press Esc for commands")
		}
	}

	if m.mode == modeEval && !m.tabbing {
		if c, ok := enclosingCall(text, m.input.Position()); ok {
			if hint := renderSignatureHint(m.session, c); hint != "" {
				return hint
			}
		}
	}

	return renderCandidateBar(m.matches, m.session, m.suggIdx, m.tabbing, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.pending = nil
		m.tabbing = false
		m.historyIdx = m.history.Len()
		m.setPrompt()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabbing && len(m.matches) > 0 {
			m.tabbing = false
			m.refresh(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1, false), nil

	case tea.KeyDown:
		return m.recall(1, false), nil

	case tea.KeyShiftUp:
		return m.recall(-1, true), nil

	case tea.KeyShiftDown:
		return m.recall(1, true), nil

	case tea.KeyEsc:
		if m.tabbing {
			m.tabbing = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refresh(false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchMode(modeCtrl), nil
		}

		return m.switchMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabbing && msg.Type == tea.KeySpace {
			m.tabbing = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refresh(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabbing = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(false)

	return m, cmd
}

// cycle moves the tab selection by step, starting a new cycle if needed.
// A sole candidate is accepted immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabbing = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if !m.tabbing {
		m.tabbing = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = -1

		if step < 0 {
			m.suggIdx = 0
		}
	}

	m.suggIdx = (m.suggIdx + step + n) % n
	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

func (m *model) replaceWord(s string) {
	text := m.input.Value()

	m.input.SetValue(text[:m.wordStart] + s + text[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refresh recomputes completions. With accept set, a word that already
// equals its only candidate is taken as complete.
func (m *model) refresh(accept bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabbing {
		m.suggIdx = -1
	}

	if accept && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

// recall steps through history. With sameMode set, entries from the other
// mode are skipped; otherwise the mode follows the recalled entry.
func (m model) recall(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		e, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && e.Mode != m.mode {
			continue
		}

		if e.Mode != m.mode {
			m = m.switchMode(e.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(e.Line)
		m.input.SetCursor(len(e.Line))
		m.refresh(false)

		return m
	}

	if step > 0 {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refresh(false)
	}

	return m
}

// switchMode swaps the input line for the one last edited in mode.
func (m model) switchMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode
	m.setPrompt()

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	m.refresh(false)

	return m
}

func (m *model) setPrompt() {
	switch {
	case m.mode == modeCtrl:
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	case len(m.pending) > 0:
		m.input.Prompt = promptStyle.Render(contPrompt)
	default:
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}
}

func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())

	m.input.SetValue("")
	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.matches = nil

	if line == "" && len(m.pending) == 0 {
		return m, nil
	}

	if err := m.history.Add(line, m.mode); err != nil {
		m.cfg.Logger.DebugContext(m.ctx, "repl history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		var cmd tea.Cmd

		echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(line))
		m, cmd = m.command(line)

		return m, tea.Sequence(echo, cmd)
	}

	prompt := evalPrompt
	if len(m.pending) > 0 {
		prompt = contPrompt
	}

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(line))

	src := strings.Join(append(slices.Clone(m.pending), line), "\n")
	m, cmd, _ := m.evalSource(src, true)
	m.setPrompt()

	return m, tea.Sequence(echo, cmd)
}

// evalSource runs src in the session and renders what it produced. When
// interactive is set, a statement missing only its terminator is
// completed, and an unterminated block is held as pending input.
func (m model) evalSource(src string, interactive bool) (model, tea.Cmd, error) {
	m.cfg.Logger.TraceContext(m.ctx, "repl eval", slog.Int("length", len(src)))

	v, res, err := m.session.Eval(m.ctx, src)

	if interactive && incomplete(err) {
		trimmed := strings.TrimSpace(src)
		if !strings.HasSuffix(trimmed, ";") && !strings.HasSuffix(trimmed, ":") {
			v2, res2, err2 := m.session.Eval(m.ctx, trimmed+";")
			if !incomplete(err2) {
				src, v, res, err = trimmed+";", v2, res2, err2
			}
		}
	}

	if interactive && incomplete(err) {
		m.pending = strings.Split(src, "\n")

		return m, m.flushOutput(), nil
	}

	m.pending = nil

	cmds := []tea.Cmd{m.flushOutput()}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))

		return m, tea.Sequence(cmds...), err
	}

	m.transcript = append(m.transcript, src)

	if v != nil {
		cmds = append(cmds, tea.Println(resultStyle.Render(v.String())))
	}

	if res != nil {
		cmds = append(cmds, tea.Println(resultStyle.Render(describeResult(res))))
	}

	return m, tea.Sequence(cmds...), nil
}

// flushOutput prints and clears whatever the session wrote with "print".
func (m model) flushOutput() tea.Cmd {
	if m.output.Len() == 0 {
		return nil
	}

	text := strings.TrimRight(m.output.String(), "\n")
	m.output.Reset()

	return tea.Println(outputStyle.Render(text))
}

// incomplete reports whether err is a parse failure at end of input, which
// more lines could resolve.
func incomplete(err error) bool {
	return errors.Is(err, lang.ErrParse) &&
		strings.Contains(err.Error(), lang.KindEOF.String())
}

func describeResult(res *lang.Result) string {
	if res.IsAdaptive() {
		var b strings.Builder

		fmt.Fprintf(&b, "exported adaptive (%d of %d slots)", res.Adaptive.Filled(), geom.SlotCount)

		for slot := range geom.Slots() {
			if part := res.Adaptive.Get(slot); part != nil {
				fmt.Fprintf(&b, "\n  %-13s %s", slot.Long(), part)
			}
		}

		fmt.Fprintf(&b, "\n  digest %s", res.Digest())

		return b.String()
	}

	return fmt.Sprintf("exported %s\n  digest %s", res.Shape, res.Digest())
}

func (m model) command(line string) (model, tea.Cmd) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	m.cfg.Logger.TraceContext(m.ctx, "repl command",
		slog.String("command", name),
		slog.Any("args", args),
	)

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "h", "help":
		return m, tea.Printf("%s", helpMessage)

	case "v", "vars":
		return m, tea.Println(listVars(m.session))

	case "f", "funcs":
		return m, tea.Println(listFunctions(m.session))

	case "b", "builtins":
		return m, tea.Println(listBuiltins(strings.Join(args, " ")))

	case "l", "load":
		if len(args) != 1 {
			return m, tea.Println(errorStyle.Render("usage: load <file>"))
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return m, tea.Println(errorStyle.Render("error: " + err.Error()))
		}

		m.mode = modeEval
		m.setPrompt()

		var cmd tea.Cmd

		m, cmd, _ = m.evalSource(string(data), false)

		return m, cmd

	case "e", "edit":
		return m, m.edit()

	case "r", "reset":
		m.session = m.newSession()
		m.transcript = nil
		m.pending = nil
		m.output.Reset()

		return m, tea.Println(hintStyle.Render("session reset"))

	case "c", "clear":
		return m, tea.ClearScreen
	}

	msg := fmt.Sprintf("%v: %s", ErrUnknownCmd, name)
	if found := fuzzy.Find(name, ctrlCommands); len(found) > 0 {
		msg += " (did you mean " + strconv.Quote(found[0].Str) + "?)"
	}

	return m, tea.Println(errorStyle.Render(msg))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctx:    m.ctx,
		logger: m.cfg.Logger,
		source: strings.Join(m.transcript, "\n"),
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		}

		return editDoneMsg{source: cmd.edited, ok: cmd.ok}
	})
}

func listVars(s *lang.Session) string {
	vars := s.Vars()
	if len(vars) == 0 {
		return hintStyle.Render("  (none)")
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	slices.Sort(names)

	var b strings.Builder

	for _, name := range names {
		v := vars[name]
		fmt.Fprintf(&b, "  %s %s %s\n", name, hintStyle.Render(v.Type().Keyword()), v)
	}

	return strings.TrimRight(b.String(), "\n")
}

func listFunctions(s *lang.Session) string {
	names := s.Functions()
	if len(names) == 0 {
		return hintStyle.Render("  (none)")
	}

	var b strings.Builder

	for _, name := range names {
		if fn, ok := s.Function(name); ok {
			fmt.Fprintf(&b, "  %s\n", fn.Signature())
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// listBuiltins lists built-in signatures, ranked by fuzzy match against
// query when it is non-empty.
func listBuiltins(query string) string {
	names := lang.BuiltinNames()

	if query != "" {
		found := fuzzy.Find(query, names)
		names = names[:0:0]

		for _, f := range found {
			names = append(names, f.Str)
		}
	}

	if len(names) == 0 {
		return hintStyle.Render("  (no match)")
	}

	var b strings.Builder

	for _, name := range names {
		if bi, ok := lang.LookupBuiltin(name); ok {
			fmt.Fprintf(&b, "  %s  %s\n", bi.Signature(), hintStyle.Render(bi.Doc))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
