// Package ui is the interactive terminal session: choose a G-code file, enter
// a layer and a speed, apply, and browse the edit log and the about panel.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"layerspeed/internal/gcode"
	"layerspeed/internal/session"
)

type field int

const (
	fieldFile field = iota
	fieldLayer
	fieldSpeed
	fieldCount
)

type statusKind int

const (
	statusNone statusKind = iota
	statusOK
	statusWarn
	statusError
)

// Options configures the interactive session.
type Options struct {
	Context  context.Context
	Session  *session.Session
	StartDir string
	Path     string
	Layer    string
	Speed    string
	Info     Info
	// Copy puts text on the clipboard. Defaults to OSC52 via termenv.
	Copy func(string)
}

type editDoneMsg struct {
	result session.Result
	err    error
}

type layersMsg struct {
	path  string
	marks []gcode.LayerMark
	err   error
}

// Model is the bubbletea model of the session.
type Model struct {
	ctx     context.Context
	sess    *session.Session
	info    Info
	copyFn  func(string)
	inputs  [fieldCount]textinput.Model
	focus   field
	picker  filepicker.Model
	picking bool
	spinner spinner.Model
	busy    bool

	showLog  bool
	showInfo bool
	copied   string

	status     string
	statusKind statusKind
	layerHint  string

	width  int
	height int
}

// NewModel builds the model. A nil Session gets a fresh one.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New(session.Options{})
	}
	info := opts.Info
	if info == (Info{}) {
		info = DefaultInfo
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboardCopy
	}

	m := &Model{
		ctx:    ctx,
		sess:   sess,
		info:   info,
		copyFn: copyFn,
		width:  80,
		height: 24,
	}

	placeholders := [fieldCount]string{"path/to/print.gcode", "layer", "speed %"}
	values := [fieldCount]string{opts.Path, opts.Layer, opts.Speed}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.SetValue(values[i])
		if field(i) != fieldFile {
			in.CharLimit = 20
		}
		m.inputs[i] = in
	}

	fp := filepicker.New()
	fp.AllowedTypes = []string{".gcode", ".gco", ".g"}
	fp.AutoHeight = false
	fp.Height = 10
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory = "."
	}
	m.picker = fp

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	m.spinner = sp

	start := fieldLayer
	if strings.TrimSpace(opts.Path) == "" {
		start = fieldFile
	}
	m.setFocus(start)
	return m
}

// Session returns the session the model records into.
func (m *Model) Session() *session.Session { return m.sess }

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if path := m.value(fieldFile); path != "" {
		cmds = append(cmds, scanLayersCmd(path))
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.picker.Height = max(5, msg.Height-12)
		return m, nil

	case editDoneMsg:
		m.busy = false
		m.finishEdit(msg)
		return m, nil

	case layersMsg:
		if msg.path == m.value(fieldFile) {
			m.layerHint = layerHint(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	}

	if m.picking {
		return m.updatePicker(msg)
	}
	return m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "ctrl+l":
		m.showLog = !m.showLog
		return m, nil
	case "ctrl+o":
		m.showInfo = !m.showInfo
		m.copied = ""
		return m, nil
	case "ctrl+e":
		if m.showInfo && m.info.Email != "" {
			m.copyFn(m.info.Email)
			m.copied = "email copied"
		}
		return m, nil
	case "ctrl+g":
		if m.showInfo && m.info.Project != "" {
			m.copyFn(m.info.Project)
			m.copied = "link copied"
		}
		return m, nil
	case "ctrl+f":
		return m, m.openPicker()
	case "enter":
		if m.focus == fieldFile && m.value(fieldFile) == "" {
			return m, m.openPicker()
		}
		if m.focus == fieldFile {
			return m, tea.Batch(m.setFocus(fieldLayer), scanLayersCmd(m.value(fieldFile)))
		}
		return m, m.apply()
	}
	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "q" {
		m.picking = false
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.inputs[fieldFile].SetValue(path)
		m.layerHint = ""
		return m, tea.Batch(cmd, m.setFocus(fieldLayer), scanLayersCmd(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setStatus(statusWarn, fmt.Sprintf("%s is not a G-code file", path))
	}
	return m, cmd
}

func (m *Model) openPicker() tea.Cmd {
	m.picking = true
	return m.picker.Init()
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if field(i) == f {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) value(f field) string {
	return strings.TrimSpace(m.inputs[f].Value())
}

// raw returns the field exactly as typed. Layer and speed are validated
// and used without trimming.
func (m *Model) raw(f field) string {
	return m.inputs[f].Value()
}

func (m *Model) apply() tea.Cmd {
	if m.busy {
		return nil
	}
	req, err := session.ParseRequest(m.value(fieldFile), m.raw(fieldLayer), m.raw(fieldSpeed))
	switch {
	case errors.Is(err, gcode.ErrNotNumeric):
		m.setStatus(statusWarn, "layer and speed must be whole numbers")
		return nil
	case errors.Is(err, session.ErrNoFile):
		m.setStatus(statusWarn, "choose a file first")
		return nil
	case err != nil:
		m.setStatus(statusError, err.Error())
		return nil
	}
	m.busy = true
	m.setStatus(statusNone, "")
	return tea.Batch(m.spinner.Tick, m.editCmd(req))
}

// editCmd runs the file edit off the update loop. The session is only
// touched when the result comes back through Update.
func (m *Model) editCmd(req session.Request) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		res, err := session.Edit(ctx, req, nil)
		return editDoneMsg{result: res, err: err}
	}
}

func (m *Model) finishEdit(msg editDoneMsg) {
	req := msg.result.Request
	switch {
	case msg.err != nil:
		m.setStatus(statusError, msg.err.Error())
	case !msg.result.Applied:
		m.setStatus(statusWarn, fmt.Sprintf("layer %s not found", req.Layer))
	default:
		m.sess.Commit(msg.result)
		m.setStatus(statusOK, fmt.Sprintf("speed %s applied at layer %s", req.Speed, req.Layer))
	}
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func scanLayersCmd(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return layersMsg{path: path, err: err}
		}
		return layersMsg{path: path, marks: gcode.ScanLayers(content)}
	}
}

func layerHint(msg layersMsg) string {
	if msg.err != nil {
		return "cannot read file"
	}
	if len(msg.marks) == 0 {
		return "no LAYER markers"
	}
	lo, hi := msg.marks[0].Layer, msg.marks[0].Layer
	for _, mk := range msg.marks[1:] {
		lo = min(lo, mk.Layer)
		hi = max(hi, mk.Layer)
	}
	return fmt.Sprintf("layers %d-%d (%d markers)", lo, hi, len(msg.marks))
}
