package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	rollupcodec "github.com/wippyai/rollup-codec"
	"github.com/wippyai/rollup-codec/digest"
	"github.com/wippyai/rollup-codec/document"
	"github.com/wippyai/rollup-codec/errors"
	"github.com/wippyai/rollup-codec/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	targetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	codec    *rollupcodec.Codec
	filename string
	result   string
	targets  []target
	input    textinput.Model
	format   document.Format
	digest   digest.Algorithm
	selected int
	state    modelState
}

// target is one encodable entry point: a role or a bare type index.
type target struct {
	label    string
	typeName string
	index    int
}

type modelState int

const (
	stateSelectTarget modelState = iota
	stateInputValue
	stateShowResult
)

type encodeResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(codec *rollupcodec.Codec, filename string, format document.Format, alg digest.Algorithm) *interactiveModel {
	return &interactiveModel{
		codec:    codec,
		filename: filename,
		targets:  listTargets(codec.Schema()),
		format:   format,
		digest:   alg,
		state:    stateSelectTarget,
	}
}

func listTargets(s *schema.Schema) []target {
	var out []target
	for _, r := range []schema.Role{
		schema.RoleRuntimeCall,
		schema.RoleUnsignedTransaction,
		schema.RoleTransaction,
		schema.RoleAddress,
	} {
		if idx, err := s.RoleIndex(r); err == nil {
			out = append(out, target{label: r.String(), typeName: s.ContainerName(idx), index: idx})
		}
	}
	for i := range s.Len() {
		out = append(out, target{label: fmt.Sprintf("#%d", i), typeName: s.ContainerName(i), index: i})
	}
	return out
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputValue {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectTarget && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectTarget && m.selected < len(m.targets)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectTarget:
				m.prepareInput()
				m.state = stateInputValue
				return m, textinput.Blink

			case stateInputValue:
				return m, m.encode

			case stateShowResult:
				m.state = stateInputValue
				m.result = ""
				m.err = nil
				return m, nil
			}

		case "esc":
			switch m.state {
			case stateInputValue:
				m.state = stateSelectTarget
			case stateShowResult:
				m.state = stateSelectTarget
				m.result = ""
				m.err = nil
			}
			return m, nil
		}

	case encodeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputValue {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = `{"bank": {"freeze": {"token_id": "token_1..."}}}`
	ti.Prompt = "value: "
	ti.Width = 72
	ti.CharLimit = 0
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) encode() tea.Msg {
	t := m.targets[m.selected]

	value, err := document.Parse([]byte(m.input.Value()), m.format)
	if err != nil {
		return encodeResultMsg{err: err}
	}
	encoded, err := m.codec.Encode(t.index, value)
	if err != nil {
		return encodeResultMsg{err: err}
	}

	var b strings.Builder
	if err := writeResult(&b, encoded, m.digest, true); err != nil {
		return encodeResultMsg{err: err}
	}
	return encodeResultMsg{result: strings.TrimRight(b.String(), "\n")}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Canonical Encoder"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectTarget:
		b.WriteString("Select a type to encode:\n\n")
		for i, t := range m.targets {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + t.label + "  " + t.typeName))
			} else {
				b.WriteString("  " + m.formatTarget(t))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • q quit"))

	case stateInputValue:
		t := m.targets[m.selected]
		b.WriteString(fmt.Sprintf("Encoding %s (%s)\n\n", m.formatTarget(t), m.format))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter encode • esc back • ctrl+c quit"))

	case stateShowResult:
		t := m.targets[m.selected]
		b.WriteString(fmt.Sprintf("Result for %s:\n\n", m.formatTarget(t)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(formatError(m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit value • esc choose type • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatTarget(t target) string {
	return targetStyle.Render(t.label) + "  " + typeStyle.Render(t.typeName)
}

// formatError splits structured errors into kind, path and message lines.
func formatError(err error) string {
	e, ok := err.(*errors.Error)
	if !ok {
		return "Error: " + err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "kind:  %s\n", e.Kind)
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, "path:  %s\n", strings.Join(e.Path, "."))
	}
	fmt.Fprintf(&b, "error: %s", e.Error())
	return b.String()
}

func runInteractive(codec *rollupcodec.Codec, filename string, format document.Format, alg digest.Algorithm) error {
	p := tea.NewProgram(newInteractiveModel(codec, filename, format, alg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
